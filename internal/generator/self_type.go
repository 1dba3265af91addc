package generator

import (
	"slices"

	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ReplaceSelfType rewrites every `Self` identifier in s, including those
// nested in groups, to replacement. `Self::Name` is left alone when Name is
// one of the trait's own associated types.
func ReplaceSelfType(s tokens.Stream, replacement tokens.Tree, localAssocTypes []string) tokens.Stream {
	out := make(tokens.Stream, 0, len(s))
	for i, t := range s {
		switch {
		case t.Kind == tokens.KindGroup:
			t.Stream = ReplaceSelfType(t.Stream, replacement, localAssocTypes)
			out = append(out, t)
		case t.IsIdent("Self") && !isLocalAssocPath(s[i+1:], localAssocTypes):
			r := replacement
			r.Span = t.Span
			out = append(out, r)
		default:
			out = append(out, t)
		}
	}
	return out
}

func isLocalAssocPath(rest tokens.Stream, localAssocTypes []string) bool {
	return len(rest) >= 3 &&
		rest[0].IsPunct(':') && rest[1].IsPunct(':') &&
		rest[2].Kind == tokens.KindIdent &&
		slices.Contains(localAssocTypes, rest[2].Text)
}

// replaceSelfReceiver turns the receiver of a provider method into an
// explicit parameter named after the context, keeping its borrow form:
// `&'a mut self` becomes `context: &'a mut Context`.
func replaceSelfReceiver(sig *syntax.Signature, contextType tokens.Tree) {
	if len(sig.Inputs) == 0 || sig.Inputs[0].Receiver == nil {
		return
	}
	recv := sig.Inputs[0].Receiver
	arg := syntax.FnArg{Attrs: sig.Inputs[0].Attrs}

	name := tokens.Ident(ToSnakeCase(contextType.Text))
	if !recv.Reference && recv.Mutable {
		arg.Pat = tokens.Stream{tokens.Ident("mut"), name}
	} else {
		arg.Pat = tokens.Stream{name}
	}

	switch {
	case len(recv.Type) > 0:
		arg.Type = recv.Type
	case recv.Reference:
		arg.Type = tokens.Stream{tokens.Punct('&', tokens.Alone)}
		if recv.HasLifetime() {
			arg.Type = append(arg.Type, recv.Lifetime)
		}
		if recv.Mutable {
			arg.Type = append(arg.Type, tokens.Ident("mut"))
		}
		arg.Type = append(arg.Type, contextType)
	default:
		arg.Type = tokens.Stream{contextType}
	}
	sig.Inputs[0] = arg
}

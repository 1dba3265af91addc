package generator

import (
	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// genericArgs lists the type and const parameters of g as arguments.
// Lifetime parameters cannot be forwarded.
func genericArgs(g syntax.Generics, trait tokens.Tree) ([]tokens.Stream, error) {
	var args []tokens.Stream
	for _, p := range g.Params {
		if p.Kind == syntax.LifetimeParam {
			err := errors.Unsupported("lifetime parameter",
				"cannot forward lifetime parameter `%s` of trait `%s`", p.Ident(), trait.Text)
			err.WithLocation(p.Name.Span.Location()).
				WithSuggestion("move the lifetime onto the methods that use it")
			return nil, err
		}
		args = append(args, p.Arg())
	}
	return args, nil
}

// pathWithArgs prints `Name<a, b>`, or just `Name` when args is empty
func pathWithArgs(name tokens.Tree, args []tokens.Stream) tokens.Stream {
	out := tokens.Stream{name}
	if len(args) == 0 {
		return out
	}
	out = append(out, tokens.Punct('<', tokens.Alone))
	out = append(out, tokens.Join(args, ",")...)
	return append(out, tokens.Punct('>', tokens.Alone))
}

// signatureArgs returns the names the parameters of sig are bound to.
// A receiver forwards as `self`.
func signatureArgs(sig *syntax.Signature) ([]tokens.Stream, error) {
	var args []tokens.Stream
	for _, in := range sig.Inputs {
		if in.Receiver != nil {
			args = append(args, tokens.Stream{tokens.Ident("self")})
			continue
		}
		pat := in.Pat
		for len(pat) > 1 && (pat[0].IsIdent("mut") || pat[0].IsIdent("ref")) {
			pat = pat[1:]
		}
		if len(pat) != 1 || pat[0].Kind != tokens.KindIdent || pat[0].Text == "_" {
			err := errors.Unsupported("argument pattern",
				"cannot forward parameter `%s` of `%s`: only identifier patterns are supported",
				in.Pat.String(), sig.Name.Text)
			err.WithLocation(in.Pat.Span().Location())
			return nil, err
		}
		args = append(args, tokens.Stream{pat[0]})
	}
	return args, nil
}

// delegatedFn implements a trait method by calling the same method on
// delegator with the same arguments, awaiting the result of async methods.
func delegatedFn(sig *syntax.Signature, delegator tokens.Stream) (*syntax.ImplFn, error) {
	args, err := signatureArgs(sig)
	if err != nil {
		return nil, err
	}
	body := tokens.Concat(
		delegator,
		tokens.Ops("::"),
		sig.Name,
		tokens.Group(tokens.DelimParen, tokens.Join(args, ",")),
	)
	if sig.Async {
		body = append(body, tokens.Punct('.', tokens.Alone), tokens.Ident("await"))
	}
	return &syntax.ImplFn{Sig: sig.Clone(), Body: body}, nil
}

// delegatedType defines an associated type as the same type projected
// through `<delegator as Provider<args>>`.
func delegatedType(ty *syntax.TraitType, delegator, providerPath tokens.Stream) *syntax.ImplType {
	projection := tokens.MustQuote(`< #delegator as #provider > :: #name`, tokens.Vars{
		"delegator": delegator,
		"provider":  providerPath,
		"name":      ty.Name,
	})
	projection = append(projection, ty.Generics.StripBounds().TypeTokens()...)
	return &syntax.ImplType{
		Attrs:    ty.Attrs,
		Name:     ty.Name,
		Generics: ty.Generics.Clone(),
		Type:     projection,
	}
}

// delegatedItems forwards every method and associated type of trait
func delegatedItems(trait *syntax.ItemTrait, delegator, providerPath tokens.Stream) ([]syntax.ImplItem, error) {
	var items []syntax.ImplItem
	for _, item := range trait.Items {
		switch it := item.(type) {
		case *syntax.TraitFn:
			fn, err := delegatedFn(it.Sig, delegator)
			if err != nil {
				return nil, err
			}
			items = append(items, fn)
		case *syntax.TraitType:
			items = append(items, delegatedType(it, delegator, providerPath))
		}
	}
	return items, nil
}

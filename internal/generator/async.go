package generator

import (
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// StripAsync removes `async` in front of `fn` and every `.await`, at any
// depth, turning async code into its blocking equivalent.
func StripAsync(s tokens.Stream) tokens.Stream {
	out := make(tokens.Stream, 0, len(s))
	for i := 0; i < len(s); i++ {
		t := s[i]
		switch {
		case t.IsIdent("async") && i+1 < len(s) && s[i+1].IsIdent("fn"):
			continue
		case t.IsPunct('.') && i+1 < len(s) && s[i+1].IsIdent("await"):
			i++
			continue
		case t.Kind == tokens.KindGroup:
			t.Stream = StripAsync(t.Stream)
		}
		out = append(out, t)
	}
	return out
}

// NativeAsync rewrites the async methods of a trait to return
// `impl Future<Output = T> + Send`. Input that is not a trait is returned
// unchanged.
func NativeAsync(item tokens.Stream) tokens.Stream {
	trait, err := syntax.ParseItemTrait(item)
	if err != nil {
		return item
	}
	for _, it := range trait.Items {
		fn, ok := it.(*syntax.TraitFn)
		if !ok || !fn.Sig.Async {
			continue
		}
		output := fn.Sig.Output
		if len(output) == 0 {
			output = tokens.Stream{tokens.Group(tokens.DelimParen, nil)}
		}
		fn.Sig.Async = false
		fn.Sig.Output = tokens.MustQuote(`impl ::core::future::Future<Output = #output> + Send`, tokens.Vars{"output": output})
	}
	return trait.Tokens()
}

package generator

import (
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ProductType expands `Product![A, B]` into `Cons<A, Cons<B, Nil>>`
func ProductType(body tokens.Stream) (tokens.Stream, error) {
	return foldTypes(body, "Cons", "Nil")
}

// SumType expands `Sum![A, B]` into `Either<A, Either<B, Void>>`
func SumType(body tokens.Stream) (tokens.Stream, error) {
	return foldTypes(body, "Either", "Void")
}

// ProductExpr expands `product![a, b]` into `Cons(a, Cons(b, Nil))`
func ProductExpr(body tokens.Stream) (tokens.Stream, error) {
	parts := tokens.SplitTop(body, ',')
	out := tokens.Stream{tokens.Ident("Nil")}
	for i := len(parts) - 1; i >= 0; i-- {
		if len(parts[i]) == 0 {
			return nil, tokens.NewCursor(body, body.Span()).Errorf("expression")
		}
		inner := tokens.Concat(parts[i], tokens.Punct(',', tokens.Alone), out)
		out = tokens.Stream{tokens.Ident("Cons"), tokens.Group(tokens.DelimParen, inner)}
	}
	return out, nil
}

func foldTypes(body tokens.Stream, cons, empty string) (tokens.Stream, error) {
	parts := tokens.SplitTop(body, ',')
	types := make([]tokens.Stream, len(parts))
	for i, part := range parts {
		ty, err := syntax.ParseTypeStream(part)
		if err != nil {
			return nil, err
		}
		types[i] = ty
	}

	out := tokens.Stream{tokens.Ident(empty)}
	for i := len(types) - 1; i >= 0; i-- {
		out = tokens.MustQuote(`#cons < #head , #tail >`, tokens.Vars{
			"cons": tokens.Ident(cons),
			"head": types[i],
			"tail": out,
		})
	}
	return out, nil
}

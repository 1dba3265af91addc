package generator

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DelegatesToBounds returns one `DelegateComponent<C, Delegate = Target>`
// bound per component of the table, joined with `+`.
func DelegatesToBounds(target tokens.Stream, table models.DelegateTable) tokens.Stream {
	var bounds []tokens.Stream
	for _, c := range table.AllComponents() {
		bounds = append(bounds, tokens.MustQuote(`DelegateComponent< #component , Delegate = #target >`, tokens.Vars{
			"component": c.Type,
			"target":    target,
		}))
	}
	return tokens.Join(bounds, "+")
}

// DefineDelegatesToTrait declares a trait that is implemented by every
// component table delegating all components of table to target, together
// with its blanket impl:
//
//	pub trait Name<G>: DelegateComponent<A, Delegate = Target> + .. {}
//	impl<G, Components> Name<G> for Components where Components: .. {}
func DefineDelegatesToTrait(name tokens.Tree, target tokens.Stream, targetGenerics syntax.Generics, table models.DelegateTable) (*syntax.ItemTrait, *syntax.ItemImpl) {
	bounds := DelegatesToBounds(target, table)

	trait := &syntax.ItemTrait{
		Vis:         syntax.Visibility{tokens.Ident("pub")},
		Name:        name,
		Generics:    targetGenerics.Clone(),
		Supertraits: bounds,
	}

	components := tokens.Ident("Components")
	generics := targetGenerics.Clone()
	generics.Params = append(generics.Params, syntax.NewTypeParam(components.Text))
	generics.AddPredicate(tokens.Concat(components, tokens.Punct(':', tokens.Alone), bounds.Clone()))

	impl := &syntax.ItemImpl{
		Generics: generics,
		Trait:    tokens.Concat(name, targetGenerics.TypeTokens()),
		SelfType: tokens.Stream{components},
	}
	return trait, impl
}

// delegatesToName returns `DelegatesTo<Name>`
func delegatesToName(name tokens.Tree) tokens.Tree {
	return tokens.Ident("DelegatesTo" + name.Text).WithSpan(name.Span)
}

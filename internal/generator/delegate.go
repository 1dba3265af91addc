package generator

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ImplDelegateComponents emits one `DelegateComponent` impl per
// (component, source) pair of the table, in table order. Each impl
// declares the target's generics followed by the component's own.
func ImplDelegateComponents(target tokens.Stream, targetGenerics syntax.Generics, table models.DelegateTable) []*syntax.ItemImpl {
	var impls []*syntax.ItemImpl
	for _, pair := range table.Pairs() {
		impls = append(impls, ImplDelegateComponent(target, targetGenerics, pair.Component, pair.Source))
	}
	return impls
}

// ImplDelegateComponent emits the impl for a single component:
//
//	impl<..> DelegateComponent<Component> for Target {
//	    type Delegate = Source;
//	}
func ImplDelegateComponent(target tokens.Stream, targetGenerics syntax.Generics, component models.ComponentSpec, source tokens.Stream) *syntax.ItemImpl {
	return &syntax.ItemImpl{
		Generics: MergeGenerics(targetGenerics, component.Generics),
		Trait:    tokens.MustQuote(`DelegateComponent< #component >`, tokens.Vars{"component": component.Type}),
		SelfType: target.Clone(),
		Items: []syntax.ImplItem{&syntax.ImplType{
			Name: tokens.Ident("Delegate"),
			Type: source.Clone(),
		}},
	}
}

// DelegateComponents expands `delegate_components!`
func DelegateComponents(body tokens.Stream) (tokens.Stream, error) {
	in, err := parser.ParseDelegateComponents(body, body.Span())
	if err != nil {
		return nil, err
	}
	return DelegateComponentsFrom(in), nil
}

// DelegateComponentsFrom is DelegateComponents for already parsed input
func DelegateComponentsFrom(in *models.DelegateComponentsInput) tokens.Stream {
	return implsTokens(ImplDelegateComponents(in.Target.Type, in.Target.Generics, in.Table))
}

func implsTokens(impls []*syntax.ItemImpl) tokens.Stream {
	var out tokens.Stream
	for _, impl := range impls {
		out = append(out, impl.Tokens()...)
	}
	return out
}

package generator

import (
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// componentParam names the generic parameter of the provider blanket impl
const componentParam = "Component"

// DeriveProviderImpl implements the provider trait for every type that
// delegates the component to an implementation of the provider:
//
//	impl<Component, Context, ..> Provider<Context, ..> for Component
//	where
//	    Component: DelegateComponent<Name<..>>,
//	    Component::Delegate: Provider<Context, ..>,
func DeriveProviderImpl(provider *syntax.ItemTrait, componentName tokens.Tree, componentParams []tokens.Tree) (*syntax.ItemImpl, error) {
	providerArgs, err := genericArgs(provider.Generics, provider.Name)
	if err != nil {
		return nil, err
	}
	providerPath := pathWithArgs(provider.Name, providerArgs)

	params := make([]tokens.Stream, len(componentParams))
	for i, p := range componentParams {
		params[i] = tokens.Stream{p}
	}
	componentType := pathWithArgs(componentName, params)

	component := tokens.Ident(componentParam)
	delegate := tokens.MustQuote(`#component :: Delegate`, tokens.Vars{"component": component})

	generics := provider.Generics.Clone()
	generics.Prepend(syntax.NewTypeParam(componentParam))
	generics.AddPredicate(tokens.MustQuote(`#component : DelegateComponent< #name >`, tokens.Vars{
		"component": component,
		"name":      componentType,
	}))
	generics.AddPredicate(tokens.MustQuote(`#delegate : #provider`, tokens.Vars{
		"delegate": delegate,
		"provider": providerPath,
	}))

	items, err := delegatedItems(provider, delegate, providerPath)
	if err != nil {
		return nil, err
	}

	return &syntax.ItemImpl{
		Attrs:    provider.Attrs,
		Unsafe:   provider.Unsafe,
		Generics: generics,
		Trait:    providerPath,
		SelfType: tokens.Stream{component},
		Items:    items,
	}, nil
}

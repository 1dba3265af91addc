package generator

import (
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DeriveConsumerImpl implements the consumer trait for every context whose
// component table implements the provider trait:
//
//	impl<Context, ..> Consumer<..> for Context
//	where
//	    Context: HasComponents,
//	    Context::Components: Provider<Context, ..>,
func DeriveConsumerImpl(consumer *syntax.ItemTrait, providerName, contextType tokens.Tree) (*syntax.ItemImpl, error) {
	consumerArgs, err := genericArgs(consumer.Generics, consumer.Name)
	if err != nil {
		return nil, err
	}
	providerArgs := append([]tokens.Stream{{contextType}}, consumerArgs...)
	providerPath := pathWithArgs(providerName, providerArgs)

	generics := consumer.Generics.Clone()
	generics.Prepend(syntax.NewTypeParam(contextType.Text))
	if len(consumer.Supertraits) > 0 {
		generics.AddPredicate(tokens.MustQuote(`#ctx : #bounds`, tokens.Vars{
			"ctx":    contextType,
			"bounds": consumer.Supertraits,
		}))
	}

	components := tokens.MustQuote(`#ctx :: Components`, tokens.Vars{"ctx": contextType})
	generics.AddPredicate(tokens.MustQuote(`#ctx : HasComponents`, tokens.Vars{"ctx": contextType}))
	generics.AddPredicate(tokens.MustQuote(`#components : #provider`, tokens.Vars{
		"components": components,
		"provider":   providerPath,
	}))

	items, err := delegatedItems(consumer, components, providerPath)
	if err != nil {
		return nil, err
	}

	return &syntax.ItemImpl{
		Attrs:    consumer.Attrs,
		Unsafe:   consumer.Unsafe,
		Generics: generics,
		Trait:    pathWithArgs(consumer.Name, consumerArgs),
		SelfType: tokens.Stream{contextType},
		Items:    items,
	}, nil
}

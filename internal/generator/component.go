package generator

import (
	"github.com/toyz/cgp/internal/annotations"
	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DeriveComponent expands `#[cgp_component(attr)]` applied to a consumer
// trait. The output holds the consumer trait unchanged, the component
// marker struct, the provider trait and the two blanket impls.
func DeriveComponent(attr, item tokens.Stream) (tokens.Stream, error) {
	def, err := annotations.ParseComponentAttribute(attr, attr.Span())
	if err != nil {
		return nil, err
	}
	consumer, err := syntax.ParseItemTrait(item)
	if err != nil {
		return nil, errors.WrapParseError("consumer trait", err)
	}
	return DeriveComponentFrom(def, consumer)
}

// DeriveComponentFrom is DeriveComponent for already parsed input
func DeriveComponentFrom(def *models.ComponentDefinition, consumer *syntax.ItemTrait) (tokens.Stream, error) {
	provider, err := DeriveProviderTrait(consumer, def.ProviderIdent(), def.ContextIdent())
	if err != nil {
		return nil, err
	}
	consumerImpl, err := DeriveConsumerImpl(consumer, def.ProviderIdent(), def.ContextIdent())
	if err != nil {
		return nil, err
	}
	providerImpl, err := DeriveProviderImpl(provider, def.ComponentIdent(), def.ComponentParamIdents())
	if err != nil {
		return nil, err
	}

	return tokens.Concat(
		consumer,
		ComponentNameStruct(def.ComponentIdent(), def.ComponentParamIdents()),
		provider,
		consumerImpl,
		providerImpl,
	), nil
}

// ComponentNameStruct declares the component marker: a unit struct, or a
// PhantomData tuple struct when the component has type parameters.
func ComponentNameStruct(name tokens.Tree, params []tokens.Tree) *syntax.ItemStruct {
	st := &syntax.ItemStruct{
		Vis:  syntax.Visibility{tokens.Ident("pub")},
		Name: name,
		Kind: syntax.UnitStruct,
	}
	if len(params) == 0 {
		return st
	}

	args := make([]tokens.Tree, len(params))
	for i, p := range params {
		st.Generics.Params = append(st.Generics.Params, syntax.NewTypeParam(p.Text))
		args[i] = p
	}
	st.Kind = syntax.TupleStruct
	st.Fields = []syntax.Field{{
		Vis: syntax.Visibility{tokens.Ident("pub")},
		Type: tokens.MustQuote(`core::marker::PhantomData<( #args )>`, tokens.Vars{
			"args": tokens.Join(args, ","),
		}),
	}}
	return st
}

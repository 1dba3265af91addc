package generator

import (
	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DeriveProviderTrait derives the provider trait from a consumer trait.
//
// The provider takes the context as its first generic parameter. The
// consumer's supertraits become a where predicate on the context, and
// every `Self` in the trait refers to the context instead, except for
// paths to the trait's own associated types. Method receivers are replaced
// by an explicit context parameter.
func DeriveProviderTrait(consumer *syntax.ItemTrait, providerName, contextType tokens.Tree) (*syntax.ItemTrait, error) {
	provider := consumer.Clone()
	provider.Name = providerName
	provider.Generics.Prepend(syntax.NewTypeParam(contextType.Text))

	locals := provider.LocalAssocTypes()

	var predicates []syntax.Predicate
	for _, pred := range provider.Generics.Predicates() {
		predicates = append(predicates, syntax.Predicate(ReplaceSelfType(pred.Tokens(), contextType, locals)))
	}
	if len(provider.Supertraits) > 0 {
		bounds := ReplaceSelfType(provider.Supertraits, contextType, locals)
		pred := tokens.Concat(contextType, tokens.Punct(':', tokens.Alone), bounds)
		predicates = append(predicates, syntax.Predicate(pred))
	}
	provider.Supertraits = nil
	provider.Generics.Where = nil
	if len(predicates) > 0 {
		provider.Generics.Where = &syntax.WhereClause{Predicates: predicates}
	}

	for i, item := range provider.Items {
		rewritten, err := syntax.ParseTraitItem(ReplaceSelfType(item.Tokens(), contextType, locals))
		if err != nil {
			return nil, errors.WrapParseError("provider trait item", err)
		}
		if fn, ok := rewritten.(*syntax.TraitFn); ok {
			replaceSelfReceiver(fn.Sig, contextType)
		}
		provider.Items[i] = rewritten
	}
	return provider, nil
}

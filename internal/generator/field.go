package generator

import (
	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DeriveFields expands `#[derive(HasField)]` on a struct: a `HasField` and
// a `HasFieldMut` impl for every named field, keyed by the field name as a
// type-level symbol. Tuple and unit structs produce nothing.
func DeriveFields(item tokens.Stream) (tokens.Stream, error) {
	st, err := syntax.ParseItemStruct(item)
	if err != nil {
		return nil, errors.WrapParseError("struct", err)
	}
	return implsTokens(HasFieldImpls(st)), nil
}

// HasFieldImpls returns the field access impls of st, two per named field
func HasFieldImpls(st *syntax.ItemStruct) []*syntax.ItemImpl {
	if st.Kind != syntax.NamedStruct {
		return nil
	}
	self := tokens.Concat(st.Name, st.Generics.TypeTokens())

	var impls []*syntax.ItemImpl
	for _, f := range st.Fields {
		symbol := SymbolType(f.Name.Text)
		vars := tokens.Vars{"symbol": symbol, "field": *f.Name}

		impls = append(impls,
			&syntax.ItemImpl{
				Generics: st.Generics.Clone(),
				Trait:    tokens.MustQuote(`HasField< #symbol >`, vars),
				SelfType: self.Clone(),
				Items: []syntax.ImplItem{
					&syntax.ImplType{Name: tokens.Ident("Value"), Type: f.Type.Clone()},
					tokens.MustQuote(`
						fn get_field(&self, key: ::core::marker::PhantomData< #symbol >) -> &Self::Value {
							&self. #field
						}
					`, vars),
				},
			},
			&syntax.ItemImpl{
				Generics: st.Generics.Clone(),
				Trait:    tokens.MustQuote(`HasFieldMut< #symbol >`, vars),
				SelfType: self.Clone(),
				Items: []syntax.ImplItem{
					tokens.MustQuote(`
						fn get_field_mut(&mut self, key: ::core::marker::PhantomData< #symbol >) -> &mut Self::Value {
							&mut self. #field
						}
					`, vars),
				},
			},
		)
	}
	return impls
}

package generator

import (
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DefineStruct declares the marker struct of a component table or preset.
// Without generics it is a unit struct. Otherwise it is a tuple struct over
// `PhantomData` that mentions every type and lifetime parameter, with all
// bounds removed.
func DefineStruct(name tokens.Tree, generics syntax.Generics) *syntax.ItemStruct {
	pub := syntax.Visibility{tokens.Ident("pub")}
	st := &syntax.ItemStruct{Vis: pub, Name: name, Kind: syntax.UnitStruct}
	if len(generics.Params) == 0 {
		return st
	}

	st.Generics = generics.StripBounds()
	var phantom []tokens.Stream
	for _, p := range st.Generics.Params {
		switch p.Kind {
		case syntax.TypeParam:
			phantom = append(phantom, p.Arg())
		case syntax.LifetimeParam:
			phantom = append(phantom, tokens.MustQuote(`& #life ()`, tokens.Vars{"life": p.Name}))
		}
	}
	st.Kind = syntax.TupleStruct
	st.Fields = []syntax.Field{{
		Vis: pub,
		Type: tokens.MustQuote(`::core::marker::PhantomData<( #params )>`, tokens.Vars{
			"params": tokens.Join(phantom, ","),
		}),
	}}
	return st
}

package generator

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/substitution"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DefinePreset expands `cgp_preset!`
func DefinePreset(body tokens.Stream) (tokens.Stream, error) {
	preset, err := parser.ParseDefinePreset(body, body.Span())
	if err != nil {
		return nil, err
	}
	out, _ := DefinePresetFrom(preset)
	return out, nil
}

// DefinePresetFrom emits, in order: the preset struct, the `Is<Preset>`
// membership trait, the delegations, one membership impl per component,
// the `DelegatesTo<Preset>` trait and the `with_<preset>!` macro.
func DefinePresetFrom(preset *models.PresetDescriptor) (tokens.Stream, models.RegistryEntry) {
	target := preset.TargetType()
	membership := tokens.Ident("Is" + preset.Name.Text).WithSpan(preset.Name.Span)

	out := DefineStruct(preset.Name, preset.Generics).Tokens()
	out = append(out, tokens.MustQuote(`pub trait #name <Component> {}`, tokens.Vars{"name": membership})...)
	out = append(out, implsTokens(ImplDelegateComponents(target, preset.Generics, preset.Table))...)
	out = append(out, implsTokens(ImplComponentsIsPreset(membership, preset.Table))...)

	trait, impl := DefineDelegatesToTrait(delegatesToName(preset.Name), target, preset.Generics, preset.Table)
	out = append(out, trait.Tokens()...)
	out = append(out, impl.Tokens()...)

	entry := substitutionEntry(preset.Name, preset.Table, true)
	out = append(out, substitution.DefineSubstitutionMacro(
		tokens.Ident(entry.MacroName).WithSpan(preset.Name.Span),
		preset.Name,
		tokens.Join(entry.Components, ","),
	)...)
	return out, entry
}

// ImplComponentsIsPreset marks every component of the table as a member
// of the preset, for any type:
//
//	impl<G, T> IsPreset<Component> for T {}
//
// Only the component's own generics are declared; the preset's generics
// are not in scope of these impls. When the component already declares a
// `T`, the implementing type is renamed to stay distinct.
func ImplComponentsIsPreset(membership tokens.Tree, table models.DelegateTable) []*syntax.ItemImpl {
	var impls []*syntax.ItemImpl
	for _, c := range table.AllComponents() {
		self := freshParam("T", c.Generics)
		generics := c.Generics.Clone()
		generics.Params = append(generics.Params, syntax.NewTypeParam(self))
		impls = append(impls, &syntax.ItemImpl{
			Generics: generics,
			Trait:    tokens.Concat(membership, tokens.Punct('<', tokens.Alone), c.Type, tokens.Punct('>', tokens.Alone)),
			SelfType: tokens.Stream{tokens.Ident(self)},
		})
	}
	return impls
}

// freshParam returns name, suffixed with underscores until no parameter of
// g uses it
func freshParam(name string, g syntax.Generics) string {
	for {
		taken := false
		for _, p := range g.Params {
			if p.Kind != syntax.LifetimeParam && p.Name.Text == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
		name += "_"
	}
}

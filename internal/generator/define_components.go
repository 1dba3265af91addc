package generator

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/substitution"
	"github.com/toyz/cgp/internal/tokens"
)

// DefineComponents expands `define_components!`: the component table
// struct, its delegations, the `DelegatesTo<Name>` trait and the
// `with_<name>!` substitution macro over the table's components.
func DefineComponents(body tokens.Stream) (tokens.Stream, error) {
	in, err := parser.ParseDefineComponents(body, body.Span())
	if err != nil {
		return nil, err
	}
	out, _ := DefineComponentsFrom(in)
	return out, nil
}

// DefineComponentsFrom is DefineComponents for already parsed input. It also
// describes the substitution macro the output defines.
func DefineComponentsFrom(in *models.DefineComponentsInput) (tokens.Stream, models.RegistryEntry) {
	target := in.TargetType()

	out := DefineStruct(in.Name, in.Generics).Tokens()
	out = append(out, implsTokens(ImplDelegateComponents(target, in.Generics, in.Table))...)

	trait, impl := DefineDelegatesToTrait(delegatesToName(in.Name), target, in.Generics, in.Table)
	out = append(out, trait.Tokens()...)
	out = append(out, impl.Tokens()...)

	entry := substitutionEntry(in.Name, in.Table, false)
	out = append(out, substitution.DefineSubstitutionMacro(
		tokens.Ident(entry.MacroName).WithSpan(in.Name.Span),
		in.Name,
		tokens.Join(entry.Components, ","),
	)...)
	return out, entry
}

// WithMacroName returns the name of the substitution macro defined for a
// component table or preset: `with_<snake_case name>`.
func WithMacroName(name string) string {
	return "with_" + ToSnakeCase(name)
}

func substitutionEntry(name tokens.Tree, table models.DelegateTable, preset bool) models.RegistryEntry {
	entry := models.RegistryEntry{
		MacroName:  WithMacroName(name.Text),
		Marker:     name.Text,
		SourceFile: name.Span.File,
		IsPreset:   preset,
	}
	for _, c := range table.AllComponents() {
		entry.Components = append(entry.Components, c.Tokens())
	}
	return entry
}

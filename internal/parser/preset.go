package parser

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ParseDefinePreset parses the body of `cgp_preset!`: `Name<G> { entries }`
func ParseDefinePreset(body tokens.Stream, scope tokens.Span) (*models.PresetDescriptor, error) {
	name, generics, table, err := parseNamedTable(body, scope)
	if err != nil {
		return nil, err
	}
	return &models.PresetDescriptor{Name: name, Generics: generics, Table: table}, nil
}

// ParseDefineComponents parses the body of `define_components!`, which
// shares the preset grammar.
func ParseDefineComponents(body tokens.Stream, scope tokens.Span) (*models.DefineComponentsInput, error) {
	name, generics, table, err := parseNamedTable(body, scope)
	if err != nil {
		return nil, err
	}
	return &models.DefineComponentsInput{Name: name, Generics: generics, Table: table}, nil
}

func parseNamedTable(body tokens.Stream, scope tokens.Span) (tokens.Tree, syntax.Generics, models.DelegateTable, error) {
	var (
		name     tokens.Tree
		generics syntax.Generics
		table    models.DelegateTable
		err      error
	)
	c := tokens.NewCursor(body, scope)
	if name, err = c.ExpectIdent(); err != nil {
		return name, generics, table, err
	}
	if generics, err = syntax.ParseGenerics(c); err != nil {
		return name, generics, table, err
	}
	if generics.Where, err = syntax.ParseWhereClause(c); err != nil {
		return name, generics, table, err
	}
	if table, err = ParseDelegateTable(c); err != nil {
		return name, generics, table, err
	}
	return name, generics, table, c.ExpectEOF()
}

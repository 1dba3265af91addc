package parser

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ParseDelegateComponents parses the body of `delegate_components!`:
//
//	<'a, T> Target<'a, T> {
//	    FooComponent: FooProvider,
//	    [BarComponent, <I> BazComponent<I>]: Shared,
//	}
func ParseDelegateComponents(body tokens.Stream, scope tokens.Span) (*models.DelegateComponentsInput, error) {
	c := tokens.NewCursor(body, scope)
	in := &models.DelegateComponentsInput{}

	var err error
	if in.Target.Generics, err = syntax.ParseGenerics(c); err != nil {
		return nil, err
	}
	if in.Target.Type, err = syntax.ParseType(c); err != nil {
		return nil, err
	}
	if in.Target.Generics.Where, err = syntax.ParseWhereClause(c); err != nil {
		return nil, err
	}
	if in.Table, err = ParseDelegateTable(c); err != nil {
		return nil, err
	}
	return in, c.ExpectEOF()
}

// ParseDelegateTable parses a brace-delimited list of delegation entries.
// Entries are separated by commas; a trailing comma is allowed.
func ParseDelegateTable(c *tokens.Cursor) (models.DelegateTable, error) {
	var table models.DelegateTable
	group, err := c.ExpectGroup(tokens.DelimBrace)
	if err != nil {
		return table, err
	}
	inner := tokens.NewCursor(group.Stream, group.Span)
	for !inner.EOF() {
		entry, err := parseDelegateEntry(inner)
		if err != nil {
			return table, err
		}
		table.Entries = append(table.Entries, entry)
		if inner.EOF() {
			break
		}
		if err := inner.ExpectPunct(","); err != nil {
			return table, err
		}
	}
	return table, nil
}

func parseDelegateEntry(c *tokens.Cursor) (models.DelegateEntry, error) {
	entry := models.DelegateEntry{Span: c.Span()}

	if c.PeekGroup(tokens.DelimBracket) {
		list, _ := c.Next()
		specs, err := ParseComponentList(list.Stream, list.Span)
		if err != nil {
			return entry, err
		}
		entry.Components = specs
	} else {
		spec, err := parseComponentSpec(c)
		if err != nil {
			return entry, err
		}
		entry.Components = []models.ComponentSpec{spec}
	}

	if err := c.ExpectPunct(":"); err != nil {
		return entry, err
	}
	source, err := syntax.ParseType(c)
	if err != nil {
		return entry, err
	}
	entry.Source = source
	return entry, nil
}

// ParseComponentList parses a comma-separated list of component specs.
// A trailing comma is allowed.
func ParseComponentList(s tokens.Stream, scope tokens.Span) ([]models.ComponentSpec, error) {
	var specs []models.ComponentSpec
	for _, part := range tokens.SplitTop(s, ',') {
		spec, err := ParseComponentSpec(part, scope)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ParseComponentSpec parses `[<generics>] TypePath` as a complete stream
func ParseComponentSpec(s tokens.Stream, scope tokens.Span) (models.ComponentSpec, error) {
	c := tokens.NewCursor(s, scope)
	spec, err := parseComponentSpec(c)
	if err != nil {
		return spec, err
	}
	return spec, c.ExpectEOF()
}

func parseComponentSpec(c *tokens.Cursor) (models.ComponentSpec, error) {
	var spec models.ComponentSpec
	var err error
	if spec.Generics, err = syntax.ParseGenerics(c); err != nil {
		return spec, err
	}
	if spec.Type, err = syntax.ParseType(c); err != nil {
		return spec, err
	}
	return spec, nil
}

// ParseDelegateAll parses `Marker, Source, Target` with an optional trailing comma
func ParseDelegateAll(body tokens.Stream, scope tokens.Span) (*models.DelegateAllInput, error) {
	parts := tokens.SplitTop(body, ',')
	if len(parts) != 3 {
		c := tokens.NewCursor(body, scope)
		return nil, c.Errorf("`marker, source, target`")
	}
	in := &models.DelegateAllInput{}
	var err error
	if in.Marker, err = syntax.ParseTypeStream(parts[0]); err != nil {
		return nil, err
	}
	if in.Source, err = syntax.ParseTypeStream(parts[1]); err != nil {
		return nil, err
	}
	if in.Target, err = syntax.ParseTypeStream(parts[2]); err != nil {
		return nil, err
	}
	return in, nil
}

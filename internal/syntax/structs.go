package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// StructKind tells how a struct declares its fields
type StructKind int

const (
	UnitStruct StructKind = iota
	TupleStruct
	NamedStruct
)

// Field is a struct field; Name is nil for tuple fields
type Field struct {
	Attrs []Attribute
	Vis   Visibility
	Name  *tokens.Tree
	Type  tokens.Stream
}

// Tokens prints the field
func (f Field) Tokens() tokens.Stream {
	out := AttrsTokens(f.Attrs)
	out = append(out, f.Vis.Tokens()...)
	if f.Name != nil {
		out = append(out, *f.Name, tokens.Punct(':', tokens.Alone))
	}
	return append(out, f.Type...)
}

// ItemStruct is a struct definition
type ItemStruct struct {
	Attrs    []Attribute
	Vis      Visibility
	Name     tokens.Tree
	Generics Generics
	Kind     StructKind
	Fields   []Field
}

// Tokens prints the struct definition
func (s *ItemStruct) Tokens() tokens.Stream {
	out := AttrsTokens(s.Attrs)
	out = append(out, s.Vis.Tokens()...)
	out = append(out, tokens.Ident("struct"), s.Name)
	out = append(out, s.Generics.DeclTokens()...)

	switch s.Kind {
	case NamedStruct:
		out = append(out, s.Generics.WhereTokens()...)
		return append(out, tokens.Group(tokens.DelimBrace, tokens.Join(s.Fields, ",")))
	case TupleStruct:
		out = append(out, tokens.Group(tokens.DelimParen, tokens.Join(s.Fields, ",")))
	}
	out = append(out, s.Generics.WhereTokens()...)
	return append(out, tokens.Punct(';', tokens.Alone))
}

// ParseItemStruct parses a complete stream as a struct definition
func ParseItemStruct(s tokens.Stream) (*ItemStruct, error) {
	c := tokens.NewCursor(s, tokens.Span{})
	st := &ItemStruct{}
	st.Attrs = ParseAttributes(c)
	st.Vis = ParseVisibility(c)
	if err := c.ExpectKeyword("struct"); err != nil {
		return nil, err
	}

	var err error
	if st.Name, err = c.ExpectIdent(); err != nil {
		return nil, err
	}
	if st.Generics, err = ParseGenerics(c); err != nil {
		return nil, err
	}
	if st.Generics.Where, err = ParseWhereClause(c); err != nil {
		return nil, err
	}

	switch {
	case c.PeekGroup(tokens.DelimBrace):
		body, _ := c.Next()
		st.Kind = NamedStruct
		if st.Fields, err = parseFields(body, true); err != nil {
			return nil, err
		}
	case c.PeekGroup(tokens.DelimParen):
		body, _ := c.Next()
		st.Kind = TupleStruct
		if st.Fields, err = parseFields(body, false); err != nil {
			return nil, err
		}
		if st.Generics.Where, err = ParseWhereClause(c); err != nil {
			return nil, err
		}
		if err := c.ExpectPunct(";"); err != nil {
			return nil, err
		}
	default:
		st.Kind = UnitStruct
		if err := c.ExpectPunct(";"); err != nil {
			return nil, err
		}
	}
	return st, c.ExpectEOF()
}

func parseFields(body tokens.Tree, named bool) ([]Field, error) {
	var fields []Field
	for _, part := range tokens.SplitTop(body.Stream, ',') {
		c := tokens.NewCursor(part, body.Span)
		var f Field
		f.Attrs = ParseAttributes(c)
		f.Vis = ParseVisibility(c)
		if named {
			name, err := c.ExpectIdent()
			if err != nil {
				return nil, err
			}
			f.Name = &name
			if err := c.ExpectPunct(":"); err != nil {
				return nil, err
			}
		}
		f.Type = c.Rest()
		if len(f.Type) == 0 {
			return nil, c.Errorf("field type")
		}
		fields = append(fields, f)
	}
	return fields, nil
}

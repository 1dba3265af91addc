package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// TraitItem is a member of a trait body
type TraitItem interface {
	tokens.ToTokens
	cloneItem() TraitItem
}

// TraitFn is a method declaration with an optional default body
type TraitFn struct {
	Attrs   []Attribute
	Sig     *Signature
	Default *tokens.Tree // brace group, nil when the method ends with `;`
}

// Tokens prints the method
func (f *TraitFn) Tokens() tokens.Stream {
	out := AttrsTokens(f.Attrs)
	out = append(out, f.Sig.Tokens()...)
	if f.Default != nil {
		return append(out, *f.Default)
	}
	return append(out, tokens.Punct(';', tokens.Alone))
}

func (f *TraitFn) cloneItem() TraitItem {
	out := &TraitFn{Attrs: cloneAttrs(f.Attrs), Sig: f.Sig.Clone()}
	if f.Default != nil {
		body := *f.Default
		body.Stream = body.Stream.Clone()
		out.Default = &body
	}
	return out
}

// TraitType is an associated type declaration
type TraitType struct {
	Attrs    []Attribute
	Name     tokens.Tree
	Generics Generics
	Bounds   tokens.Stream
	Default  tokens.Stream
}

// Tokens prints the associated type
func (t *TraitType) Tokens() tokens.Stream {
	out := AttrsTokens(t.Attrs)
	out = append(out, tokens.Ident("type"), t.Name)
	out = append(out, t.Generics.DeclTokens()...)
	if len(t.Bounds) > 0 {
		out = append(out, tokens.Punct(':', tokens.Alone))
		out = append(out, t.Bounds...)
	}
	out = append(out, t.Generics.WhereTokens()...)
	if len(t.Default) > 0 {
		out = append(out, tokens.Punct('=', tokens.Alone))
		out = append(out, t.Default...)
	}
	return append(out, tokens.Punct(';', tokens.Alone))
}

func (t *TraitType) cloneItem() TraitItem {
	return &TraitType{
		Attrs:    cloneAttrs(t.Attrs),
		Name:     t.Name,
		Generics: t.Generics.Clone(),
		Bounds:   t.Bounds.Clone(),
		Default:  t.Default.Clone(),
	}
}

// TraitConst is an associated constant
type TraitConst struct {
	Attrs   []Attribute
	Name    tokens.Tree
	Type    tokens.Stream
	Default tokens.Stream
}

// Tokens prints the constant
func (k *TraitConst) Tokens() tokens.Stream {
	out := AttrsTokens(k.Attrs)
	out = append(out, tokens.Ident("const"), k.Name, tokens.Punct(':', tokens.Alone))
	out = append(out, k.Type...)
	if len(k.Default) > 0 {
		out = append(out, tokens.Punct('=', tokens.Alone))
		out = append(out, k.Default...)
	}
	return append(out, tokens.Punct(';', tokens.Alone))
}

func (k *TraitConst) cloneItem() TraitItem {
	return &TraitConst{Attrs: cloneAttrs(k.Attrs), Name: k.Name, Type: k.Type.Clone(), Default: k.Default.Clone()}
}

// TraitVerbatim is any other trait member, such as a macro invocation
type TraitVerbatim struct {
	Stream tokens.Stream
}

// Tokens prints the member unchanged
func (v *TraitVerbatim) Tokens() tokens.Stream {
	return v.Stream
}

func (v *TraitVerbatim) cloneItem() TraitItem {
	return &TraitVerbatim{Stream: v.Stream.Clone()}
}

// ItemTrait is a trait definition
type ItemTrait struct {
	Attrs       []Attribute
	Vis         Visibility
	Unsafe      bool
	Auto        bool
	Name        tokens.Tree
	Generics    Generics
	Supertraits tokens.Stream
	InnerAttrs  []Attribute
	Items       []TraitItem
	Span        tokens.Span
}

// Tokens prints the trait definition
func (t *ItemTrait) Tokens() tokens.Stream {
	out := AttrsTokens(t.Attrs)
	out = append(out, t.Vis.Tokens()...)
	if t.Unsafe {
		out = append(out, tokens.Ident("unsafe"))
	}
	if t.Auto {
		out = append(out, tokens.Ident("auto"))
	}
	out = append(out, tokens.Ident("trait"), t.Name)
	out = append(out, t.Generics.DeclTokens()...)
	if len(t.Supertraits) > 0 {
		out = append(out, tokens.Punct(':', tokens.Alone))
		out = append(out, t.Supertraits...)
	}
	out = append(out, t.Generics.WhereTokens()...)

	body := AttrsTokens(t.InnerAttrs)
	for _, item := range t.Items {
		body = append(body, item.Tokens()...)
	}
	return append(out, tokens.Group(tokens.DelimBrace, body))
}

// Clone returns a deep copy of the trait
func (t *ItemTrait) Clone() *ItemTrait {
	out := *t
	out.Attrs = cloneAttrs(t.Attrs)
	out.Vis = Visibility(tokens.Stream(t.Vis).Clone())
	out.Generics = t.Generics.Clone()
	out.Supertraits = t.Supertraits.Clone()
	out.InnerAttrs = cloneAttrs(t.InnerAttrs)
	out.Items = make([]TraitItem, len(t.Items))
	for i, item := range t.Items {
		out.Items[i] = item.cloneItem()
	}
	return &out
}

// LocalAssocTypes returns the names of the associated types the trait declares
func (t *ItemTrait) LocalAssocTypes() []string {
	var names []string
	for _, item := range t.Items {
		if ty, ok := item.(*TraitType); ok {
			names = append(names, ty.Name.Text)
		}
	}
	return names
}

// ParseItemTrait parses a complete stream as a trait definition
func ParseItemTrait(s tokens.Stream) (*ItemTrait, error) {
	c := tokens.NewCursor(s, tokens.Span{})
	t, err := parseItemTrait(c)
	if err != nil {
		return nil, err
	}
	return t, c.ExpectEOF()
}

// ParseTraitItem parses a complete stream as a single trait member
func ParseTraitItem(s tokens.Stream) (TraitItem, error) {
	c := tokens.NewCursor(s, s.Span())
	item, err := parseTraitItem(c)
	if err != nil {
		return nil, err
	}
	return item, c.ExpectEOF()
}

// IsTrait reports whether the stream looks like a trait definition
func IsTrait(s tokens.Stream) bool {
	c := tokens.NewCursor(s, tokens.Span{})
	ParseAttributes(c)
	ParseVisibility(c)
	c.EatIdent("unsafe")
	c.EatIdent("auto")
	return c.PeekIdent("trait")
}

func parseItemTrait(c *tokens.Cursor) (*ItemTrait, error) {
	t := &ItemTrait{Span: c.Span()}
	t.Attrs = ParseAttributes(c)
	t.Vis = ParseVisibility(c)
	t.Unsafe = c.EatIdent("unsafe")
	t.Auto = c.EatIdent("auto")
	if err := c.ExpectKeyword("trait"); err != nil {
		return nil, err
	}

	var err error
	if t.Name, err = c.ExpectIdent(); err != nil {
		return nil, err
	}
	if t.Generics, err = ParseGenerics(c); err != nil {
		return nil, err
	}
	if c.EatPunct(":") {
		t.Supertraits = c.Scan("", true)
	}
	if t.Generics.Where, err = ParseWhereClause(c); err != nil {
		return nil, err
	}

	body, err := c.ExpectGroup(tokens.DelimBrace)
	if err != nil {
		return nil, err
	}
	inner := tokens.NewCursor(body.Stream, body.Span)
	t.InnerAttrs = ParseInnerAttributes(inner)
	for !inner.EOF() {
		item, err := parseTraitItem(inner)
		if err != nil {
			return nil, err
		}
		t.Items = append(t.Items, item)
	}
	return t, nil
}

func parseTraitItem(c *tokens.Cursor) (TraitItem, error) {
	start := c.Fork()
	attrs := ParseAttributes(c)

	switch {
	case c.PeekIdent("type"):
		return parseTraitType(c, attrs)
	case c.PeekIdent("const") && c.PeekKind(1, tokens.KindIdent) && c.PeekPunctAt(2, ":"):
		return parseTraitConst(c, attrs)
	case peekSignature(c):
		sig, err := ParseSignature(c)
		if err != nil {
			return nil, err
		}
		f := &TraitFn{Attrs: attrs, Sig: sig}
		if c.EatPunct(";") {
			return f, nil
		}
		body, err := c.ExpectGroup(tokens.DelimBrace)
		if err != nil {
			return nil, err
		}
		f.Default = &body
		return f, nil
	}

	// anything else is kept as written, up to its `;` or closing brace
	c.Join(start)
	var verbatim tokens.Stream
	for {
		t, ok := c.Next()
		if !ok {
			return nil, c.Errorf("`;`")
		}
		verbatim = append(verbatim, t)
		if t.IsPunct(';') {
			break
		}
		if t.IsGroup(tokens.DelimBrace) {
			if c.PeekPunct(";") {
				semi, _ := c.Next()
				verbatim = append(verbatim, semi)
			}
			break
		}
	}
	return &TraitVerbatim{Stream: verbatim}, nil
}

func parseTraitType(c *tokens.Cursor, attrs []Attribute) (*TraitType, error) {
	c.Next()
	t := &TraitType{Attrs: attrs}
	var err error
	if t.Name, err = c.ExpectIdent(); err != nil {
		return nil, err
	}
	if t.Generics, err = ParseGenerics(c); err != nil {
		return nil, err
	}
	if c.EatPunct(":") {
		t.Bounds = c.Scan(";=", false)
	}
	if t.Generics.Where, err = ParseWhereClause(c); err != nil {
		return nil, err
	}
	if c.EatPunct("=") {
		if t.Default, err = ParseType(c); err != nil {
			return nil, err
		}
		trailing, err := ParseWhereClause(c)
		if err != nil {
			return nil, err
		}
		for _, p := range trailing.predicates() {
			t.Generics.AddPredicate(tokens.Stream(p))
		}
	}
	if err := c.ExpectPunct(";"); err != nil {
		return nil, err
	}
	return t, nil
}

func parseTraitConst(c *tokens.Cursor, attrs []Attribute) (*TraitConst, error) {
	c.Next()
	k := &TraitConst{Attrs: attrs}
	k.Name, _ = c.Next()
	c.Next()

	var err error
	if k.Type, err = ParseType(c); err != nil {
		return nil, err
	}
	if c.EatPunct("=") {
		k.Default = c.Until(';')
	}
	if err := c.ExpectPunct(";"); err != nil {
		return nil, err
	}
	return k, nil
}

package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// ParamKind identifies the variant of a generic parameter
type ParamKind int

const (
	TypeParam ParamKind = iota
	LifetimeParam
	ConstParam
)

// GenericParam is one entry of a `<...>` parameter list
type GenericParam struct {
	Kind    ParamKind
	Attrs   []Attribute
	Name    tokens.Tree   // identifier, or lifetime for LifetimeParam
	Bounds  tokens.Stream // after `:`; for const params this is the const type
	Default tokens.Stream // after `=`
}

// NewTypeParam creates an unbounded type parameter
func NewTypeParam(name string) GenericParam {
	return GenericParam{Kind: TypeParam, Name: tokens.Ident(name)}
}

// Ident returns the parameter name as written (lifetimes keep their quote)
func (p GenericParam) Ident() string {
	return p.Name.Text
}

// Arg returns the parameter as it appears in an argument list
func (p GenericParam) Arg() tokens.Stream {
	return tokens.Stream{p.Name}
}

func (p GenericParam) render(withDefault, withAttrs bool) tokens.Stream {
	var out tokens.Stream
	if withAttrs {
		for _, a := range p.Attrs {
			out = append(out, a.Tokens()...)
		}
	}
	if p.Kind == ConstParam {
		out = append(out, tokens.Ident("const"))
	}
	out = append(out, p.Name)
	if len(p.Bounds) > 0 {
		out = append(out, tokens.Punct(':', tokens.Alone))
		out = append(out, p.Bounds...)
	}
	if withDefault && len(p.Default) > 0 {
		out = append(out, tokens.Punct('=', tokens.Alone))
		out = append(out, p.Default...)
	}
	return out
}

// Tokens prints the parameter in declaration form
func (p GenericParam) Tokens() tokens.Stream {
	return p.render(true, true)
}

// Clone returns a deep copy of the parameter
func (p GenericParam) Clone() GenericParam {
	p.Attrs = cloneAttrs(p.Attrs)
	p.Bounds = p.Bounds.Clone()
	p.Default = p.Default.Clone()
	return p
}

// Predicate is a single where-clause predicate
type Predicate tokens.Stream

// Tokens returns the predicate tokens
func (p Predicate) Tokens() tokens.Stream {
	return tokens.Stream(p)
}

// WhereClause is a `where` clause
type WhereClause struct {
	Predicates []Predicate
}

// Tokens prints `where p1, p2`; a nil or empty clause prints nothing
func (w *WhereClause) Tokens() tokens.Stream {
	if w == nil || len(w.Predicates) == 0 {
		return nil
	}
	out := tokens.Stream{tokens.Ident("where")}
	return append(out, tokens.Join(w.Predicates, ",")...)
}

func (w *WhereClause) predicates() []Predicate {
	if w == nil {
		return nil
	}
	return w.Predicates
}

// Clone returns a deep copy of the clause
func (w *WhereClause) Clone() *WhereClause {
	if w == nil {
		return nil
	}
	preds := make([]Predicate, len(w.Predicates))
	for i, p := range w.Predicates {
		preds[i] = Predicate(tokens.Stream(p).Clone())
	}
	return &WhereClause{Predicates: preds}
}

// Generics is a generic parameter list with its optional where clause
type Generics struct {
	Params []GenericParam
	Where  *WhereClause
}

// IsEmpty reports whether there are no parameters and no predicates
func (g Generics) IsEmpty() bool {
	return len(g.Params) == 0 && (g.Where == nil || len(g.Where.Predicates) == 0)
}

// Clone returns a deep copy
func (g Generics) Clone() Generics {
	var params []GenericParam
	if g.Params != nil {
		params = make([]GenericParam, len(g.Params))
		for i, p := range g.Params {
			params[i] = p.Clone()
		}
	}
	return Generics{Params: params, Where: g.Where.Clone()}
}

// Prepend inserts p at position 0
func (g *Generics) Prepend(p GenericParam) {
	g.Params = append([]GenericParam{p}, g.Params...)
}

// AddPredicate appends a where predicate, creating the clause if needed
func (g *Generics) AddPredicate(p tokens.Stream) {
	if g.Where == nil {
		g.Where = &WhereClause{}
	}
	g.Where.Predicates = append(g.Where.Predicates, Predicate(p))
}

// Predicates returns the where predicates, if any
func (g Generics) Predicates() []Predicate {
	return g.Where.predicates()
}

// ordered returns lifetimes first, then type and const parameters
func (g Generics) ordered() []GenericParam {
	out := make([]GenericParam, 0, len(g.Params))
	for _, p := range g.Params {
		if p.Kind == LifetimeParam {
			out = append(out, p)
		}
	}
	for _, p := range g.Params {
		if p.Kind != LifetimeParam {
			out = append(out, p)
		}
	}
	return out
}

func (g Generics) angle(render func(GenericParam) tokens.Stream) tokens.Stream {
	if len(g.Params) == 0 {
		return nil
	}
	out := tokens.Stream{tokens.Punct('<', tokens.Alone)}
	for i, p := range g.ordered() {
		if i > 0 {
			out = append(out, tokens.Punct(',', tokens.Alone))
		}
		out = append(out, render(p)...)
	}
	return append(out, tokens.Punct('>', tokens.Alone))
}

// DeclTokens prints the parameters as declared on an item, defaults included
func (g Generics) DeclTokens() tokens.Stream {
	return g.angle(func(p GenericParam) tokens.Stream { return p.render(true, true) })
}

// ImplTokens prints the parameters for an impl header: bounds kept, defaults dropped
func (g Generics) ImplTokens() tokens.Stream {
	return g.angle(func(p GenericParam) tokens.Stream { return p.render(false, false) })
}

// TypeTokens prints the parameters as arguments: names only
func (g Generics) TypeTokens() tokens.Stream {
	return g.angle(GenericParam.Arg)
}

// WhereTokens prints the where clause, or nothing
func (g Generics) WhereTokens() tokens.Stream {
	return g.Where.Tokens()
}

// Tokens prints the declaration form followed by nothing; the where
// clause is placed by the item that owns the generics.
func (g Generics) Tokens() tokens.Stream {
	return g.DeclTokens()
}

// StripBounds returns a copy where every parameter has no bounds or
// defaults and the where clause is dropped. Const parameters keep their type.
func (g Generics) StripBounds() Generics {
	out := g.Clone()
	out.Where = nil
	for i := range out.Params {
		if out.Params[i].Kind != ConstParam {
			out.Params[i].Bounds = nil
		}
		out.Params[i].Default = nil
		out.Params[i].Attrs = nil
	}
	return out
}

// ParseGenerics parses an optional `<...>` parameter list. The where
// clause is not consumed; see ParseWhereClause.
func ParseGenerics(c *tokens.Cursor) (Generics, error) {
	var g Generics
	if !c.EatPunct("<") {
		return g, nil
	}
	g.Params = []GenericParam{}
	for !c.PeekPunct(">") {
		if c.EOF() {
			return g, c.Errorf("`>`")
		}
		p, err := parseGenericParam(c)
		if err != nil {
			return g, err
		}
		g.Params = append(g.Params, p)
		if !c.EatPunct(",") {
			break
		}
	}
	if err := c.ExpectPunct(">"); err != nil {
		return g, err
	}
	return g, nil
}

func parseGenericParam(c *tokens.Cursor) (GenericParam, error) {
	var p GenericParam
	var err error
	p.Attrs = ParseAttributes(c)

	switch {
	case c.PeekKind(0, tokens.KindLifetime):
		p.Kind = LifetimeParam
		p.Name, _ = c.Next()
		if c.EatPunct(":") {
			p.Bounds = c.Scan(",>", false)
		}
		return p, nil
	case c.PeekIdent("const"):
		c.Next()
		p.Kind = ConstParam
		if p.Name, err = c.ExpectIdent(); err != nil {
			return p, err
		}
		if err := c.ExpectPunct(":"); err != nil {
			return p, err
		}
		p.Bounds = c.Scan(",>=", false)
	default:
		p.Kind = TypeParam
		if p.Name, err = c.ExpectIdent(); err != nil {
			return p, err
		}
		if c.EatPunct(":") {
			p.Bounds = c.Scan(",>=", false)
		}
	}
	if c.EatPunct("=") {
		p.Default = c.Scan(",>", false)
		if len(p.Default) == 0 {
			return p, c.Errorf("default value for `%s`", p.Name.Text)
		}
	}
	return p, nil
}

// ParseWhereClause parses an optional `where` clause up to the following
// `;`, `=` or brace group.
func ParseWhereClause(c *tokens.Cursor) (*WhereClause, error) {
	if !c.EatIdent("where") {
		return nil, nil
	}
	w := &WhereClause{}
	for !c.EOF() && !c.PeekGroup(tokens.DelimBrace) && !c.PeekPunct(";") && !c.PeekPunct("=") {
		pred := c.Scan(",;=", true)
		if len(pred) == 0 {
			return nil, c.Errorf("where predicate")
		}
		w.Predicates = append(w.Predicates, Predicate(pred))
		if !c.EatPunct(",") {
			break
		}
	}
	return w, nil
}

// ParseGenericsStream parses a standalone `<...>` list with an optional
// where clause, such as the leading generics of a delegation entry.
func ParseGenericsStream(s tokens.Stream) (Generics, error) {
	c := tokens.NewCursor(s, tokens.Span{})
	g, err := ParseGenerics(c)
	if err != nil {
		return g, err
	}
	if g.Where, err = ParseWhereClause(c); err != nil {
		return g, err
	}
	return g, c.ExpectEOF()
}

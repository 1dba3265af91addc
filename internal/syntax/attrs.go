package syntax

import (
	"strings"

	"github.com/toyz/cgp/internal/tokens"
)

// Attribute is an outer `#[...]` or inner `#![...]` attribute
type Attribute struct {
	Inner bool
	Body  tokens.Tree // the bracket group
}

// Name returns the attribute path as written, e.g. `cgp_component` or `doc`
func (a Attribute) Name() string {
	var name string
	for _, t := range a.Body.Stream {
		switch {
		case t.Kind == tokens.KindIdent:
			name += t.Text
		case t.IsPunct(':'):
			name += ":"
		default:
			return name
		}
	}
	return name
}

// ShortName returns the last segment of the attribute path
func (a Attribute) ShortName() string {
	name := a.Name()
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// Args returns the tokens following the attribute path: a delimited group
// such as `(provider = Foo)`, or `= "text"` for name-value attributes.
func (a Attribute) Args() tokens.Stream {
	s := a.Body.Stream
	i := 0
	for i < len(s) && (s[i].Kind == tokens.KindIdent || s[i].IsPunct(':')) {
		i++
	}
	return s[i:]
}

// ArgsInner returns the contents of a delimited argument group, or nil
func (a Attribute) ArgsInner() tokens.Stream {
	args := a.Args()
	if len(args) == 1 && args[0].Kind == tokens.KindGroup {
		return args[0].Stream
	}
	return nil
}

// Tokens prints the attribute
func (a Attribute) Tokens() tokens.Stream {
	if a.Inner {
		return tokens.Stream{tokens.Punct('#', tokens.Joint), tokens.Punct('!', tokens.Alone), a.Body}
	}
	return tokens.Stream{tokens.Punct('#', tokens.Alone), a.Body}
}

// NewAttribute builds an outer attribute from its body tokens
func NewAttribute(body tokens.Stream) Attribute {
	return Attribute{Body: tokens.Group(tokens.DelimBracket, body)}
}

// ParseAttributes parses any number of outer attributes
func ParseAttributes(c *tokens.Cursor) []Attribute {
	var attrs []Attribute
	for c.PeekPunct("#") {
		next, ok := c.Peek(1)
		if !ok || !next.IsGroup(tokens.DelimBracket) {
			break
		}
		c.Advance(2)
		attrs = append(attrs, Attribute{Body: next})
	}
	return attrs
}

// ParseInnerAttributes parses any number of `#![...]` attributes
func ParseInnerAttributes(c *tokens.Cursor) []Attribute {
	var attrs []Attribute
	for c.PeekPunct("#") && c.PeekPunctAt(1, "!") {
		body, ok := c.Peek(2)
		if !ok || !body.IsGroup(tokens.DelimBracket) {
			break
		}
		c.Advance(3)
		attrs = append(attrs, Attribute{Inner: true, Body: body})
	}
	return attrs
}

// AttrsTokens prints a list of attributes
func AttrsTokens(attrs []Attribute) tokens.Stream {
	var out tokens.Stream
	for _, a := range attrs {
		out = append(out, a.Tokens()...)
	}
	return out
}

// FindAttribute returns the index of the first attribute named one of names
func FindAttribute(attrs []Attribute, names ...string) int {
	for i, a := range attrs {
		for _, n := range names {
			if a.ShortName() == n {
				return i
			}
		}
	}
	return -1
}

// RemoveAttribute returns attrs without the element at index i
func RemoveAttribute(attrs []Attribute, i int) []Attribute {
	out := make([]Attribute, 0, len(attrs)-1)
	out = append(out, attrs[:i]...)
	return append(out, attrs[i+1:]...)
}

func cloneAttrs(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		a.Body.Stream = a.Body.Stream.Clone()
		out[i] = a
	}
	return out
}

// Visibility is `pub`, `pub(crate)`, `pub(in path)` or inherited (empty)
type Visibility tokens.Stream

// Tokens prints the visibility
func (v Visibility) Tokens() tokens.Stream {
	return tokens.Stream(v)
}

// IsPublic reports whether any `pub` form was written
func (v Visibility) IsPublic() bool {
	return len(v) > 0
}

// ParseVisibility parses an optional visibility qualifier
func ParseVisibility(c *tokens.Cursor) Visibility {
	if !c.PeekIdent("pub") {
		return nil
	}
	t, _ := c.Next()
	vis := Visibility{t}
	if c.PeekGroup(tokens.DelimParen) {
		g, _ := c.Peek(0)
		if len(g.Stream) > 0 && (g.Stream[0].IsIdent("crate") || g.Stream[0].IsIdent("super") ||
			g.Stream[0].IsIdent("self") || g.Stream[0].IsIdent("in")) {
			c.Next()
			vis = append(vis, g)
		}
	}
	return vis
}

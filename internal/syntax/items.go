package syntax

import (
	"github.com/toyz/cgp/internal/tokens"
)

// Item is one top-level item of a source file or module body, with its
// outer attributes split off.
type Item struct {
	Attrs  []Attribute
	Stream tokens.Stream // the item without its outer attributes
	Span   tokens.Span
}

// Tokens prints the item with its attributes
func (it Item) Tokens() tokens.Stream {
	return append(AttrsTokens(it.Attrs), it.Stream...)
}

// MacroCall describes an item or expression of the form `path!(..)`,
// `path![..]` or `path! { .. }`.
type MacroCall struct {
	Name  string
	Path  tokens.Stream
	Delim tokens.Delimiter
	Body  tokens.Stream
	Semi  bool
}

// AsMacroCall reports whether the item is a bare macro invocation
func (it Item) AsMacroCall() (MacroCall, bool) {
	return ParseMacroCall(it.Stream)
}

// ParseMacroCall recognises `path!(..)`, `path![..]` and `path! { .. }`
// with an optional trailing `;`.
func ParseMacroCall(s tokens.Stream) (MacroCall, bool) {
	var call MacroCall
	i := 0
	for i < len(s) && (s[i].Kind == tokens.KindIdent || s[i].IsPunct(':')) {
		i++
	}
	if i == 0 || i+1 >= len(s) || !s[i].IsPunct('!') || s[i+1].Kind != tokens.KindGroup {
		return call, false
	}
	rest := s[i+2:]
	if len(rest) == 1 && rest[0].IsPunct(';') {
		call.Semi = true
	} else if len(rest) != 0 {
		return call, false
	}
	call.Path = s[:i]
	last, _ := PathName(call.Path)
	call.Name = last.Text
	call.Delim = s[i+1].Delim
	call.Body = s[i+1].Stream
	return call, true
}

// SplitItems cuts a stream into items. An item ends at a top-level `;`
// or at a top-level brace group (absorbing a directly following `;`).
// `const`, `static` and `let` items end only at their `;`, since their
// initialisers may contain brace groups.
func SplitItems(s tokens.Stream) []Item {
	var items []Item
	c := tokens.NewCursor(s, tokens.Span{})
	for !c.EOF() {
		span := c.Span()
		attrs := ParseAttributes(c)
		if c.EOF() {
			// dangling attributes are kept as their own item
			items = append(items, Item{Attrs: attrs, Span: span})
			break
		}
		body := c.Remaining()
		n := itemLength(body)
		c.Advance(n)
		items = append(items, Item{Attrs: attrs, Stream: body[:n], Span: span})
	}
	return items
}

func itemLength(s tokens.Stream) int {
	semiOnly := false
	for i := 0; i < len(s) && i < 3; i++ {
		if s[i].IsIdent("pub") || s[i].IsGroup(tokens.DelimParen) {
			continue
		}
		if s[i].IsIdent("const") || s[i].IsIdent("static") || s[i].IsIdent("let") {
			semiOnly = !(i+1 < len(s) && (s[i+1].IsIdent("fn") || s[i+1].IsIdent("unsafe") ||
				s[i+1].IsIdent("async") || s[i+1].IsIdent("extern")))
		}
		break
	}

	depth := 0
	for i := 0; i < len(s); i++ {
		t := s[i]
		switch {
		case t.IsPunct(';') && (depth == 0 || semiOnly):
			return i + 1
		case semiOnly:
			continue
		case t.IsPunct('<'):
			depth++
		case t.IsPunct('>') && depth > 0 && !arrowTail(s, i):
			depth--
		case t.IsGroup(tokens.DelimBrace) && depth == 0:
			if i+1 < len(s) && s[i+1].IsPunct(';') {
				return i + 2
			}
			return i + 1
		}
	}
	return len(s)
}

func arrowTail(s tokens.Stream, i int) bool {
	return i > 0 && s[i-1].Spacing == tokens.Joint && (s[i-1].IsPunct('-') || s[i-1].IsPunct('='))
}

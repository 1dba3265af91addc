package tokens

import (
	"fmt"
	"strings"

	"github.com/toyz/cgp/internal/errors"
)

// compound operators that must not be split when peeking a shorter prefix
var compounds = map[string]bool{
	"::": true, "->": true, "=>": true, "==": true, "!=": true, "..": true,
}

// Cursor walks a stream during parsing. Forks are cheap copies, so a
// speculative parse is just a fork that is dropped on failure.
type Cursor struct {
	stream Stream
	pos    int
	scope  Span // span reported for errors at the end of the stream
}

// NewCursor creates a cursor over s; scope is used to locate end-of-input errors
func NewCursor(s Stream, scope Span) *Cursor {
	if scope.IsZero() {
		scope = s.Span()
	}
	return &Cursor{stream: s, scope: scope}
}

// Fork returns an independent copy of the cursor
func (c *Cursor) Fork() *Cursor {
	fork := *c
	return &fork
}

// Join moves the cursor to the position of a fork that parsed successfully
func (c *Cursor) Join(fork *Cursor) {
	c.pos = fork.pos
}

// EOF reports whether the stream is exhausted
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.stream)
}

// Pos returns the index of the next token
func (c *Cursor) Pos() int {
	return c.pos
}

// Peek returns the token n positions ahead without consuming it
func (c *Cursor) Peek(n int) (Tree, bool) {
	if c.pos+n >= len(c.stream) {
		return Tree{}, false
	}
	return c.stream[c.pos+n], true
}

// Next consumes and returns the next token
func (c *Cursor) Next() (Tree, bool) {
	t, ok := c.Peek(0)
	if ok {
		c.pos++
	}
	return t, ok
}

// Advance skips n tokens
func (c *Cursor) Advance(n int) {
	c.pos += n
	if c.pos > len(c.stream) {
		c.pos = len(c.stream)
	}
}

// Rest consumes and returns everything left in the stream
func (c *Cursor) Rest() Stream {
	rest := c.stream[c.pos:]
	c.pos = len(c.stream)
	return rest
}

// Remaining returns everything left without consuming it
func (c *Cursor) Remaining() Stream {
	return c.stream[c.pos:]
}

// PeekIdent reports whether the next token is the identifier name
func (c *Cursor) PeekIdent(name string) bool {
	t, ok := c.Peek(0)
	return ok && t.IsIdent(name)
}

// PeekAnyIdent reports whether the next token is an identifier
func (c *Cursor) PeekAnyIdent() bool {
	t, ok := c.Peek(0)
	return ok && t.Kind == KindIdent
}

// PeekKind reports whether the token n positions ahead has the given kind
func (c *Cursor) PeekKind(n int, kind Kind) bool {
	t, ok := c.Peek(n)
	return ok && t.Kind == kind
}

// PeekGroup reports whether the next token is a group with the given delimiter
func (c *Cursor) PeekGroup(delim Delimiter) bool {
	t, ok := c.Peek(0)
	return ok && t.IsGroup(delim)
}

// PeekPunct reports whether the next tokens spell the operator op. The
// characters of a multi-character operator must be joint, and a single
// `:` is not matched when it starts a `::`.
func (c *Cursor) PeekPunct(op string) bool {
	return c.peekPunctAt(0, op)
}

// PeekPunctAt is PeekPunct starting n tokens ahead
func (c *Cursor) PeekPunctAt(n int, op string) bool {
	return c.peekPunctAt(n, op)
}

func (c *Cursor) peekPunctAt(n int, op string) bool {
	for i := 0; i < len(op); i++ {
		t, ok := c.Peek(n + i)
		if !ok || !t.IsPunct(op[i]) {
			return false
		}
		if i < len(op)-1 && t.Spacing != Joint {
			return false
		}
	}
	last, _ := c.Peek(n + len(op) - 1)
	if last.Spacing == Joint {
		if next, ok := c.Peek(n + len(op)); ok && next.Kind == KindPunct {
			if compounds[op[len(op)-1:]+next.Text] {
				return false
			}
		}
	}
	return true
}

// EatPunct consumes op if it is next
func (c *Cursor) EatPunct(op string) bool {
	if c.PeekPunct(op) {
		c.pos += len(op)
		return true
	}
	return false
}

// EatIdent consumes the identifier name if it is next
func (c *Cursor) EatIdent(name string) bool {
	if c.PeekIdent(name) {
		c.pos++
		return true
	}
	return false
}

// ExpectPunct consumes op or fails
func (c *Cursor) ExpectPunct(op string) error {
	if c.EatPunct(op) {
		return nil
	}
	return c.Errorf("`%s`", op)
}

// ExpectKeyword consumes the identifier name or fails
func (c *Cursor) ExpectKeyword(name string) error {
	if c.EatIdent(name) {
		return nil
	}
	return c.Errorf("`%s`", name)
}

// ExpectIdent consumes any identifier and returns it
func (c *Cursor) ExpectIdent() (Tree, error) {
	t, ok := c.Peek(0)
	if !ok || t.Kind != KindIdent {
		return Tree{}, c.Errorf("identifier")
	}
	c.pos++
	return t, nil
}

// ExpectLifetime consumes a lifetime and returns it
func (c *Cursor) ExpectLifetime() (Tree, error) {
	t, ok := c.Peek(0)
	if !ok || t.Kind != KindLifetime {
		return Tree{}, c.Errorf("lifetime")
	}
	c.pos++
	return t, nil
}

// ExpectGroup consumes a group with the given delimiter and returns it
func (c *Cursor) ExpectGroup(delim Delimiter) (Tree, error) {
	t, ok := c.Peek(0)
	if !ok || !t.IsGroup(delim) {
		return Tree{}, c.Errorf("`%s`", delim.Open())
	}
	c.pos++
	return t, nil
}

// ExpectEOF fails when tokens remain
func (c *Cursor) ExpectEOF() error {
	if c.EOF() {
		return nil
	}
	return c.Errorf("end of input")
}

// Scan consumes tokens up to (not including) the first top-level stop and
// returns them. A stop is a punctuation character from stops outside angle
// brackets, the identifier `where`, or a brace group when braces is set.
// `::`, `->` and `=>` are never stops.
func (c *Cursor) Scan(stops string, braces bool) Stream {
	start := c.pos
	depth := 0
	for c.pos < len(c.stream) {
		t := c.stream[c.pos]
		switch t.Kind {
		case KindIdent:
			if depth == 0 && t.Text == "where" {
				return c.stream[start:c.pos]
			}
		case KindGroup:
			if depth == 0 && braces && t.Delim == DelimBrace {
				return c.stream[start:c.pos]
			}
		case KindPunct:
			if c.PeekPunct("::") || c.PeekPunct("->") || c.PeekPunct("=>") {
				c.pos += 2
				continue
			}
			ch := t.Text[0]
			switch {
			case ch == '<':
				depth++
			case ch == '>' && depth > 0:
				depth--
			case depth == 0 && strings.IndexByte(stops, ch) >= 0:
				return c.stream[start:c.pos]
			}
		}
		c.pos++
	}
	return c.stream[start:c.pos]
}

// Until consumes tokens up to (not including) the next punctuation ch.
// Unlike Scan it does not track angle brackets, so it suits expressions.
func (c *Cursor) Until(ch byte) Stream {
	start := c.pos
	for c.pos < len(c.stream) && !c.stream[c.pos].IsPunct(ch) {
		c.pos++
	}
	return c.stream[start:c.pos]
}

// Span returns the span of the next token, or the scope span at the end
func (c *Cursor) Span() Span {
	if t, ok := c.Peek(0); ok && !t.Span.IsZero() {
		return t.Span
	}
	return c.scope
}

// Errorf builds a syntax error at the current position. The format
// describes what was expected.
func (c *Cursor) Errorf(expected string, args ...interface{}) *errors.SyntaxError {
	found := ""
	if t, ok := c.Peek(0); ok {
		found = t.String()
	}
	return errors.NewSyntaxErrorAt(c.Span().Location(), found, fmt.Sprintf(expected, args...))
}

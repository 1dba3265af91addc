package tokens

import (
	"fmt"

	"github.com/toyz/cgp/internal/errors"
)

// Kind identifies the variant of a token tree
type Kind int

const (
	KindIdent Kind = iota
	KindPunct
	KindLifetime
	KindLiteral
	KindGroup
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "ident"
	case KindPunct:
		return "punct"
	case KindLifetime:
		return "lifetime"
	case KindLiteral:
		return "literal"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Delimiter is the bracket pair surrounding a group
type Delimiter int

const (
	DelimNone Delimiter = iota
	DelimParen
	DelimBracket
	DelimBrace
)

// Open returns the opening character of the delimiter
func (d Delimiter) Open() string {
	switch d {
	case DelimParen:
		return "("
	case DelimBracket:
		return "["
	case DelimBrace:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing character of the delimiter
func (d Delimiter) Close() string {
	switch d {
	case DelimParen:
		return ")"
	case DelimBracket:
		return "]"
	case DelimBrace:
		return "}"
	default:
		return ""
	}
}

// Spacing tells whether a punctuation character is glued to the next one
type Spacing int

const (
	Alone Spacing = iota
	Joint
)

// Span locates a token in its source file
type Span struct {
	File   string
	Line   int
	Column int
}

// Location converts the span into an error location
func (s Span) Location() errors.SourceLocation {
	return errors.SourceLocation{File: s.File, Line: s.Line, Column: s.Column}
}

// IsZero reports whether the span carries no position
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0
}

// Tree is a single token tree: an identifier, punctuation character,
// lifetime, literal or a delimited group of further trees.
type Tree struct {
	Kind    Kind
	Text    string
	Spacing Spacing
	Delim   Delimiter
	Stream  Stream
	Span    Span
}

// Stream is an ordered sequence of token trees
type Stream []Tree

// Ident creates an identifier token
func Ident(name string) Tree {
	return Tree{Kind: KindIdent, Text: name}
}

// Punct creates a punctuation token
func Punct(ch byte, spacing Spacing) Tree {
	return Tree{Kind: KindPunct, Text: string(ch), Spacing: spacing}
}

// Lifetime creates a lifetime token; the leading quote is added when missing
func Lifetime(name string) Tree {
	if len(name) == 0 || name[0] != '\'' {
		name = "'" + name
	}
	return Tree{Kind: KindLifetime, Text: name}
}

// Literal creates a literal token from its raw source text
func Literal(raw string) Tree {
	return Tree{Kind: KindLiteral, Text: raw}
}

// Group creates a delimited group
func Group(delim Delimiter, inner Stream) Tree {
	return Tree{Kind: KindGroup, Delim: delim, Stream: inner}
}

// Ops creates the punctuation tokens of a (possibly multi-character) operator
func Ops(op string) Stream {
	out := make(Stream, 0, len(op))
	for i := 0; i < len(op); i++ {
		spacing := Alone
		if i < len(op)-1 {
			spacing = Joint
		}
		out = append(out, Punct(op[i], spacing))
	}
	return out
}

// IsIdent reports whether the tree is the identifier name
func (t Tree) IsIdent(name string) bool {
	return t.Kind == KindIdent && t.Text == name
}

// IsPunct reports whether the tree is the punctuation character ch
func (t Tree) IsPunct(ch byte) bool {
	return t.Kind == KindPunct && len(t.Text) == 1 && t.Text[0] == ch
}

// IsGroup reports whether the tree is a group with the given delimiter
func (t Tree) IsGroup(delim Delimiter) bool {
	return t.Kind == KindGroup && t.Delim == delim
}

// WithSpan returns a copy of the tree located at span
func (t Tree) WithSpan(span Span) Tree {
	t.Span = span
	return t
}

// Tokens lets a single tree be used where a ToTokens is expected
func (t Tree) Tokens() Stream {
	return Stream{t}
}

// String renders the tree compactly
func (t Tree) String() string {
	return Stream{t}.String()
}

// GoString helps test failure output
func (t Tree) GoString() string {
	return fmt.Sprintf("tokens.Tree{%s %q}", t.Kind, t.String())
}

// ToTokens is implemented by every syntax node that can be printed as tokens
type ToTokens interface {
	Tokens() Stream
}

// Tokens lets a stream be used where a ToTokens is expected
func (s Stream) Tokens() Stream {
	return s
}

// Clone returns a deep copy of the stream
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	for i, t := range s {
		if t.Kind == KindGroup {
			t.Stream = t.Stream.Clone()
		}
		out[i] = t
	}
	return out
}

// IsEmpty reports whether the stream has no tokens
func (s Stream) IsEmpty() bool {
	return len(s) == 0
}

// Span returns the span of the first token, or the zero span
func (s Stream) Span() Span {
	if len(s) == 0 {
		return Span{}
	}
	return s[0].Span
}

// Concat joins several token sources into one stream
func Concat(parts ...ToTokens) Stream {
	var out Stream
	for _, p := range parts {
		if p == nil {
			continue
		}
		out = appendSealed(out, p.Tokens())
	}
	return out
}

// appendSealed appends s to out and resets the spacing of the last appended
// punctuation to Alone. A Joint spacing only describes the token that
// followed it in its original position, not whatever it is spliced next to.
func appendSealed(out, s Stream) Stream {
	start := len(out)
	out = append(out, s...)
	if n := len(out); n > start && out[n-1].Kind == KindPunct {
		out[n-1].Spacing = Alone
	}
	return out
}

// Join concatenates the items separated by the operator sep
func Join[T ToTokens](items []T, sep string) Stream {
	var out Stream
	for i, item := range items {
		if i > 0 {
			out = append(out, Ops(sep)...)
		}
		out = appendSealed(out, item.Tokens())
	}
	return out
}

// SplitTop splits the stream at every top-level occurrence of the
// single-character punctuation sep. Angle brackets are tracked so that
// `Foo<A, B>` is not split; `->` and `=>` are not treated as closers.
func SplitTop(s Stream, sep byte) []Stream {
	var parts []Stream
	var current Stream
	depth := 0
	for i, t := range s {
		if t.Kind == KindPunct {
			switch {
			case t.IsPunct('<'):
				depth++
			case t.IsPunct('>') && !isArrowTail(s, i) && depth > 0:
				depth--
			case t.IsPunct(sep) && depth == 0:
				parts = append(parts, current)
				current = nil
				continue
			}
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		parts = append(parts, current)
	}
	return parts
}

// isArrowTail reports whether the '>' at index i closes a `->` or `=>`
func isArrowTail(s Stream, i int) bool {
	if i == 0 {
		return false
	}
	prev := s[i-1]
	return prev.Spacing == Joint && (prev.IsPunct('-') || prev.IsPunct('='))
}

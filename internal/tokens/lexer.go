package tokens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/cgp/internal/errors"
)

// rustLexer tokenizes Rust source into flat tokens. Delimiters are folded
// into groups afterwards by buildTrees.
var rustLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DocComment", Pattern: `//[/!][^\n]*`},
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "RawString", Pattern: `b?r##"(?s:.*?)"##|b?r#"(?s:.*?)"#|b?r"[^"]*"`},
	{Name: "String", Pattern: `b?"(?:\\(?s:.)|[^"\\])*"`},
	{Name: "Char", Pattern: `b?'(?:\\(?:u\{[0-9A-Fa-f]+\}|x[0-9A-Fa-f]{2}|.)|[^'\\])'`},
	{Name: "Lifetime", Pattern: `'[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9A-Za-z_]*(?:\.[0-9][0-9A-Za-z_]*)?`},
	{Name: "Ident", Pattern: `r#[A-Za-z_][A-Za-z0-9_]*|[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[-+*/%^!&|=<>@.,;:#$?~]`},
	{Name: "Open", Pattern: `[(\[{]`},
	{Name: "Close", Pattern: `[)\]}]`},
})

var symbols = rustLexer.Symbols()

// Lex tokenizes src and folds it into a stream of token trees.
// Comments are dropped and doc comments become `#[doc = "..."]` attributes.
func Lex(filename, src string) (Stream, error) {
	lex, err := rustLexer.LexString(filename, src)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, lexError(filename, err)
	}
	return buildTrees(filename, raw)
}

// Parse tokenizes a source fragment with no associated file
func Parse(src string) (Stream, error) {
	return Lex("", src)
}

// MustParse is like Parse but panics on malformed input. It is meant for
// fixed templates and tests.
func MustParse(src string) Stream {
	s, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return s
}

func lexError(filename string, err error) error {
	if lerr, ok := err.(*lexer.Error); ok {
		return errors.NewSyntaxError(lerr.Msg).WithLocation(errors.SourceLocation{
			File:   filename,
			Line:   lerr.Pos.Line,
			Column: lerr.Pos.Column,
		})
	}
	return errors.WrapParseError(filename, err)
}

type frame struct {
	delim  Delimiter
	open   lexer.Token
	stream Stream
}

func buildTrees(filename string, raw []lexer.Token) (Stream, error) {
	stack := []*frame{{delim: DelimNone}}
	for i, tok := range raw {
		if tok.EOF() {
			break
		}
		top := stack[len(stack)-1]
		span := Span{File: filename, Line: tok.Pos.Line, Column: tok.Pos.Column}

		switch tok.Type {
		case symbols["Whitespace"], symbols["Comment"]:
			continue
		case symbols["DocComment"]:
			if doc, ok := docAttribute(tok.Value, span); ok {
				top.stream = append(top.stream, doc...)
			}
		case symbols["Ident"]:
			top.stream = append(top.stream, Tree{Kind: KindIdent, Text: tok.Value, Span: span})
		case symbols["Lifetime"]:
			top.stream = append(top.stream, Tree{Kind: KindLifetime, Text: tok.Value, Span: span})
		case symbols["RawString"], symbols["String"], symbols["Char"], symbols["Number"]:
			top.stream = append(top.stream, Tree{Kind: KindLiteral, Text: tok.Value, Span: span})
		case symbols["Punct"]:
			spacing := Alone
			if i+1 < len(raw) && raw[i+1].Type == symbols["Punct"] {
				spacing = Joint
			}
			top.stream = append(top.stream, Tree{Kind: KindPunct, Text: tok.Value, Spacing: spacing, Span: span})
		case symbols["Open"]:
			stack = append(stack, &frame{delim: delimiterOf(tok.Value), open: tok})
		case symbols["Close"]:
			want := delimiterOf(tok.Value)
			if len(stack) == 1 {
				return nil, errors.NewSyntaxErrorAt(span.Location(), tok.Value, "an item").
					WithSuggestion("remove the unmatched closing delimiter")
			}
			if top.delim != want {
				return nil, errors.NewSyntaxErrorAt(span.Location(), tok.Value, fmt.Sprintf("`%s`", top.delim.Close())).
					WithContext("opened_at", fmt.Sprintf("%d:%d", top.open.Pos.Line, top.open.Pos.Column))
			}
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.stream = append(parent.stream, Tree{
				Kind:   KindGroup,
				Delim:  top.delim,
				Stream: top.stream,
				Span:   Span{File: filename, Line: top.open.Pos.Line, Column: top.open.Pos.Column},
			})
		}
	}
	if len(stack) > 1 {
		top := stack[len(stack)-1]
		loc := errors.SourceLocation{File: filename, Line: top.open.Pos.Line, Column: top.open.Pos.Column}
		return nil, errors.NewSyntaxError(fmt.Sprintf("unclosed delimiter `%s`", top.delim.Open())).WithLocation(loc)
	}
	return stack[0].stream, nil
}

func delimiterOf(s string) Delimiter {
	switch s {
	case "(", ")":
		return DelimParen
	case "[", "]":
		return DelimBracket
	default:
		return DelimBrace
	}
}

// docAttribute turns `/// text` into `#[doc = " text"]` and `//! text` into
// `#![doc = " text"]`. Four or more slashes are an ordinary comment.
func docAttribute(comment string, span Span) (Stream, bool) {
	if strings.HasPrefix(comment, "////") {
		return nil, false
	}
	inner := comment[2] == '!'
	text := strings.TrimRight(comment[3:], "\r")

	out := Stream{Punct('#', Alone).WithSpan(span)}
	if inner {
		out[0].Spacing = Joint
		out = append(out, Punct('!', Alone).WithSpan(span))
	}
	body := Stream{
		Ident("doc").WithSpan(span),
		Punct('=', Alone).WithSpan(span),
		Literal(strconv.Quote(text)).WithSpan(span),
	}
	out = append(out, Group(DelimBracket, body).WithSpan(span))
	return out, true
}

package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/tokens"
)

// SymbolType builds the type-level string for value:
// `Cons<Char<'a'>, Cons<Char<'b'>, Nil>>`.
func SymbolType(value string) tokens.Stream {
	runes := []rune(value)
	out := tokens.Stream{tokens.Ident("Nil")}
	for i := len(runes) - 1; i >= 0; i-- {
		out = tokens.MustQuote(`Cons< Char< #ch >, #tail >`, tokens.Vars{
			"ch":   tokens.Literal(charLiteral(runes[i])),
			"tail": out,
		})
	}
	return out
}

// Symbol expands `symbol!("name")`
func Symbol(body tokens.Stream) (tokens.Stream, error) {
	if len(body) != 1 || body[0].Kind != tokens.KindLiteral {
		return nil, tokens.NewCursor(body, body.Span()).Errorf("string literal")
	}
	value, err := unquoteString(body[0].Text)
	if err != nil {
		return nil, err
	}
	return SymbolType(value), nil
}

func charLiteral(ch rune) string {
	switch ch {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	case 0:
		return `'\0'`
	}
	if strconv.IsPrint(ch) {
		return "'" + string(ch) + "'"
	}
	return fmt.Sprintf(`'\u{%x}'`, ch)
}

// unquoteString decodes a Rust string literal, raw strings included
func unquoteString(lit string) (string, error) {
	bad := errors.ParseError(fmt.Sprintf("expected string literal, found `%s`", lit))
	if strings.HasPrefix(lit, "r") {
		body := strings.TrimLeft(lit[1:], "#")
		hashes := len(lit) - 1 - len(body)
		if len(body) < 2+hashes || body[0] != '"' {
			return "", bad
		}
		return body[1 : len(body)-1-hashes], nil
	}
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", bad
	}

	var b strings.Builder
	s := lit[1 : len(lit)-1]
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", bad
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case 'x':
			if i+2 >= len(s) {
				return "", bad
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", bad
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if i+1 >= len(s) || s[i+1] != '{' || end < 0 {
				return "", bad
			}
			v, err := strconv.ParseUint(s[i+2:i+end], 16, 32)
			if err != nil {
				return "", bad
			}
			b.WriteRune(rune(v))
			i += end
		case '\n':
			// line continuation skips leading whitespace on the next line
			for i+1 < len(s) && strings.ContainsRune(" \t\n\r", rune(s[i+1])) {
				i++
			}
		default:
			return "", bad
		}
	}
	return b.String(), nil
}

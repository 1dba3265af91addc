// Package substitution rewrites token streams: identifier replacement for
// `for_each_replace!` and `replace_with!`, and the `@Marker` substitution
// performed by the `with_*!` macros that component tables define.
package substitution

import (
	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/tokens"
)

// ReplaceStream replaces every occurrence of the identifier target in
// body, at any nesting depth, with replacement. The inserted tokens are
// not scanned again.
func ReplaceStream(target tokens.Tree, replacement, body tokens.Stream) tokens.Stream {
	out := make(tokens.Stream, 0, len(body))
	for _, t := range body {
		switch {
		case t.Kind == tokens.KindGroup:
			t.Stream = ReplaceStream(target, replacement, t.Stream)
			out = append(out, t)
		case t.Kind == tokens.KindIdent && t.Text == target.Text:
			out = append(out, replacement.Clone()...)
		default:
			out = append(out, t)
		}
	}
	return out
}

// ForEachReplace emits one copy of body per replacement, in order
func ForEachReplace(target tokens.Tree, replacements []tokens.Stream, body tokens.Stream) tokens.Stream {
	var out tokens.Stream
	for _, r := range replacements {
		out = append(out, ReplaceStream(target, r, body)...)
	}
	return out
}

// HandleForEachReplace expands `for_each_replace!`
func HandleForEachReplace(input tokens.Stream) (tokens.Stream, error) {
	spec, err := parser.ParseReplaceSpec(input, input.Span())
	if err != nil {
		return nil, err
	}
	return ForEachReplace(spec.Marker, spec.ReplacementTokens(), spec.Body), nil
}

// HandleReplace expands `replace_with!`: a single copy of the body with
// the marker replaced by the bracketed list of all replacements.
func HandleReplace(input tokens.Stream) (tokens.Stream, error) {
	spec, err := parser.ParseReplaceSpec(input, input.Span())
	if err != nil {
		return nil, err
	}
	list := tokens.Group(tokens.DelimBracket, tokens.Join(spec.ReplacementTokens(), ","))
	return ReplaceStream(spec.Marker, tokens.Stream{list}, spec.Body), nil
}

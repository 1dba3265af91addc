package models

import (
	"github.com/toyz/cgp/internal/tokens"
)

// ReplaceSpec is the parsed input of `for_each_replace!` and `replace_with!`
type ReplaceSpec struct {
	Replacements []ComponentSpec // after exclusions are removed
	Excluded     []tokens.Stream // component types that were filtered out
	Marker       tokens.Tree     // identifier replaced in the body
	Body         tokens.Stream
}

// ReplacementTokens returns each remaining replacement as a stream
func (r ReplaceSpec) ReplacementTokens() []tokens.Stream {
	out := make([]tokens.Stream, len(r.Replacements))
	for i, c := range r.Replacements {
		out[i] = c.Tokens()
	}
	return out
}

package generator

import (
	"github.com/toyz/cgp/internal/syntax"
)

// MergeGenerics combines two generic lists. Parameters and where predicates
// of a come first, followed by those of b. Duplicate names are passed
// through unchanged; callers must not merge lists that share a name.
func MergeGenerics(a, b syntax.Generics) syntax.Generics {
	var merged syntax.Generics
	for _, p := range a.Params {
		merged.Params = append(merged.Params, p.Clone())
	}
	for _, p := range b.Params {
		merged.Params = append(merged.Params, p.Clone())
	}
	for _, pred := range a.Predicates() {
		merged.AddPredicate(pred.Tokens().Clone())
	}
	for _, pred := range b.Predicates() {
		merged.AddPredicate(pred.Tokens().Clone())
	}
	return merged
}

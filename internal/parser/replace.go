package parser

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ParseReplaceSpec parses the input of `for_each_replace!` and `replace_with!`:
//
//	[A, B, C], [B], |Component| { body }
//
// The exclusion list is optional. Replacements whose component type equals
// an excluded type are dropped, keeping the relative order of the rest.
func ParseReplaceSpec(body tokens.Stream, scope tokens.Span) (*models.ReplaceSpec, error) {
	c := tokens.NewCursor(body, scope)
	spec := &models.ReplaceSpec{}

	list, err := c.ExpectGroup(tokens.DelimBracket)
	if err != nil {
		return nil, err
	}
	raw, err := ParseComponentList(list.Stream, list.Span)
	if err != nil {
		return nil, err
	}
	if err := c.ExpectPunct(","); err != nil {
		return nil, err
	}

	if c.PeekGroup(tokens.DelimBracket) {
		excluded, _ := c.Next()
		for _, part := range tokens.SplitTop(excluded.Stream, ',') {
			ty, err := syntax.ParseTypeStream(part)
			if err != nil {
				return nil, err
			}
			spec.Excluded = append(spec.Excluded, ty)
		}
		if err := c.ExpectPunct(","); err != nil {
			return nil, err
		}
	}

	if err := c.ExpectPunct("|"); err != nil {
		return nil, err
	}
	if spec.Marker, err = c.ExpectIdent(); err != nil {
		return nil, err
	}
	if err := c.ExpectPunct("|"); err != nil {
		return nil, err
	}
	group, err := c.ExpectGroup(tokens.DelimBrace)
	if err != nil {
		return nil, err
	}
	spec.Body = group.Stream
	if err := c.ExpectEOF(); err != nil {
		return nil, err
	}

	for _, r := range raw {
		if !isExcluded(r.Type, spec.Excluded) {
			spec.Replacements = append(spec.Replacements, r)
		}
	}
	return spec, nil
}

func isExcluded(ty tokens.Stream, excluded []tokens.Stream) bool {
	for _, ex := range excluded {
		if tokens.Equal(ty, ex) {
			return true
		}
	}
	return false
}

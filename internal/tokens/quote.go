package tokens

import (
	"fmt"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/utils"
)

// Vars binds `#name` placeholders in a quote template to token sources
type Vars map[string]ToTokens

var templateCache = utils.NewCache[string, Stream]()

// Quote lexes template and splices the bound token sources in place of
// every `#name` placeholder. Attributes such as `#[doc = ".."]` and
// `#![..]` are left alone; an unbound placeholder is an error.
func Quote(template string, vars Vars) (Stream, error) {
	parsed, err := templateCache.GetOrCompute(template, func() (Stream, error) {
		return Parse(template)
	})
	if err != nil {
		return nil, errors.WrapParseError("quote template", err)
	}
	return interpolate(parsed, vars)
}

// MustQuote is like Quote but panics when the template is malformed or
// references an unbound placeholder.
func MustQuote(template string, vars Vars) Stream {
	s, err := Quote(template, vars)
	if err != nil {
		panic(err)
	}
	return s
}

func interpolate(s Stream, vars Vars) (Stream, error) {
	out := make(Stream, 0, len(s))
	for i := 0; i < len(s); i++ {
		t := s[i]
		if t.Kind == KindGroup {
			inner, err := interpolate(t.Stream, vars)
			if err != nil {
				return nil, err
			}
			t.Stream = inner
			out = append(out, t)
			continue
		}
		if t.IsPunct('#') && i+1 < len(s) && s[i+1].Kind == KindIdent {
			name := s[i+1].Text
			v, bound := vars[name]
			if !bound {
				return nil, errors.NewSyntaxError(fmt.Sprintf("unbound placeholder #%s in quote template", name))
			}
			if v != nil {
				out = appendSealed(out, v.Tokens().Clone())
			}
			i++
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

package expander

import (
	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// Discover registers the substitution macros defined by the component
// tables and presets of a file without expanding anything else, so that
// `with_*!` invocations in files expanded earlier resolve. Entries
// previously registered from path are dropped first.
func (e *Expander) Discover(path, src string) ([]models.RegistryEntry, error) {
	stream, err := tokens.Lex(path, src)
	if err != nil {
		return nil, err
	}
	e.registry.ClearFile(path)

	var (
		found []models.RegistryEntry
		errs  *errors.MultipleErrors
	)
	e.walkTables(stream, func(inv models.Invocation) {
		generated, err := e.generator.Generate(inv)
		if err != nil {
			errors.AddToMultiple(&errs, errors.AsCGPError(err))
			return
		}
		for _, entry := range generated.Registered {
			if err := e.registry.Register(entry); err != nil {
				errors.AddToMultiple(&errs, errors.AsCGPError(err))
				continue
			}
			found = append(found, entry)
		}
	})
	return found, errs.ErrOrNil()
}

// walkTables calls visit for every `define_components!` and preset
// invocation in item position, including inside inline modules
func (e *Expander) walkTables(s tokens.Stream, visit func(models.Invocation)) {
	c := tokens.NewCursor(s, tokens.Span{})
	syntax.ParseInnerAttributes(c)
	for _, item := range syntax.SplitItems(c.Remaining()) {
		if call, ok := item.AsMacroCall(); ok {
			kind, known := e.macros.items[call.Name]
			if known && (kind == models.MacroKindDefineComponents || kind == models.MacroKindPreset) {
				visit(models.Invocation{Kind: kind, Name: call.Name, Body: call.Body, Span: item.Span})
			}
			continue
		}
		if _, body, ok := splitModule(item.Stream); ok {
			e.walkTables(body.Stream, visit)
		}
	}
}

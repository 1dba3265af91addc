package expander

import (
	"fmt"
	"sort"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/tokens"
)

// deriveNames select the field derive when a single macro is expanded by name
var deriveNames = []string{"derive", "HasField"}

// MacroKind resolves a macro name as written in source
func (e *Expander) MacroKind(name string) (models.MacroKind, bool) {
	if kind, ok := e.macros.attributes[name]; ok {
		return kind, true
	}
	for _, derive := range deriveNames {
		if name == derive {
			return models.MacroKindDeriveFields, true
		}
	}
	return e.itemMacro(name)
}

// MacroNames returns every recognised macro name, including the `with_*`
// macros currently registered, in sorted order
func (e *Expander) MacroNames() []string {
	var names []string
	for _, table := range []map[string]models.MacroKind{e.macros.attributes, e.macros.items, e.macros.inline} {
		for name := range table {
			names = append(names, name)
		}
	}
	names = append(names, e.registry.ListMacros()...)
	sort.Strings(names)
	return names
}

// ExpandMacro expands one invocation of the named macro and rescans its
// output, as if it had been found in a file. For attribute macros attr
// holds the attribute arguments and body the annotated item.
func (e *Expander) ExpandMacro(name string, attr, body tokens.Stream, span tokens.Span) (*models.ExpansionResult, error) {
	kind, ok := e.MacroKind(name)
	if !ok {
		err := errors.GenerateError(fmt.Sprintf("unknown macro `%s`", name)).WithMacro(name)
		err.WithLocation(span.Location()).WithSuggestion(fmt.Sprintf("known macros: %v", e.MacroNames()))
		return nil, err
	}

	rescan := e.expandItems
	if isInline(kind) {
		rescan = e.expandInline
	}

	r := &run{result: &models.ExpansionResult{File: span.File}}
	inv := models.Invocation{Kind: kind, Name: name, Attr: attr, Body: body, Span: span}
	r.result.Output = e.invoke(inv, nil, 0, r, rescan)
	r.result.Changed = len(r.result.Invocations) > 0
	return r.result, r.errs.ErrOrNil()
}

package expander

import (
	"fmt"

	"github.com/toyz/cgp/internal/models"
)

// defaultMacroNames lists the names each macro is recognised by in source
var defaultMacroNames = map[models.MacroKind][]string{
	models.MacroKindComponent:          {"cgp_component", "derive_component"},
	models.MacroKindStripAsync:         {"strip_async"},
	models.MacroKindNativeAsync:        {"native_async"},
	models.MacroKindDelegateComponents: {"delegate_components"},
	models.MacroKindDefineComponents:   {"define_components"},
	models.MacroKindPreset:             {"cgp_preset", "define_preset"},
	models.MacroKindForEachReplace:     {"for_each_replace"},
	models.MacroKindReplaceWith:        {"replace_with"},
	models.MacroKindDelegateAll:        {"delegate_all"},
	models.MacroKindSymbol:             {"symbol"},
	models.MacroKindProduct:            {"Product"},
	models.MacroKindSum:                {"Sum"},
	models.MacroKindProductExpr:        {"product"},
}

// macroTable maps source names to macro kinds, split by where the macro
// may appear.
type macroTable struct {
	attributes map[string]models.MacroKind
	items      map[string]models.MacroKind
	inline     map[string]models.MacroKind
}

// newMacroTable builds the table from the defaults, replacing the names of
// every kind listed in aliases. Aliases are keyed by canonical macro name.
func newMacroTable(aliases map[string][]string) (*macroTable, error) {
	names := make(map[models.MacroKind][]string, len(defaultMacroNames))
	for kind, list := range defaultMacroNames {
		names[kind] = list
	}
	for canonical, list := range aliases {
		kind, ok := kindByName(canonical)
		if !ok {
			return nil, fmt.Errorf("unknown macro %q in macro aliases", canonical)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("macro %q needs at least one name", canonical)
		}
		names[kind] = list
	}

	t := &macroTable{
		attributes: make(map[string]models.MacroKind),
		items:      make(map[string]models.MacroKind),
		inline:     make(map[string]models.MacroKind),
	}
	for kind, list := range names {
		target := t.items
		switch {
		case kind.IsAttribute():
			target = t.attributes
		case isInline(kind):
			target = t.inline
		}
		for _, name := range list {
			target[name] = kind
		}
	}
	return t, nil
}

func kindByName(name string) (models.MacroKind, bool) {
	for kind := range defaultMacroNames {
		if kind.String() == name {
			return kind, true
		}
	}
	return 0, false
}

// isInline reports whether the macro expands to a type or an expression
func isInline(kind models.MacroKind) bool {
	switch kind {
	case models.MacroKindSymbol, models.MacroKindProduct, models.MacroKindSum, models.MacroKindProductExpr:
		return true
	}
	return false
}

func (t *macroTable) attributeNames() []string {
	names := make([]string, 0, len(t.attributes))
	for name := range t.attributes {
		names = append(names, name)
	}
	return names
}

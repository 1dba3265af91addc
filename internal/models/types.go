package models

// MacroKind identifies the kind of macro invocation found in source code
type MacroKind int

const (
	MacroKindComponent MacroKind = iota
	MacroKindDelegateComponents
	MacroKindDefineComponents
	MacroKindPreset
	MacroKindForEachReplace
	MacroKindReplaceWith
	MacroKindDelegateAll
	MacroKindSymbol
	MacroKindProduct
	MacroKindSum
	MacroKindProductExpr
	MacroKindStripAsync
	MacroKindNativeAsync
	MacroKindDeriveFields
	MacroKindSubstitution
)

var macroKindNames = map[MacroKind]string{
	MacroKindComponent:          "cgp_component",
	MacroKindDelegateComponents: "delegate_components",
	MacroKindDefineComponents:   "define_components",
	MacroKindPreset:             "cgp_preset",
	MacroKindForEachReplace:     "for_each_replace",
	MacroKindReplaceWith:        "replace_with",
	MacroKindDelegateAll:        "delegate_all",
	MacroKindSymbol:             "symbol",
	MacroKindProduct:            "Product",
	MacroKindSum:                "Sum",
	MacroKindProductExpr:        "product",
	MacroKindStripAsync:         "strip_async",
	MacroKindNativeAsync:        "native_async",
	MacroKindDeriveFields:       "derive(HasField)",
	MacroKindSubstitution:       "with_*",
}

// String returns the canonical macro name
func (k MacroKind) String() string {
	if name, ok := macroKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsAttribute reports whether the kind is written as an attribute on an item
func (k MacroKind) IsAttribute() bool {
	switch k {
	case MacroKindComponent, MacroKindStripAsync, MacroKindNativeAsync, MacroKindDeriveFields:
		return true
	}
	return false
}

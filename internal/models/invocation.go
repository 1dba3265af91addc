package models

import (
	"github.com/toyz/cgp/internal/tokens"
)

// Invocation is a single macro call site found in a source file
type Invocation struct {
	Kind  MacroKind
	Name  string        // macro name as written, e.g. `with_app_components`
	Attr  tokens.Stream // attribute arguments, for attribute macros
	Body  tokens.Stream // macro body or annotated item
	Span  tokens.Span
	Depth int // rescan round in which the invocation was found
}

// RegistryEntry describes a substitution macro defined in a scanned file
type RegistryEntry struct {
	MacroName  string          // `with_app_components`
	Marker     string          // name matched after `@` in presets
	Components []tokens.Stream // component tokens substituted into the body
	SourceFile string
	IsPreset   bool
}

// ExpansionResult is the outcome of expanding one source file
type ExpansionResult struct {
	File        string
	Output      tokens.Stream
	Invocations []Invocation
	Registered  []RegistryEntry
	Warnings    []string
	Changed     bool // false when the file contained no invocation
}

// GeneratedCode is the expansion of a single invocation
type GeneratedCode struct {
	Tokens     tokens.Stream
	Registered []RegistryEntry // substitution macros the expansion defines
	Warnings   []string
}

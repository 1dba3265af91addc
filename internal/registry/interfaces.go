package registry

import "github.com/toyz/cgp/internal/models"

// ComponentRegistryInterface tracks the `with_*!` substitution macros
// defined by `define_components!` and `cgp_preset!` across source files.
type ComponentRegistryInterface interface {
	Register(entry models.RegistryEntry) error
	Lookup(macroName string) (models.RegistryEntry, bool)
	HasMacro(macroName string) bool
	ListMacros() []string
	ClearFile(file string)
	Clear()
}

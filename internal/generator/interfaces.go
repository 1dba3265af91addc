package generator

import (
	"github.com/toyz/cgp/internal/models"
)

// CodeGenerator expands a single macro invocation into Rust tokens
type CodeGenerator interface {
	Generate(inv models.Invocation) (*models.GeneratedCode, error)
	GetRegistry() SubstitutionRegistry
}

// SubstitutionRegistry resolves `with_*!` invocations to the component
// list of the table or preset that defined them.
type SubstitutionRegistry interface {
	Lookup(macroName string) (models.RegistryEntry, bool)
}

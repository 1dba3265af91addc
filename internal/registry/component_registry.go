package registry

import (
	stderrors "errors"
	"fmt"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/utils"
)

// ComponentRegistry is the thread-safe ComponentRegistryInterface used by
// the expander, the CLI and the HTTP server.
type ComponentRegistry struct {
	entries *utils.BaseRegistry[string, models.RegistryEntry]
}

// NewComponentRegistry creates an empty registry. Registering a macro name
// a second time is allowed only from the file that first defined it, so
// that rescanning a file replaces its own entries.
func NewComponentRegistry() *ComponentRegistry {
	entries := utils.NewBaseRegistry[string, models.RegistryEntry]("component")
	entries.SetValidator(func(name string, entry models.RegistryEntry, existing map[string]models.RegistryEntry) error {
		if name == "" {
			return errors.NewRegistrationError(entryKind(entry), entry.Marker, "macro name cannot be empty")
		}
		if prev, ok := existing[name]; ok && prev.SourceFile != entry.SourceFile {
			return errors.NewRegistrationError(entryKind(entry), entry.Marker,
				fmt.Sprintf("`%s!` is already defined in %s", name, prev.SourceFile))
		}
		return nil
	})
	return &ComponentRegistry{entries: entries}
}

func entryKind(entry models.RegistryEntry) string {
	if entry.IsPreset {
		return "preset"
	}
	return "components"
}

// Register adds the substitution macro described by entry
func (r *ComponentRegistry) Register(entry models.RegistryEntry) error {
	if err := r.entries.Register(entry.MacroName, entry); err != nil {
		var regErr *errors.RegistrationError
		if stderrors.As(err, &regErr) {
			return regErr
		}
		return err
	}
	return nil
}

// Lookup returns the entry registered for macroName
func (r *ComponentRegistry) Lookup(macroName string) (models.RegistryEntry, bool) {
	return r.entries.Get(macroName)
}

// HasMacro reports whether macroName is registered
func (r *ComponentRegistry) HasMacro(macroName string) bool {
	return r.entries.Has(macroName)
}

// ListMacros returns the registered macro names in sorted order
func (r *ComponentRegistry) ListMacros() []string {
	return r.entries.List(func(a, b string) bool { return a < b })
}

// ClearFile drops every entry defined in file
func (r *ComponentRegistry) ClearFile(file string) {
	kept := r.entries.Filter(func(_ string, entry models.RegistryEntry) bool {
		return entry.SourceFile != file
	})
	r.entries.ClearWithReset(kept)
}

// Clear removes all entries
func (r *ComponentRegistry) Clear() {
	r.entries.Clear()
}

// Snapshot returns an independent copy of the registry
func (r *ComponentRegistry) Snapshot() *ComponentRegistry {
	out := NewComponentRegistry()
	out.entries.ClearWithReset(r.entries.GetAll())
	return out
}

// Size returns the number of registered macros
func (r *ComponentRegistry) Size() int {
	return r.entries.Size()
}

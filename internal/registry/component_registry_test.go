package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/tokens"
)

func entry(name, file string) models.RegistryEntry {
	return models.RegistryEntry{
		MacroName:  name,
		Marker:     "AppComponents",
		Components: []tokens.Stream{tokens.MustParse("FooComponent")},
		SourceFile: file,
	}
}

func TestComponentRegistry_Register(t *testing.T) {
	registry := NewComponentRegistry()

	require.NoError(t, registry.Register(entry("with_app_components", "src/app.rs")))
	assert.True(t, registry.HasMacro("with_app_components"))

	// the defining file may redefine its own macro
	assert.NoError(t, registry.Register(entry("with_app_components", "src/app.rs")))

	err := registry.Register(entry("with_app_components", "src/other.rs"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined in src/app.rs")
	assert.Equal(t, errors.RegistrationErrorCode, errors.AsCGPError(err).ErrorCode())

	err = registry.Register(entry("", "src/app.rs"))
	assert.Error(t, err)
}

func TestComponentRegistry_Lookup(t *testing.T) {
	registry := NewComponentRegistry()

	_, ok := registry.Lookup("with_app_components")
	assert.False(t, ok)

	require.NoError(t, registry.Register(entry("with_app_components", "src/app.rs")))
	got, ok := registry.Lookup("with_app_components")
	require.True(t, ok)
	assert.Equal(t, "AppComponents", got.Marker)
	assert.Len(t, got.Components, 1)
}

func TestComponentRegistry_ClearFile(t *testing.T) {
	registry := NewComponentRegistry()
	require.NoError(t, registry.Register(entry("with_b", "b.rs")))
	require.NoError(t, registry.Register(entry("with_a", "a.rs")))
	require.NoError(t, registry.Register(entry("with_c", "a.rs")))

	assert.Equal(t, []string{"with_a", "with_b", "with_c"}, registry.ListMacros())

	registry.ClearFile("a.rs")
	assert.Equal(t, []string{"with_b"}, registry.ListMacros())

	registry.Clear()
	assert.Equal(t, 0, registry.Size())
}

func TestComponentRegistry_Snapshot(t *testing.T) {
	registry := NewComponentRegistry()
	require.NoError(t, registry.Register(entry("with_a", "a.rs")))

	snapshot := registry.Snapshot()
	require.NoError(t, registry.Register(entry("with_b", "b.rs")))

	assert.True(t, snapshot.HasMacro("with_a"))
	assert.False(t, snapshot.HasMacro("with_b"))

	// snapshots keep the conflict check
	assert.Error(t, snapshot.Register(entry("with_a", "b.rs")))
}

func TestComponentRegistry_Concurrent(t *testing.T) {
	registry := NewComponentRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = registry.Register(entry("with_shared", "shared.rs"))
			registry.Lookup("with_shared")
		}()
	}
	wg.Wait()
	assert.True(t, registry.HasMacro("with_shared"))
}

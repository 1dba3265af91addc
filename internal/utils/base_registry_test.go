package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRegistry(t *testing.T) {
	r := NewBaseRegistry[string, int]("numbers")
	r.SetValidator(func(key string, value int, existing map[string]int) error {
		if value < 0 {
			return errors.New("negative")
		}
		return nil
	})

	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 1))
	err := r.Register("c", -1)
	assert.EqualError(t, err, "numbers registry: negative")
	assert.False(t, r.Has("c"))

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a", "b"}, r.List(func(a, b string) bool { return a < b }))
	assert.Equal(t, 2, r.Size())

	odd := r.Filter(func(_ string, v int) bool { return v%2 == 1 })
	assert.Equal(t, map[string]int{"a": 1}, odd)

	all := r.GetAll()
	all["z"] = 26
	assert.False(t, r.Has("z"), "GetAll returns a copy")

	r.ClearWithReset(odd)
	assert.Equal(t, 1, r.Size())
	r.Clear()
	assert.Zero(t, r.Size())
}

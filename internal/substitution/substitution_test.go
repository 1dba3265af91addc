package substitution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/tokens"
)

func TestReplaceStream(t *testing.T) {
	out := ReplaceStream(
		tokens.Ident("Component"),
		tokens.MustParse("Foo<Component>"),
		tokens.MustParse("impl Bar<Component> for App { type T = (Component, [Component; 2]); }"),
	)
	expected := tokens.MustParse("impl Bar<Foo<Component>> for App { type T = (Foo<Component>, [Foo<Component>; 2]); }")
	assert.True(t, tokens.Equal(expected, out), out.String())
}

func TestForEachReplace(t *testing.T) {
	out, err := HandleForEachReplace(tokens.MustParse(`
		[FooComponent, <T> BarComponent<T>, BazComponent],
		[BazComponent],
		|Component| {
			impl IsMine<Component> for App {}
		}
	`))
	require.NoError(t, err)

	expected := tokens.MustParse(`
		impl IsMine<FooComponent> for App {}
		impl IsMine<<T> BarComponent<T>> for App {}
	`)
	assert.True(t, tokens.Equal(expected, out), out.String())

	empty, err := HandleForEachReplace(tokens.MustParse(`[A], [A], |C| { C }`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHandleReplace(t *testing.T) {
	out, err := HandleReplace(tokens.MustParse(`[A, B, C], [B], |Components| { delegate!(Components); }`))
	require.NoError(t, err)
	assert.True(t, tokens.Equal(tokens.MustParse(`delegate!([A, C]);`), out), out.String())

	_, err = HandleReplace(tokens.MustParse(`A, |C| {}`))
	assert.Error(t, err)
}

func TestSubstitute(t *testing.T) {
	marker := tokens.Ident("MyPreset")
	list := tokens.MustParse("A, B")

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"top level", "foo!(@MyPreset)", "foo!(@MyPreset)"},
		{"brace group", "foo! { @MyPreset, x }", "foo! { [A, B], x }"},
		{"bracket group", "[@MyPreset]", "[[A, B]]"},
		{"nested", "m! { a { b [ @MyPreset ] } }", "m! { a { b [ [A, B] ] } }"},
		{"bare marker", "@MyPreset x", "[A, B] x"},
		{"other marker", "{ @Other }", "{ @Other }"},
		{"marker without at", "{ MyPreset }", "{ MyPreset }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Substitute(marker, list, tokens.MustParse(tt.body))
			assert.True(t, tokens.Equal(tokens.MustParse(tt.expected), out), out.String())
		})
	}
}

func TestDefineSubstitutionMacro(t *testing.T) {
	out := DefineSubstitutionMacro(tokens.Ident("with_app"), tokens.Ident("App"), tokens.MustParse("A, B"))

	assert.True(t, tokens.Contains(out, tokens.MustParse("#[macro_export] macro_rules! with_app")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("@remaining( @ App $( $remaining:tt )* )")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("@out( $( $out )* [ A, B ] )")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("$crate::with_app!")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("pub use with_app;")))
	assert.NotContains(t, out.String(), "#name")
}

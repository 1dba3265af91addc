package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

func TestDelegateComponentsBasic(t *testing.T) {
	out, err := DelegateComponents(tokens.MustParse(`
		FooComponents {
			BarComponentA: BazComponentsA,
			BarComponentB: BazComponentsB,
		}
	`))
	require.NoError(t, err)

	assertTokens(t, `
		impl DelegateComponent<BarComponentA> for FooComponents {
			type Delegate = BazComponentsA;
		}

		impl DelegateComponent<BarComponentB> for FooComponents {
			type Delegate = BazComponentsB;
		}
	`, out)
}

func TestDelegateComponentsWithGenerics(t *testing.T) {
	out, err := DelegateComponents(tokens.MustParse(`
		<'a, FooParamA, FooParamB: FooConstraint>
		FooComponents<'a, FooParamA, FooParamB> {
			BarComponentA: BazComponentsA,
			[
				BarComponentB<'a>,
				<BarParamA> BarComponentC<BarParamA>,
				<'b, BarParamB: BarConstraint> BarComponentD<'b, BarParamB>,
			]: BazComponentsB,
		}
	`))
	require.NoError(t, err)

	assertTokens(t, `
		impl<'a, FooParamA, FooParamB: FooConstraint> DelegateComponent<BarComponentA>
			for FooComponents<'a, FooParamA, FooParamB>
		{
			type Delegate = BazComponentsA;
		}

		impl<'a, FooParamA, FooParamB: FooConstraint> DelegateComponent<BarComponentB<'a>>
			for FooComponents<'a, FooParamA, FooParamB>
		{
			type Delegate = BazComponentsB;
		}

		impl<'a, FooParamA, FooParamB: FooConstraint, BarParamA> DelegateComponent<BarComponentC<BarParamA>>
			for FooComponents<'a, FooParamA, FooParamB>
		{
			type Delegate = BazComponentsB;
		}

		impl<'a, 'b, FooParamA, FooParamB: FooConstraint, BarParamB: BarConstraint> DelegateComponent<BarComponentD<'b, BarParamB>>
			for FooComponents<'a, FooParamA, FooParamB>
		{
			type Delegate = BazComponentsB;
		}
	`, out)
}

func TestDelegateComponentsGroupedEntriesExpandLikeSingles(t *testing.T) {
	grouped, err := DelegateComponents(tokens.MustParse(`App { [A, B]: S }`))
	require.NoError(t, err)
	single, err := DelegateComponents(tokens.MustParse(`App { A: S, B: S }`))
	require.NoError(t, err)
	assert.True(t, tokens.Equal(single, grouped))
}

func TestDelegateComponentsEmptyTable(t *testing.T) {
	out, err := DelegateComponents(tokens.MustParse(`App {}`))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDelegatesToTrait(t *testing.T) {
	in, err := parser.ParseDefineComponents(tokens.MustParse(`AppComponents<T> { [A, B]: S, C: U }`), tokens.Span{})
	require.NoError(t, err)

	trait, impl := DefineDelegatesToTrait(tokens.Ident("DelegatesToAppComponents"), tokens.MustParse("Target"), in.Generics, in.Table)

	assertTokens(t, `
		pub trait DelegatesToAppComponents<T>:
			DelegateComponent<A, Delegate = Target>
			+ DelegateComponent<B, Delegate = Target>
			+ DelegateComponent<C, Delegate = Target>
		{}
	`, trait.Tokens())
	assertTokens(t, `
		impl<T, Components> DelegatesToAppComponents<T> for Components
		where
			Components: DelegateComponent<A, Delegate = Target>
				+ DelegateComponent<B, Delegate = Target>
				+ DelegateComponent<C, Delegate = Target>
		{}
	`, impl.Tokens())
}

func TestMergeGenerics(t *testing.T) {
	parse := func(src string) syntax.Generics {
		g, err := syntax.ParseGenericsStream(tokens.MustParse(src))
		require.NoError(t, err)
		return g
	}

	t.Run("identity", func(t *testing.T) {
		a := parse("<'a, T: Clone, const N: usize> where T: Send")
		merged := MergeGenerics(a, syntax.Generics{})
		assert.True(t, tokens.Equal(a.DeclTokens(), merged.DeclTokens()))
		assert.True(t, tokens.Equal(a.WhereTokens(), merged.WhereTokens()))

		merged = MergeGenerics(syntax.Generics{}, a)
		assert.True(t, tokens.Equal(a.DeclTokens(), merged.DeclTokens()))
	})

	t.Run("order", func(t *testing.T) {
		merged := MergeGenerics(parse("<A> where A: Send"), parse("<'b, B> where B: Sync"))
		var names []string
		for _, p := range merged.Params {
			names = append(names, p.Name.String())
		}
		assert.Equal(t, []string{"A", "'b", "B"}, names)
		assertTokens(t, "<'b, A, B>", merged.ImplTokens())
		assertTokens(t, "where A: Send, B: Sync", merged.WhereTokens())
	})

	t.Run("inputs are not shared", func(t *testing.T) {
		a := parse("<A: Clone>")
		merged := MergeGenerics(a, syntax.Generics{})
		merged.Params[0].Bounds = nil
		assert.NotEmpty(t, a.Params[0].Bounds)
	})
}

func TestDefineStruct(t *testing.T) {
	assertTokens(t, "pub struct App;", DefineStruct(tokens.Ident("App"), syntax.Generics{}).Tokens())

	g, err := syntax.ParseGenericsStream(tokens.MustParse("<'a, T: Clone, const N: usize>"))
	require.NoError(t, err)

	assertTokens(t,
		"pub struct App<'a, T, const N: usize>(pub ::core::marker::PhantomData<(&'a (), T)>);",
		DefineStruct(tokens.Ident("App"), g).Tokens())
}

func TestDefineComponents(t *testing.T) {
	in, err := parser.ParseDefineComponents(tokens.MustParse(`AppComponents { [FooComponent, <T> BarComponent<T>]: Provider }`), tokens.Span{File: "app.rs"})
	require.NoError(t, err)

	out, entry := DefineComponentsFrom(in)

	assert.True(t, tokens.Contains(out, tokens.MustParse("pub struct AppComponents;")))
	assert.True(t, tokens.Contains(out, tokens.MustParse(
		"impl<T> DelegateComponent<BarComponent<T>> for AppComponents { type Delegate = Provider; }")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("pub trait DelegatesToAppComponents:")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("macro_rules! with_app_components")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("@out( $( $out )* [ FooComponent, <T> BarComponent<T> ] )")))
	assert.True(t, tokens.Contains(out, tokens.MustParse("pub use with_app_components;")))

	assert.Equal(t, "with_app_components", entry.MacroName)
	assert.Equal(t, "AppComponents", entry.Marker)
	assert.False(t, entry.IsPreset)
	require.Len(t, entry.Components, 2)
	assertTokens(t, "<T> BarComponent<T>", entry.Components[1])
}

func TestDefinePreset(t *testing.T) {
	out, err := DefinePreset(tokens.MustParse(`
		FooPreset {
			[BarComponent, <T> BazComponent<T>]: BarProvider,
		}
	`))
	require.NoError(t, err)

	prefix := tokens.MustParse(`
		pub struct FooPreset;

		pub trait IsFooPreset<Component> {}

		impl DelegateComponent<BarComponent> for FooPreset {
			type Delegate = BarProvider;
		}

		impl<T> DelegateComponent<BazComponent<T>> for FooPreset {
			type Delegate = BarProvider;
		}

		impl<T> IsFooPreset<BarComponent> for T {}

		impl<T, T_> IsFooPreset<BazComponent<T>> for T_ {}

		pub trait DelegatesToFooPreset:
			DelegateComponent<BarComponent, Delegate = FooPreset>
			+ DelegateComponent<BazComponent<T>, Delegate = FooPreset>
		{}
	`)
	require.GreaterOrEqual(t, len(out), len(prefix))
	assert.True(t, tokens.Equal(prefix, out[:len(prefix)]), tokens.Format(out))
	assert.True(t, tokens.Contains(out, tokens.MustParse("macro_rules! with_foo_preset")))
}

func TestDefinePresetRegistryEntry(t *testing.T) {
	preset, err := parser.ParseDefinePreset(tokens.MustParse(`MyPreset { A: B }`), tokens.Span{})
	require.NoError(t, err)

	_, entry := DefinePresetFrom(preset)
	assert.Equal(t, "with_my_preset", entry.MacroName)
	assert.Equal(t, "MyPreset", entry.Marker)
	assert.True(t, entry.IsPreset)
}

func TestDelegateAll(t *testing.T) {
	out, err := DelegateAll(tokens.MustParse(`IsFooPreset, FooPreset, App<T>`))
	require.NoError(t, err)

	assertTokens(t, `
		impl<Component> DelegateComponent<Component> for App<T>
		where
			Self: IsFooPreset<Component>,
		{
			type Delegate = FooPreset;
		}
	`, out)
}

package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/tokens"
)

func assertTokens(t *testing.T, expected string, got tokens.ToTokens) {
	t.Helper()
	want := tokens.MustParse(expected)
	assert.True(t, tokens.Equal(want, got.Tokens()), "expected %s\n     got %s", want, got.Tokens())
}

func parseGenerics(t *testing.T, src string) Generics {
	t.Helper()
	g, err := ParseGenericsStream(tokens.MustParse(src))
	require.NoError(t, err)
	return g
}

func TestParseGenerics(t *testing.T) {
	g := parseGenerics(t, "<T: Clone + 'a, 'a, const N: usize = 3, U = ()> where T: Send, U: Sync")
	require.Len(t, g.Params, 4)

	assert.Equal(t, TypeParam, g.Params[0].Kind)
	assert.Equal(t, LifetimeParam, g.Params[1].Kind)
	assert.Equal(t, ConstParam, g.Params[2].Kind)
	assert.Equal(t, "U", g.Params[3].Ident())
	require.Len(t, g.Predicates(), 2)

	tests := []struct {
		name     string
		render   func() tokens.Stream
		expected string
	}{
		{"declaration", g.DeclTokens, "<'a, T: Clone + 'a, const N: usize = 3, U = ()>"},
		{"impl header", g.ImplTokens, "<'a, T: Clone + 'a, const N: usize, U>"},
		{"type arguments", g.TypeTokens, "<'a, T, N, U>"},
		{"where clause", g.WhereTokens, "where T: Send, U: Sync"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.expected, tt.render())
		})
	}

	t.Run("strip bounds", func(t *testing.T) {
		stripped := g.StripBounds()
		assertTokens(t, "<'a, T, const N: usize, U>", stripped.DeclTokens())
		assert.Nil(t, stripped.Where)
		assert.NotEmpty(t, g.Params[0].Bounds, "the original must not be modified")
	})

	t.Run("empty", func(t *testing.T) {
		empty := parseGenerics(t, "")
		assert.True(t, empty.IsEmpty())
		assert.Empty(t, empty.DeclTokens())
		assert.Empty(t, empty.WhereTokens())
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := ParseGenericsStream(tokens.MustParse("<T: Clone"))
		assert.Error(t, err)
	})
}

func TestAttribute(t *testing.T) {
	c := tokens.NewCursor(tokens.MustParse(`#[cgp::prelude::cgp_component(provider = FooProvider)] #[doc = "x"] trait Foo {}`), tokens.Span{})
	attrs := ParseAttributes(c)
	require.Len(t, attrs, 2)

	assert.Equal(t, "cgp::prelude::cgp_component", attrs[0].Name())
	assert.Equal(t, "cgp_component", attrs[0].ShortName())
	assertTokens(t, "provider = FooProvider", attrs[0].ArgsInner())
	assert.Nil(t, attrs[1].ArgsInner())
	assert.Equal(t, 1, FindAttribute(attrs, "doc"))
	assert.Equal(t, -1, FindAttribute(attrs, "derive"))
	assert.Len(t, RemoveAttribute(attrs, 0), 1)
	assert.True(t, c.PeekIdent("trait"))
}

func TestParseSignatureReceivers(t *testing.T) {
	tests := []struct {
		input     string
		reference bool
		lifetime  string
		mutable   bool
	}{
		{"fn f(self)", false, "", false},
		{"fn f(&self)", true, "", false},
		{"fn f(&mut self)", true, "", true},
		{"fn f(&'a self)", true, "'a", false},
		{"fn f(&'a mut self)", true, "'a", true},
		{"fn f(mut self)", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sig, err := ParseSignature(tokens.NewCursor(tokens.MustParse(tt.input), tokens.Span{}))
			require.NoError(t, err)
			r := sig.Receiver()
			require.NotNil(t, r)
			assert.Equal(t, tt.reference, r.Reference)
			assert.Equal(t, tt.mutable, r.Mutable)
			if tt.lifetime == "" {
				assert.False(t, r.HasLifetime())
			} else {
				assert.Equal(t, tt.lifetime, r.Lifetime.Text)
			}
			assertTokens(t, tt.input, sig)
		})
	}

	t.Run("typed parameters and output", func(t *testing.T) {
		src := "async unsafe fn call<'a, T>(&self, (a, b): (u8, u8), mut f: impl Fn(T) -> Vec<T>) -> Result<(), Self::Error> where T: 'a"
		sig, err := ParseSignature(tokens.NewCursor(tokens.MustParse(src), tokens.Span{}))
		require.NoError(t, err)

		assert.True(t, sig.Async)
		assert.True(t, sig.Unsafe)
		assert.Equal(t, "call", sig.Name.Text)
		require.Len(t, sig.Inputs, 3)
		assertTokens(t, "(a, b)", sig.Inputs[1].Pat)
		assertTokens(t, "impl Fn(T) -> Vec<T>", sig.Inputs[2].Type)
		assertTokens(t, "Result<(), Self::Error>", sig.Output)
		require.Len(t, sig.Generics.Predicates(), 1)
		assertTokens(t, src, sig)
	})

	t.Run("receiver only in first position", func(t *testing.T) {
		_, err := ParseSignature(tokens.NewCursor(tokens.MustParse("fn f(a: u8, &self)"), tokens.Span{}))
		assert.Error(t, err)
	})
}

func TestParseItemTrait(t *testing.T) {
	src := `
		/// Docs
		#[async_trait]
		pub unsafe trait HasFoo<Bar, const N: usize>: Async + HasErrorType
		where
			Bar: Clone
		{
			type Foo<T>: Clone where T: Send;
			const LIMIT: usize = 1 << 4;
			async fn foo(&self, bar: Bar) -> Result<Self::Foo<u8>, Self::Error>;
			fn with_default(&self) -> u8 { 4 }
			some_macro!();
		}
	`
	tr, err := ParseItemTrait(tokens.MustParse(src))
	require.NoError(t, err)

	assert.Equal(t, "HasFoo", tr.Name.Text)
	assert.True(t, tr.Vis.IsPublic())
	assert.True(t, tr.Unsafe)
	assert.Len(t, tr.Attrs, 2)
	assertTokens(t, "Async + HasErrorType", tr.Supertraits)
	require.Len(t, tr.Generics.Predicates(), 1)
	require.Len(t, tr.Items, 5)

	ty, ok := tr.Items[0].(*TraitType)
	require.True(t, ok)
	assert.Equal(t, "Foo", ty.Name.Text)
	assertTokens(t, "Clone", ty.Bounds)
	require.Len(t, ty.Generics.Predicates(), 1)

	k, ok := tr.Items[1].(*TraitConst)
	require.True(t, ok)
	assertTokens(t, "1 << 4", k.Default)

	f, ok := tr.Items[2].(*TraitFn)
	require.True(t, ok)
	assert.True(t, f.Sig.Async)
	assert.Nil(t, f.Default)

	withDefault, ok := tr.Items[3].(*TraitFn)
	require.True(t, ok)
	require.NotNil(t, withDefault.Default)

	_, ok = tr.Items[4].(*TraitVerbatim)
	assert.True(t, ok)

	assert.Equal(t, []string{"Foo"}, tr.LocalAssocTypes())
	assertTokens(t, src, tr)

	t.Run("clone is deep", func(t *testing.T) {
		clone := tr.Clone()
		clone.Name = tokens.Ident("Other")
		clone.Items[2].(*TraitFn).Sig.Inputs[1].Pat[0] = tokens.Ident("baz")
		assert.Equal(t, "HasFoo", tr.Name.Text)
		assert.Equal(t, "bar", tr.Items[2].(*TraitFn).Sig.Inputs[1].Pat[0].Text)
	})

	t.Run("not a trait", func(t *testing.T) {
		_, err := ParseItemTrait(tokens.MustParse("pub struct Foo;"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected `trait`")
		assert.False(t, IsTrait(tokens.MustParse("pub struct Foo;")))
		assert.True(t, IsTrait(tokens.MustParse("#[x] pub trait Foo {}")))
	})
}

func TestParseItemStruct(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   StructKind
		fields int
	}{
		{"unit", "pub struct Foo;", UnitStruct, 0},
		{"tuple", "pub struct Foo<T>(pub T, u8) where T: Clone;", TupleStruct, 2},
		{"named", "#[derive(HasField)] pub struct Person<'a> { pub name: &'a str, age: u8 }", NamedStruct, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ParseItemStruct(tokens.MustParse(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, st.Kind)
			assert.Len(t, st.Fields, tt.fields)
			assertTokens(t, tt.input, st)
		})
	}
}

func TestSplitItems(t *testing.T) {
	src := `
		use a::{b, c};
		#[cgp_component { provider: FooProvider }]
		pub trait HasFoo { fn foo(&self); }
		const X: Foo = Foo { a: 1 };
		delegate_components! { App { A: B } }
		impl<T> Foo<T> for Bar where T: Fn() -> u8 {}
		symbol!("abc");
	`
	items := SplitItems(tokens.MustParse(src))
	require.Len(t, items, 6)

	assert.Len(t, items[1].Attrs, 1)
	assert.True(t, IsTrait(items[1].Stream))
	assertTokens(t, "const X: Foo = Foo { a: 1 };", items[2].Stream)

	call, ok := items[3].AsMacroCall()
	require.True(t, ok)
	assert.Equal(t, "delegate_components", call.Name)
	assert.Equal(t, tokens.DelimBrace, call.Delim)
	assert.False(t, call.Semi)

	_, ok = items[4].AsMacroCall()
	assert.False(t, ok)

	call, ok = items[5].AsMacroCall()
	require.True(t, ok)
	assert.Equal(t, "symbol", call.Name)
	assert.True(t, call.Semi)
}

func TestParseMacroCallPath(t *testing.T) {
	call, ok := ParseMacroCall(tokens.MustParse("cgp::prelude::delegate_components!(App { A: B });"))
	require.True(t, ok)
	assert.Equal(t, "delegate_components", call.Name)
	assertTokens(t, "cgp::prelude::delegate_components", call.Path)

	_, ok = ParseMacroCall(tokens.MustParse("foo!(a) + 1"))
	assert.False(t, ok)
}

func TestParseType(t *testing.T) {
	valid := []string{
		"Foo",
		"a::b::Foo<'a, T, 3, { N }>",
		"::core::marker::PhantomData<(A, B)>",
		"Vec<Vec<T>>",
		"&'a mut [u8]",
		"&&T",
		"*const T",
		"[u8; 4]",
		"()",
		"(A,)",
		"!",
		"_",
		"<T as Iterator>::Item",
		"<T>::Output",
		"Foo<Item = T, Error: Debug>",
		"Foo<Gat<'a> = T>",
		"dyn Fn(A, B) -> C + Send + 'static",
		"impl Iterator<Item = u8> + 'a",
		"Box<dyn for<'a> Fn(&'a str) -> &'a str>",
		"fn(u8, name: u16) -> u8",
		"unsafe extern \"C\" fn(...)",
		"symbol!(\"name\")",
		"Product![u8, String]",
		"Vec::<T>",
	}
	for _, src := range valid {
		t.Run(src, func(t *testing.T) {
			ty, err := ParseTypeStream(tokens.MustParse(src))
			require.NoError(t, err)
			assertTokens(t, src, ty)
		})
	}

	invalid := []struct {
		src      string
		expected string
	}{
		{"", "expected type"},
		{"&", "expected type"},
		{"Foo<", "expected generic argument"},
		{"Foo<A B>", "expected `>`"},
		{"Foo Bar", "expected end of input"},
		{"Foo + Bar", "expected end of input"},
		{"*T", "expected `const` or `mut`"},
		{"let", "expected path segment"},
		{"(A B)", "expected `,`"},
		{"[u8;]", "expected array length"},
		{"dyn", "expected path segment"},
		{"<T as Tr>", "expected `::`"},
	}
	for _, tt := range invalid {
		t.Run("invalid "+tt.src, func(t *testing.T) {
			_, err := ParseTypeStream(tokens.MustParse(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestParseTypeStopsAfterType(t *testing.T) {
	c := tokens.NewCursor(tokens.MustParse("Foo<T>: Bar, Baz"), tokens.Span{})
	ty, err := ParseType(c)
	require.NoError(t, err)
	assertTokens(t, "Foo<T>", ty)
	assert.True(t, c.PeekPunct(":"))
}

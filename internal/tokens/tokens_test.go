package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/errors"
)

func TestLex(t *testing.T) {
	t.Run("folds delimiters into groups", func(t *testing.T) {
		s, err := Lex("lib.rs", "fn foo(a: [u8; 4]) { bar() }")
		require.NoError(t, err)
		require.Len(t, s, 4)

		assert.Equal(t, KindIdent, s[0].Kind)
		assert.True(t, s[2].IsGroup(DelimParen))
		assert.True(t, s[3].IsGroup(DelimBrace))
		assert.True(t, s[2].Stream[2].IsGroup(DelimBracket))
		assert.Equal(t, Span{File: "lib.rs", Line: 1, Column: 1}, s[0].Span)
	})

	t.Run("marks joint punctuation", func(t *testing.T) {
		s := MustParse("a::b: c")
		require.Len(t, s, 6)
		assert.Equal(t, Joint, s[1].Spacing)
		assert.Equal(t, Alone, s[2].Spacing)
		assert.Equal(t, Alone, s[4].Spacing)
	})

	t.Run("distinguishes lifetimes from chars", func(t *testing.T) {
		s := MustParse(`'a 'b' b'c' '\n' "str" 1.5 r#type`)
		kinds := make([]Kind, len(s))
		for i, tree := range s {
			kinds[i] = tree.Kind
		}
		assert.Equal(t, []Kind{KindLifetime, KindLiteral, KindLiteral, KindLiteral, KindLiteral, KindLiteral, KindIdent}, kinds)
	})

	t.Run("drops comments and keeps doc comments", func(t *testing.T) {
		s := MustParse("// plain\n/* block */\n/// hello\n//// not doc\nstruct Foo;")
		assert.True(t, Equal(MustParse(`#[doc = " hello"] struct Foo;`), s), "got %s", s)
	})

	t.Run("inner doc comments", func(t *testing.T) {
		s := MustParse("//! crate docs\n")
		assert.True(t, Equal(MustParse(`#![doc = " crate docs"]`), s), "got %s", s)
	})

	tests := []struct {
		name  string
		input string
	}{
		{"unclosed group", "fn foo("},
		{"unmatched close", "fn foo)"},
		{"mismatched close", "fn foo(]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex("bad.rs", tt.input)
			require.Error(t, err)

			cgpErr, ok := err.(errors.CGPError)
			require.True(t, ok)
			assert.Equal(t, errors.SyntaxErrorCode, cgpErr.ErrorCode())
			assert.Equal(t, "bad.rs", cgpErr.Location().File)
		})
	}
}

func TestStreamString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"impl < Context > FooComponent for Context { }", "impl<Context> FooComponent for Context {}"},
		{"fn foo ( & self , x : u32 ) -> Vec < u8 > ;", "fn foo(&self, x: u32) -> Vec<u8>;"},
		{"<Context as HasComponents>::Components: Provider<Context>", "<Context as HasComponents>::Components: Provider<Context>"},
		{"pub struct Foo < 'a , T : Clone + 'a > ( & 'a T ) ;", "pub struct Foo<'a, T: Clone + 'a>(&'a T);"},
		{"#[derive(Clone)] struct Foo;", "#[derive(Clone)] struct Foo;"},
		{"delegate_components! { Foo { A: B } }", "delegate_components! { Foo { A: B } }"},
		{"fn f() -> &mut Self { self }", "fn f() -> &mut Self { self }"},
		{"pub struct Foo(pub ::core::marker::PhantomData<T>);", "pub struct Foo(pub ::core::marker::PhantomData<T>);"},
		{"impl ::core::fmt::Debug for Foo {}", "impl ::core::fmt::Debug for Foo {}"},
		{"macro_rules! with_my_preset { ($($x:tt)*) => {}; }", "macro_rules! with_my_preset { ($($x:tt)*) => {}; }"},
		{"foo!($($x:expr),*)", "foo!($($x:expr),*)"},
		{"($($name:ident: $ty:ty),+ $(,)?)", "($($name:ident: $ty:ty),+ $(,)?)"},
		{"if !done { stop() }", "if !done { stop() }"},
		{"fn never() -> ! { loop {} }", "fn never() -> ! { loop {} }"},
		{"a <= b && c != d", "a <= b && c != d"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, MustParse(tt.input).String())
		})
	}
}

func TestFormat(t *testing.T) {
	t.Run("where clause and nested bodies", func(t *testing.T) {
		s := MustParse("impl<Context> Foo for Context where Context: Bar, { fn foo(&self) { Context::foo(self) } }")
		expected := "impl<Context> Foo for Context\n" +
			"where\n" +
			"    Context: Bar,\n" +
			"{\n" +
			"    fn foo(&self) {\n" +
			"        Context::foo(self)\n" +
			"    }\n" +
			"}\n"
		assert.Equal(t, expected, Format(s))
	})

	t.Run("comma separated bodies", func(t *testing.T) {
		s := MustParse("pub struct Foo { pub a: A, b: Vec<B, C> }")
		expected := "pub struct Foo {\n" +
			"    pub a: A,\n" +
			"    b: Vec<B, C>,\n" +
			"}\n"
		assert.Equal(t, expected, Format(s))
	})

	t.Run("macro definitions", func(t *testing.T) {
		s := MustParse("macro_rules! with_my_preset { ($($x:tt)*) => { foo!($($x)*); }; }")
		expected := "macro_rules! with_my_preset {\n" +
			"    ($($x:tt)*) => {\n" +
			"        foo!($($x)*);\n" +
			"    };\n" +
			"}\n"
		assert.Equal(t, expected, Format(s))
	})

	t.Run("visibility before absolute paths", func(t *testing.T) {
		s := MustParse("pub struct Foo(pub ::core::marker::PhantomData<T>);")
		assert.Equal(t, "pub struct Foo(pub ::core::marker::PhantomData<T>);\n", Format(s))
	})

	t.Run("items separated by blank lines and docs restored", func(t *testing.T) {
		s := MustParse("/// First\nstruct A; struct B;")
		assert.Equal(t, "/// First\nstruct A;\n\nstruct B;\n", Format(s))
	})
}

func TestQuote(t *testing.T) {
	t.Run("splices placeholders", func(t *testing.T) {
		s, err := Quote("impl #name for #ctx { #body }", Vars{
			"name": Ident("Foo"),
			"ctx":  Ident("Bar"),
			"body": MustParse("fn x() {}"),
		})
		require.NoError(t, err)
		assert.Equal(t, "impl Foo for Bar { fn x() {} }", s.String())
	})

	t.Run("leaves attributes alone", func(t *testing.T) {
		s, err := Quote("#[inline] #![allow(unused)] fn #name() {}", Vars{"name": Ident("go")})
		require.NoError(t, err)
		assert.True(t, Equal(MustParse("#[inline] #![allow(unused)] fn go() {}"), s))
	})

	t.Run("nil binding splices nothing", func(t *testing.T) {
		s, err := Quote("struct Foo #generics;", Vars{"generics": nil})
		require.NoError(t, err)
		assert.Equal(t, "struct Foo;", s.String())
	})

	t.Run("unbound placeholder", func(t *testing.T) {
		_, err := Quote("struct #missing;", Vars{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "#missing")
	})

	t.Run("does not alias cached templates", func(t *testing.T) {
		first := MustQuote("fn a() { #x }", Vars{"x": Ident("one")})
		second := MustQuote("fn a() { #x }", Vars{"x": Ident("two")})
		assert.Equal(t, "fn a() { one }", first.String())
		assert.Equal(t, "fn a() { two }", second.String())
	})
}

func TestCursor(t *testing.T) {
	c := NewCursor(MustParse("a::b: c"), Span{})

	assert.True(t, c.PeekIdent("a"))
	c.Next()
	assert.False(t, c.PeekPunct(":"), "single colon must not match the start of a path separator")
	assert.True(t, c.PeekPunct("::"))
	require.NoError(t, c.ExpectPunct("::"))

	b, err := c.ExpectIdent()
	require.NoError(t, err)
	assert.Equal(t, "b", b.Text)

	fork := c.Fork()
	assert.True(t, fork.EatPunct(":"))
	assert.Equal(t, 4, c.Pos())
	c.Join(fork)
	assert.Equal(t, 5, c.Pos())

	_, err = c.ExpectGroup(DelimParen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected `(`, found `c`")

	c.Next()
	assert.True(t, c.EOF())
	assert.NoError(t, c.ExpectEOF())
}

func TestCursorScan(t *testing.T) {
	c := NewCursor(MustParse("Foo<A, B>, C -> D, E::F: G { x } where"), Span{})

	first := c.Scan(",", false)
	assert.Equal(t, "Foo<A, B>", first.String())
	require.True(t, c.EatPunct(","))

	second := c.Scan(",", false)
	assert.Equal(t, "C -> D", second.String())
	require.True(t, c.EatPunct(","))

	third := c.Scan(":", false)
	assert.Equal(t, "E::F", third.String())
	require.True(t, c.EatPunct(":"))

	fourth := c.Scan("", true)
	assert.Equal(t, "G", fourth.String())
	c.Next()

	assert.Empty(t, c.Scan(";", false))
	assert.True(t, c.PeekIdent("where"))
}

func TestSplitTopAndJoin(t *testing.T) {
	parts := SplitTop(MustParse("A: Fn() -> B, C<D, E>, F"), ',')
	require.Len(t, parts, 3)
	assert.Equal(t, "A: Fn() -> B", parts[0].String())
	assert.Equal(t, "C<D, E>", parts[1].String())

	joined := Join(parts, "+")
	assert.Equal(t, "A: Fn() -> B + C<D, E> + F", joined.String())
	assert.Equal(t, Joint, parts[1][len(parts[1])-1].Spacing, "joining must not modify the parts")
}

func TestSplicedSpacing(t *testing.T) {
	ty := SplitTop(MustParse("Box<T>, U"), ',')[0]
	require.Equal(t, Joint, ty[len(ty)-1].Spacing)

	quoted := MustQuote("#ty + Send", Vars{"ty": ty})
	assert.Equal(t, "Box<T> + Send", quoted.String())
	assert.Equal(t, Joint, ty[len(ty)-1].Spacing)

	assert.Equal(t, "Box<T> + Send", Concat(ty, Ops("+"), Ident("Send")).String())

	// joint spacing only fuses real compound operators
	hand := Stream{Ident("x"), Punct('=', Joint), Punct('-', Alone), Literal("1")}
	assert.Equal(t, "x = -1", hand.String())
}

func TestContains(t *testing.T) {
	s := MustParse("impl Foo { fn bar() { Self::baz() } }")
	assert.True(t, Contains(s, MustParse("Self::baz")))
	assert.False(t, Contains(s, MustParse("Self::qux")))
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/tokens"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `"abc"`, `Cons<Char<'a'>, Cons<Char<'b'>, Cons<Char<'c'>, Nil>>>`},
		{"empty", `""`, `Nil`},
		{"escapes", `"a\n'"`, `Cons<Char<'a'>, Cons<Char<'\n'>, Cons<Char<'\''>, Nil>>>`},
		{"raw", `r#"x"y"#`, `Cons<Char<'x'>, Cons<Char<'"'>, Cons<Char<'y'>, Nil>>>`},
		{"unicode escape", `"\u{e9}"`, `Cons<Char<'é'>, Nil>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Symbol(tokens.MustParse(tt.input))
			require.NoError(t, err)
			assertTokens(t, tt.expected, out)
		})
	}
}

func TestSymbolErrors(t *testing.T) {
	for _, input := range []string{`abc`, `"a" "b"`, `42`, ``} {
		_, err := Symbol(tokens.MustParse(input))
		assert.Error(t, err, input)
	}
}

func TestProductAndSum(t *testing.T) {
	product, err := ProductType(tokens.MustParse(`u8, Vec<(A, B)>, String`))
	require.NoError(t, err)
	assertTokens(t, `Cons<u8, Cons<Vec<(A, B)>, Cons<String, Nil>>>`, product)

	sum, err := SumType(tokens.MustParse(`u8, String,`))
	require.NoError(t, err)
	assertTokens(t, `Either<u8, Either<String, Void>>`, sum)

	empty, err := ProductType(nil)
	require.NoError(t, err)
	assertTokens(t, `Nil`, empty)

	expr, err := ProductExpr(tokens.MustParse(`1, "two", three()`))
	require.NoError(t, err)
	assertTokens(t, `Cons(1, Cons("two", Cons(three(), Nil)))`, expr)
}

func TestDeriveFields(t *testing.T) {
	out, err := DeriveFields(tokens.MustParse(`
		pub struct Person<T: Clone> {
			pub name: String,
			age: T,
		}
	`))
	require.NoError(t, err)

	assertTokens(t, `
		impl<T: Clone> HasField<Cons<Char<'n'>, Cons<Char<'a'>, Cons<Char<'m'>, Cons<Char<'e'>, Nil>>>>> for Person<T> {
			type Value = String;

			fn get_field(&self, key: ::core::marker::PhantomData<Cons<Char<'n'>, Cons<Char<'a'>, Cons<Char<'m'>, Cons<Char<'e'>, Nil>>>>>) -> &Self::Value {
				&self.name
			}
		}

		impl<T: Clone> HasFieldMut<Cons<Char<'n'>, Cons<Char<'a'>, Cons<Char<'m'>, Cons<Char<'e'>, Nil>>>>> for Person<T> {
			fn get_field_mut(&mut self, key: ::core::marker::PhantomData<Cons<Char<'n'>, Cons<Char<'a'>, Cons<Char<'m'>, Cons<Char<'e'>, Nil>>>>>) -> &mut Self::Value {
				&mut self.name
			}
		}

		impl<T: Clone> HasField<Cons<Char<'a'>, Cons<Char<'g'>, Cons<Char<'e'>, Nil>>>> for Person<T> {
			type Value = T;

			fn get_field(&self, key: ::core::marker::PhantomData<Cons<Char<'a'>, Cons<Char<'g'>, Cons<Char<'e'>, Nil>>>>) -> &Self::Value {
				&self.age
			}
		}

		impl<T: Clone> HasFieldMut<Cons<Char<'a'>, Cons<Char<'g'>, Cons<Char<'e'>, Nil>>>> for Person<T> {
			fn get_field_mut(&mut self, key: ::core::marker::PhantomData<Cons<Char<'a'>, Cons<Char<'g'>, Cons<Char<'e'>, Nil>>>>) -> &mut Self::Value {
				&mut self.age
			}
		}
	`, out)

	tuple, err := DeriveFields(tokens.MustParse(`pub struct Wrapper(u32);`))
	require.NoError(t, err)
	assert.Empty(t, tuple)

	_, err = DeriveFields(tokens.MustParse(`pub trait NotAStruct {}`))
	assert.Error(t, err)
}

func TestStripAsync(t *testing.T) {
	out := StripAsync(tokens.MustParse(`
		pub trait CanRun {
			async fn run(&self) -> u32;
		}

		impl CanRun for App {
			async fn run(&self) -> u32 {
				self.inner.run().await + helper(async_value).await
			}
		}
	`))

	assertTokens(t, `
		pub trait CanRun {
			fn run(&self) -> u32;
		}

		impl CanRun for App {
			fn run(&self) -> u32 {
				self.inner.run() + helper(async_value)
			}
		}
	`, out)
}

func TestNativeAsync(t *testing.T) {
	out := NativeAsync(tokens.MustParse(`
		pub trait CanRun {
			async fn run(&self) -> u32;
			async fn stop(&self);
			fn name(&self) -> &str;
		}
	`))

	assertTokens(t, `
		pub trait CanRun {
			fn run(&self) -> impl ::core::future::Future<Output = u32> + Send;
			fn stop(&self) -> impl ::core::future::Future<Output = ()> + Send;
			fn name(&self) -> &str;
		}
	`, out)

	notTrait := tokens.MustParse(`pub struct App;`)
	assert.True(t, tokens.Equal(notTrait, NativeAsync(notTrait)))
}

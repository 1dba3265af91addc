package substitution

import (
	"github.com/toyz/cgp/internal/tokens"
)

// substitutionMacro is a tt-muncher that walks its input with an explicit
// stack of enclosing brace and bracket groups, replacing `@ #marker` with
// the bracketed component list.
const substitutionMacro = `
#[macro_export]
macro_rules! #name {
	(
		@remaining( )
		@out( $( $out:tt )* )
		@stack( )
	) => {
		$( $out )*
	};

	(
		@remaining( )
		@out( $( $out:tt )* )
		@stack(
			@layer {
				@front( $( $front:tt )* )
				@remaining( $( $remaining:tt )* )
			}
			$( $stack:tt )*
		)
	) => {
		$crate:: #name ! {
			@remaining( $( $remaining )* )
			@out( $( $front )* { $( $out )* } )
			@stack( $( $stack )* )
		}
	};

	(
		@remaining( )
		@out( $( $out:tt )* )
		@stack(
			@layer [
				@front( $( $front:tt )* )
				@remaining( $( $remaining:tt )* )
			]
			$( $stack:tt )*
		)
	) => {
		$crate:: #name ! {
			@remaining( $( $remaining )* )
			@out( $( $front )* [ $( $out )* ] )
			@stack( $( $stack )* )
		}
	};

	(
		@remaining( @ #marker $( $remaining:tt )* )
		@out( $( $out:tt )* )
		@stack( $( $stack:tt )* )
	) => {
		$crate:: #name ! {
			@remaining( $( $remaining )* )
			@out( $( $out )* [ #substitution ] )
			@stack( $( $stack )* )
		}
	};

	(
		@remaining( { $( $inner:tt )* } $( $outer:tt )* )
		@out( $( $out:tt )* )
		@stack( $( $stack:tt )* )
	) => {
		$crate:: #name ! {
			@remaining( $( $inner )* )
			@out( )
			@stack(
				@layer {
					@front( $( $out )* )
					@remaining( $( $outer )* )
				}
				$( $stack )*
			)
		}
	};

	(
		@remaining( [ $( $inner:tt )* ] $( $outer:tt )* )
		@out( $( $out:tt )* )
		@stack( $( $stack:tt )* )
	) => {
		$crate:: #name ! {
			@remaining( $( $inner )* )
			@out( )
			@stack(
				@layer [
					@front( $( $out )* )
					@remaining( $( $outer )* )
				]
				$( $stack )*
			)
		}
	};

	(
		@remaining( $current:tt $( $remaining:tt )* )
		@out( $( $out:tt )* )
		@stack( $( $stack:tt )* )
	) => {
		$crate:: #name ! {
			@remaining( $( $remaining )* )
			@out( $( $out )* $current )
			@stack( $( $stack )* )
		}
	};

	( $( $remaining:tt )* ) => {
		$crate:: #name ! {
			@remaining( $( $remaining )* )
			@out( )
			@stack( )
		}
	};
}

pub use #name;
`

// DefineSubstitutionMacro emits the exported `macro_rules!` definition
// named macroName that expands its input with every `@marker` replaced by
// `[substitution]`, and re-exports it.
func DefineSubstitutionMacro(macroName, marker tokens.Tree, substitution tokens.Stream) tokens.Stream {
	return tokens.MustQuote(substitutionMacro, tokens.Vars{
		"name":         macroName,
		"marker":       marker,
		"substitution": substitution,
	})
}

// Substitute performs in Go what the macro from DefineSubstitutionMacro
// performs in the compiler. Brace and bracket groups are searched; other
// groups are copied unchanged, as the macro treats them as single tokens.
func Substitute(marker tokens.Tree, substitution, body tokens.Stream) tokens.Stream {
	out := make(tokens.Stream, 0, len(body))
	for i := 0; i < len(body); i++ {
		t := body[i]
		switch {
		case t.IsPunct('@') && i+1 < len(body) && body[i+1].IsIdent(marker.Text):
			list := tokens.Group(tokens.DelimBracket, substitution.Clone())
			list.Span = t.Span
			out = append(out, list)
			i++
		case t.IsGroup(tokens.DelimBrace) || t.IsGroup(tokens.DelimBracket):
			t.Stream = Substitute(marker, substitution, t.Stream)
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}
	return out
}

// Package cgp exposes the component code generator on strings of Rust
// source. Each function lexes its input, runs one macro and pretty-prints
// the result. Errors implement errors.CGPError and carry the position of
// the offending token.
package cgp

import (
	"github.com/toyz/cgp/internal/expander"
	"github.com/toyz/cgp/internal/generator"
	"github.com/toyz/cgp/internal/registry"
	"github.com/toyz/cgp/internal/substitution"
	"github.com/toyz/cgp/internal/tokens"
)

// inputFile names string input in error locations
const inputFile = "<input>"

func lex(src string) (tokens.Stream, error) {
	return tokens.Lex(inputFile, src)
}

// apply lexes src, runs fn and formats the output
func apply(src string, fn func(tokens.Stream) (tokens.Stream, error)) (string, error) {
	in, err := lex(src)
	if err != nil {
		return "", err
	}
	out, err := fn(in)
	if err != nil {
		return "", err
	}
	return tokens.Format(out), nil
}

// DeriveComponent expands `#[cgp_component(attr)]` on the consumer trait
// item: the trait itself, its provider trait, the component name struct
// and both blanket impls.
func DeriveComponent(attr, item string) (string, error) {
	attrTokens, err := lex(attr)
	if err != nil {
		return "", err
	}
	return apply(item, func(in tokens.Stream) (tokens.Stream, error) {
		return generator.DeriveComponent(attrTokens, in)
	})
}

// DelegateComponents expands the body of `delegate_components!`
func DelegateComponents(body string) (string, error) {
	return apply(body, generator.DelegateComponents)
}

// DefineComponents expands the body of `define_components!`: the table
// plus its `with_*!` substitution macro
func DefineComponents(body string) (string, error) {
	return apply(body, generator.DefineComponents)
}

// DefinePreset expands the body of `cgp_preset!`
func DefinePreset(body string) (string, error) {
	return apply(body, generator.DefinePreset)
}

// DelegateAll expands the body of `delegate_all!`
func DelegateAll(body string) (string, error) {
	return apply(body, generator.DelegateAll)
}

// ForEachReplace expands `for_each_replace!`: the body once per
// replacement, minus the excluded ones
func ForEachReplace(input string) (string, error) {
	return apply(input, substitution.HandleForEachReplace)
}

// ReplaceWith expands `replace_with!`: the body once, with the identifier
// replaced by the whole list
func ReplaceWith(input string) (string, error) {
	return apply(input, substitution.HandleReplace)
}

// StripAsync removes `async fn` and `.await` from item
func StripAsync(item string) (string, error) {
	return apply(item, func(in tokens.Stream) (tokens.Stream, error) {
		return generator.StripAsync(in), nil
	})
}

// NativeAsync makes the async methods of a trait return `impl Future + Send`
func NativeAsync(item string) (string, error) {
	return apply(item, func(in tokens.Stream) (tokens.Stream, error) {
		return generator.NativeAsync(in), nil
	})
}

// DeriveFields returns the `HasField` and `HasFieldMut` impls of a struct,
// without the struct itself
func DeriveFields(item string) (string, error) {
	return apply(item, generator.DeriveFields)
}

// Symbol returns the type-level string of the `symbol!` body, which must
// be a single string literal
func Symbol(body string) (string, error) {
	return apply(body, generator.Symbol)
}

// Product expands `Product![...]` into nested `Cons` types
func Product(body string) (string, error) {
	return apply(body, generator.ProductType)
}

// Sum expands `Sum![...]` into nested `Either` types
func Sum(body string) (string, error) {
	return apply(body, generator.SumType)
}

// Options configure ExpandSource and Expander
type Options struct {
	// MaxDepth bounds how often macro output is rescanned; 0 selects the default
	MaxDepth int
	// Aliases replaces the names a macro is recognised by, keyed by canonical name
	Aliases map[string][]string
}

func (o Options) expanderConfig() expander.Config {
	return expander.Config{MaxDepth: o.MaxDepth, Aliases: o.Aliases}
}

// Result is the outcome of expanding a source file
type Result struct {
	Output      string
	Invocations int
	Changed     bool
	Warnings    []string
	// Macros lists the `with_*!` macros the file defines
	Macros []string
}

// ExpandSource expands every macro invocation of a single file. Tables
// defined anywhere in the file are visible to `with_*!` invocations before
// them. On error the partial result is returned alongside.
func ExpandSource(path, src string, opts ...Options) (*Result, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	e, err := NewExpander(o)
	if err != nil {
		return nil, err
	}
	// expansion reports the same errors with the failing invocation
	_ = e.AddFile(path, src)
	return e.Expand(path, src)
}

// Expander expands several files that share component tables. Register
// every file with AddFile before expanding any of them. An Expander is not
// safe for concurrent use.
type Expander struct {
	registry *registry.ComponentRegistry
	expander *expander.Expander
}

// NewExpander creates an expander with an empty table registry
func NewExpander(opts Options) (*Expander, error) {
	reg := registry.NewComponentRegistry()
	e, err := expander.NewExpander(reg, opts.expanderConfig())
	if err != nil {
		return nil, err
	}
	return &Expander{registry: reg, expander: e}, nil
}

// AddFile registers the component tables and presets defined in src,
// replacing those previously registered from path
func (e *Expander) AddFile(path, src string) error {
	_, err := e.expander.Discover(path, src)
	return err
}

// Macros returns the registered `with_*!` macro names
func (e *Expander) Macros() []string {
	return e.registry.ListMacros()
}

// Expand expands the invocations of src
func (e *Expander) Expand(path, src string) (*Result, error) {
	res, err := e.expander.ExpandFile(path, src)
	if res == nil {
		return nil, err
	}

	out := &Result{
		Invocations: len(res.Invocations),
		Changed:     res.Changed,
		Warnings:    res.Warnings,
	}
	for _, entry := range res.Registered {
		out.Macros = append(out.Macros, entry.MacroName)
	}
	if res.Changed {
		out.Output = tokens.Format(res.Output)
	} else {
		out.Output = src
	}
	return out, err
}

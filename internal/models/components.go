package models

import (
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// ComponentSpec is a component type with its own generic parameters,
// written `<T> FooComponent<T>` in a delegation table.
type ComponentSpec struct {
	Generics syntax.Generics // may be empty
	Type     tokens.Stream   // the component type path
}

// Tokens prints the generics followed by the type
func (c ComponentSpec) Tokens() tokens.Stream {
	return tokens.Concat(c.Generics.DeclTokens(), c.Type)
}

// Clone returns a deep copy of the spec
func (c ComponentSpec) Clone() ComponentSpec {
	return ComponentSpec{Generics: c.Generics.Clone(), Type: c.Type.Clone()}
}

// DelegateEntry maps one or more components to the type implementing them
type DelegateEntry struct {
	Components []ComponentSpec // one element unless written `[A, B]: S`
	Source     tokens.Stream   // the delegated provider type
	Span       tokens.Span
}

// DelegateTable is an ordered list of delegation entries.
// The order only affects the order of the generated items.
type DelegateTable struct {
	Entries []DelegateEntry
}

// AllComponents returns every component of the table, in table order
func (t DelegateTable) AllComponents() []ComponentSpec {
	var out []ComponentSpec
	for _, e := range t.Entries {
		out = append(out, e.Components...)
	}
	return out
}

// Pairs flattens the table into (component, source) pairs
func (t DelegateTable) Pairs() []DelegatePair {
	var out []DelegatePair
	for _, e := range t.Entries {
		for _, c := range e.Components {
			out = append(out, DelegatePair{Component: c, Source: e.Source})
		}
	}
	return out
}

// DelegatePair is a single component together with its delegate
type DelegatePair struct {
	Component ComponentSpec
	Source    tokens.Stream
}

// TargetDescriptor is the type that receives the delegations
type TargetDescriptor struct {
	Type     tokens.Stream   // `Foo<'a, T>` as written, without generic declarations
	Generics syntax.Generics // parameters declared with `<..>` before the type
}

// DelegateComponentsInput is the parsed body of `delegate_components!`
type DelegateComponentsInput struct {
	Target TargetDescriptor
	Table  DelegateTable
}

// DefineComponentsInput is the parsed body of `define_components!`.
// The target is declared by the invocation, so its name is a plain identifier.
type DefineComponentsInput struct {
	Name     tokens.Tree
	Generics syntax.Generics
	Table    DelegateTable
}

// TargetType returns the declared type with its type arguments
func (d DefineComponentsInput) TargetType() tokens.Stream {
	return tokens.Concat(d.Name, d.Generics.TypeTokens())
}

// PresetDescriptor is the parsed body of `cgp_preset!`
type PresetDescriptor struct {
	Name     tokens.Tree
	Generics syntax.Generics
	Table    DelegateTable
}

// TargetType returns the preset type with its type arguments
func (p PresetDescriptor) TargetType() tokens.Stream {
	return tokens.Concat(p.Name, p.Generics.TypeTokens())
}

// DelegateAllInput is the parsed body of `delegate_all!`
type DelegateAllInput struct {
	Marker tokens.Stream // membership trait, usually `IsFooPreset`
	Source tokens.Stream
	Target tokens.Stream
}

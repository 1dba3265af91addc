package models

import (
	"github.com/toyz/cgp/internal/tokens"
)

// DefaultContextType is used when a component attribute names no context
const DefaultContextType = "Context"

// ComponentDefinition is the parsed argument list of `#[cgp_component]`
type ComponentDefinition struct {
	ProviderName    string   // name of the generated provider trait
	ContextType     string   // context parameter injected into the provider trait
	ComponentName   string   // name of the component marker struct
	ComponentParams []string // type parameters of the component marker
	Span            tokens.Span
}

// ProviderIdent returns the provider trait name as a token
func (d *ComponentDefinition) ProviderIdent() tokens.Tree {
	return tokens.Ident(d.ProviderName).WithSpan(d.Span)
}

// ContextIdent returns the context type as a token
func (d *ComponentDefinition) ContextIdent() tokens.Tree {
	return tokens.Ident(d.ContextType).WithSpan(d.Span)
}

// ComponentIdent returns the component name as a token
func (d *ComponentDefinition) ComponentIdent() tokens.Tree {
	return tokens.Ident(d.ComponentName).WithSpan(d.Span)
}

// ComponentParamIdents returns the component parameters as tokens
func (d *ComponentDefinition) ComponentParamIdents() []tokens.Tree {
	out := make([]tokens.Tree, len(d.ComponentParams))
	for i, p := range d.ComponentParams {
		out[i] = tokens.Ident(p).WithSpan(d.Span)
	}
	return out
}

// DefaultComponentName derives the component name from the provider name
func DefaultComponentName(provider string) string {
	return provider + "Component"
}

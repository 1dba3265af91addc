package generator

import (
	"fmt"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/substitution"
	"github.com/toyz/cgp/internal/tokens"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	registry SubstitutionRegistry
}

// NewGenerator creates a generator. A nil registry leaves `with_*!`
// invocations unresolved.
func NewGenerator(registry SubstitutionRegistry) *Generator {
	return &Generator{registry: registry}
}

// GetRegistry returns the registry used to resolve `with_*!` invocations
func (g *Generator) GetRegistry() SubstitutionRegistry {
	return g.registry
}

// Generate expands inv. Syntax errors are annotated with the macro name
// and located at the invocation when they carry no position of their own.
func (g *Generator) Generate(inv models.Invocation) (*models.GeneratedCode, error) {
	out, err := g.generate(inv)
	if err != nil {
		return nil, g.locate(parser.NewErrorReporter(inv.Kind.String()).Report(err), inv)
	}
	return out, nil
}

func (g *Generator) generate(inv models.Invocation) (*models.GeneratedCode, error) {
	switch inv.Kind {
	case models.MacroKindComponent:
		return wrap(DeriveComponent(inv.Attr, inv.Body))

	case models.MacroKindDelegateComponents:
		in, err := parser.ParseDelegateComponents(inv.Body, inv.Span)
		if err != nil {
			return nil, err
		}
		return &models.GeneratedCode{
			Tokens:   DelegateComponentsFrom(in),
			Warnings: parser.DiagnoseTable(in.Target.Type, in.Table),
		}, nil

	case models.MacroKindDefineComponents:
		in, err := parser.ParseDefineComponents(inv.Body, inv.Span)
		if err != nil {
			return nil, err
		}
		out, entry := DefineComponentsFrom(in)
		entry.SourceFile = inv.Span.File
		return &models.GeneratedCode{
			Tokens:     out,
			Registered: []models.RegistryEntry{entry},
			Warnings:   parser.DiagnoseTable(in.TargetType(), in.Table),
		}, nil

	case models.MacroKindPreset:
		preset, err := parser.ParseDefinePreset(inv.Body, inv.Span)
		if err != nil {
			return nil, err
		}
		out, entry := DefinePresetFrom(preset)
		entry.SourceFile = inv.Span.File
		return &models.GeneratedCode{
			Tokens:     out,
			Registered: []models.RegistryEntry{entry},
			Warnings:   parser.DiagnoseTable(preset.TargetType(), preset.Table),
		}, nil

	case models.MacroKindForEachReplace:
		return wrap(substitution.HandleForEachReplace(inv.Body))
	case models.MacroKindReplaceWith:
		return wrap(substitution.HandleReplace(inv.Body))
	case models.MacroKindDelegateAll:
		return wrap(DelegateAll(inv.Body))
	case models.MacroKindSymbol:
		return wrap(Symbol(inv.Body))
	case models.MacroKindProduct:
		return wrap(ProductType(inv.Body))
	case models.MacroKindSum:
		return wrap(SumType(inv.Body))
	case models.MacroKindProductExpr:
		return wrap(ProductExpr(inv.Body))
	case models.MacroKindStripAsync:
		return &models.GeneratedCode{Tokens: StripAsync(inv.Body)}, nil
	case models.MacroKindNativeAsync:
		return &models.GeneratedCode{Tokens: NativeAsync(inv.Body)}, nil

	case models.MacroKindDeriveFields:
		impls, err := DeriveFields(inv.Body)
		if err != nil {
			return nil, err
		}
		// the struct itself stays in place; only the impls are added
		return &models.GeneratedCode{Tokens: append(inv.Body.Clone(), impls...)}, nil

	case models.MacroKindSubstitution:
		return g.substitute(inv)
	}
	return nil, errors.GenerateError(fmt.Sprintf("no generator for macro kind %s", inv.Kind)).WithMacro(inv.Name)
}

// substitute expands a `with_*!` invocation from its registry entry
func (g *Generator) substitute(inv models.Invocation) (*models.GeneratedCode, error) {
	if g.registry == nil {
		return nil, errors.GenerateError(fmt.Sprintf("cannot resolve `%s!` without a component registry", inv.Name)).WithMacro(inv.Name)
	}
	entry, ok := g.registry.Lookup(inv.Name)
	if !ok {
		err := errors.GenerateError(fmt.Sprintf("`%s!` is not defined by any scanned component table or preset", inv.Name)).WithMacro(inv.Name)
		err.WithSuggestion("define it with define_components! or cgp_preset! in a scanned file")
		return nil, err
	}
	marker := tokens.Ident(entry.Marker)
	return &models.GeneratedCode{
		Tokens: substitution.Substitute(marker, tokens.Join(entry.Components, ","), inv.Body),
	}, nil
}

// locate gives err the invocation's position when it has none
func (g *Generator) locate(err error, inv models.Invocation) error {
	cgpErr := errors.AsCGPError(err)
	if cgpErr == nil || !cgpErr.Location().IsEmpty() || inv.Span.IsZero() {
		return err
	}
	type locatable interface {
		WithLocation(errors.SourceLocation) *errors.BaseError
	}
	if l, ok := err.(locatable); ok {
		l.WithLocation(inv.Span.Location())
	}
	return err
}

func wrap(out tokens.Stream, err error) (*models.GeneratedCode, error) {
	if err != nil {
		return nil, err
	}
	return &models.GeneratedCode{Tokens: out}, nil
}

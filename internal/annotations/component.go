package annotations

import (
	"fmt"

	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/tokens"
)

// ParseComponentAttribute parses the arguments of `#[cgp_component]`
// with the default parser
func ParseComponentAttribute(args tokens.Stream, span tokens.Span) (*models.ComponentDefinition, error) {
	parsed, err := DefaultParser().ParseAttribute("cgp_component", args, span)
	if err != nil {
		return nil, err
	}
	return ComponentDefinitionFrom(parsed)
}

// ComponentDefinitionFrom converts a validated component annotation
func ComponentDefinitionFrom(a *ParsedAnnotation) (*models.ComponentDefinition, error) {
	if a.Type != ComponentAnnotation {
		return nil, fmt.Errorf("expected a %s annotation, got %s", ComponentAnnotation, a.Type)
	}

	def := &models.ComponentDefinition{
		ProviderName: a.GetString("provider"),
		ContextType:  a.GetString("context", models.DefaultContextType),
		Span:         a.Location,
	}
	if name, ok := a.Parameters["name"].(PathValue); ok {
		def.ComponentName = name.Name
		def.ComponentParams = name.Params
	} else {
		def.ComponentName = models.DefaultComponentName(def.ProviderName)
	}
	return def, nil
}

package annotations

import (
	"fmt"

	"github.com/toyz/cgp/internal/tokens"
)

// AnnotationType represents the type of attribute macro
type AnnotationType int

const (
	ComponentAnnotation AnnotationType = iota
	StripAsyncAnnotation
	NativeAsyncAnnotation
	DeriveAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ComponentAnnotation:
		return "cgp_component"
	case StripAsyncAnnotation:
		return "strip_async"
	case NativeAsyncAnnotation:
		return "native_async"
	case DeriveAnnotation:
		return "derive"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts an attribute name to AnnotationType.
// `derive_component` is the older spelling of `cgp_component`.
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "cgp_component", "derive_component":
		return ComponentAnnotation, nil
	case "strip_async":
		return StripAsyncAnnotation, nil
	case "native_async":
		return NativeAsyncAnnotation, nil
	case "derive":
		return DeriveAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// ParsedAnnotation represents a fully parsed attribute with typed parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Name       string                 // attribute name as written
	Parameters map[string]interface{} // Typed parameters
	Positional []string               // bare entries, such as derive names
	Location   tokens.Span            // Source location
	Raw        string                 // Original argument text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetStringSlice returns a string slice parameter value with optional default
func (p *ParsedAnnotation) GetStringSlice(paramName string, defaultValue ...[]string) []string {
	if value, exists := p.Parameters[paramName]; exists {
		if sliceValue, ok := value.([]string); ok {
			return sliceValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return nil
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	// IdentType is a single identifier
	IdentType ParameterType = iota
	// PathType is an identifier with optional `<A, B>` parameters
	PathType
	// IdentListType is a list of identifiers
	IdentListType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case IdentType:
		return "identifier"
	case PathType:
		return "identifier with optional parameters"
	case IdentListType:
		return "identifier list"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an attribute parameter
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Default value if not provided
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// CustomValidator represents a custom validation function for annotations
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Parameters  map[string]ParameterSpec // Parameter specifications
	Validators  []CustomValidator        // Custom validation functions
	Examples    []string                 // Usage examples
}

// PathValue is the value of a PathType parameter
type PathValue struct {
	Name   string
	Params []string
}

// String renders the path as written
func (v PathValue) String() string {
	if len(v.Params) == 0 {
		return v.Name
	}
	out := v.Name + "<"
	for i, p := range v.Params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out + ">"
}

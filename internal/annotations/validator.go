package annotations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/cgp/internal/errors"
)

// SchemaValidator defines the interface for validating annotations against their schemas
type SchemaValidator interface {
	// Validate annotation against its schema
	Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error

	// ApplyDefaults applies default values for missing optional parameters
	ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error
}

// validator is the concrete implementation of SchemaValidator
type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate validates an annotation against its schema
func (v *validator) Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	var errs *errors.MultipleErrors
	loc := annotation.Location.Location()

	for _, paramName := range sortedKeys(schema.Parameters) {
		paramSpec := schema.Parameters[paramName]
		if !paramSpec.Required {
			continue
		}
		if _, exists := annotation.Parameters[paramName]; !exists {
			err := errors.NewAttributeError(annotation.Type.String(), paramName,
				fmt.Sprintf("missing required parameter `%s` (%s)", paramName, paramSpec.Type))
			err.WithLocation(loc).WithSuggestion(fmt.Sprintf("Add `%s = <value>` to the attribute", paramName))
			errors.AddToMultiple(&errs, err)
		}
	}

	for _, paramName := range sortedKeys(annotation.Parameters) {
		paramValue := annotation.Parameters[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			err := errors.NewAttributeError(annotation.Type.String(), paramName,
				fmt.Sprintf("unknown parameter `%s`", paramName))
			err.WithLocation(loc).WithSuggestion(validKeysHint(schema))
			errors.AddToMultiple(&errs, err)
			continue
		}

		if paramSpec.Validator != nil {
			if verr := paramSpec.Validator(paramValue); verr != nil {
				err := errors.NewAttributeError(annotation.Type.String(), paramName,
					fmt.Sprintf("invalid value for `%s`: %v", paramName, verr))
				err.WithLocation(loc)
				errors.AddToMultiple(&errs, err)
			}
		}
	}

	for _, customValidator := range schema.Validators {
		if verr := customValidator(annotation); verr != nil {
			err := errors.NewAttributeError(annotation.Type.String(), "", verr.Error())
			err.WithLocation(loc).WithSuggestions(schema.Examples...)
			errors.AddToMultiple(&errs, err)
		}
	}

	if errs != nil && errs.Count() == 1 {
		return errs.UnwrapAll()[0]
	}
	return errs.ErrOrNil()
}

// ApplyDefaults applies default values for missing optional parameters
func (v *validator) ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	if annotation.Parameters == nil {
		annotation.Parameters = make(map[string]interface{})
	}
	for paramName, paramSpec := range schema.Parameters {
		if _, exists := annotation.Parameters[paramName]; !exists && paramSpec.DefaultValue != nil {
			annotation.Parameters[paramName] = paramSpec.DefaultValue
		}
	}
	return nil
}

func validKeysHint(schema AnnotationSchema) string {
	keys := sortedKeys(schema.Parameters)
	if len(keys) == 0 {
		return fmt.Sprintf("#[%s] takes no parameters", schema.Type)
	}
	return fmt.Sprintf("Valid parameters: %s", strings.Join(keys, ", "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

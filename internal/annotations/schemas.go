package annotations

import (
	"fmt"
)

// ComponentAnnotationSchema defines the schema for #[cgp_component] attributes
var ComponentAnnotationSchema = AnnotationSchema{
	Type:        ComponentAnnotation,
	Description: "Splits a consumer trait into a provider trait with blanket forwarding impls",
	Parameters: map[string]ParameterSpec{
		"provider": ProviderParameterSpec(),
		"context":  ContextParameterSpec(),
		"name":     ComponentNameParameterSpec(),
	},
	Validators: []CustomValidator{
		func(a *ParsedAnnotation) error {
			if a.GetString("provider") != "" && a.GetString("provider") == a.GetString("context") {
				return fmt.Errorf("provider and context must have different names")
			}
			return nil
		},
	},
	Examples: []string{
		"#[cgp_component(provider = GreeterProvider)]",
		"#[cgp_component { provider: GreeterProvider, context: App }]",
		"#[cgp_component(provider = FooProvider, name = FooComponent<Bar>)]",
		"#[derive_component(FooComponent, FooProvider<Context>)]",
	},
}

// StripAsyncAnnotationSchema defines the schema for #[strip_async]
var StripAsyncAnnotationSchema = AnnotationSchema{
	Type:        StripAsyncAnnotation,
	Description: "Removes `async` and `.await` from the annotated item",
	Parameters:  map[string]ParameterSpec{},
	Validators:  []CustomValidator{noPositional},
	Examples:    []string{"#[strip_async]"},
}

// NativeAsyncAnnotationSchema defines the schema for #[native_async]
var NativeAsyncAnnotationSchema = AnnotationSchema{
	Type:        NativeAsyncAnnotation,
	Description: "Rewrites async trait methods to return `impl Future + Send`",
	Parameters:  map[string]ParameterSpec{},
	Validators:  []CustomValidator{noPositional},
	Examples:    []string{"#[native_async]"},
}

// DeriveAnnotationSchema defines the schema for #[derive(..)]. Only
// `HasField` is expanded; other traits are left to the compiler.
var DeriveAnnotationSchema = AnnotationSchema{
	Type:        DeriveAnnotation,
	Description: "Derives field accessors for named structs",
	Parameters: map[string]ParameterSpec{
		"traits": TraitsParameterSpec(),
	},
	Examples: []string{"#[derive(HasField)]", "#[derive(Clone, HasField)]"},
}

func noPositional(a *ParsedAnnotation) error {
	if len(a.Positional) > 0 {
		return fmt.Errorf("#[%s] takes no arguments", a.Type)
	}
	return nil
}

// RegisterBuiltinSchemas registers all built-in annotation schemas
func RegisterBuiltinSchemas(r AnnotationRegistry) error {
	schemas := []AnnotationSchema{
		ComponentAnnotationSchema,
		StripAsyncAnnotationSchema,
		NativeAsyncAnnotationSchema,
		DeriveAnnotationSchema,
	}
	for _, schema := range schemas {
		if err := r.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type, err)
		}
	}
	return nil
}

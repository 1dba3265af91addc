package annotations

import (
	"reflect"
	"strings"
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	if err := RegisterBuiltinSchemas(registry); err != nil {
		t.Fatalf("Failed to register builtin schemas: %v", err)
	}

	expected := []AnnotationType{ComponentAnnotation, StripAsyncAnnotation, NativeAsyncAnnotation, DeriveAnnotation}
	if got := registry.ListTypes(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	err := registry.Register(ComponentAnnotation, ComponentAnnotationSchema)
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Expected duplicate registration error, got %v", err)
	}

	schema, err := registry.GetSchema(ComponentAnnotation)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !schema.Parameters["provider"].Required {
		t.Error("provider must be required")
	}
}

func TestRegistryRejectsInvalidSchemas(t *testing.T) {
	tests := []struct {
		name   string
		schema AnnotationSchema
		want   string
	}{
		{
			name:   "type mismatch",
			schema: AnnotationSchema{Type: DeriveAnnotation},
			want:   "does not match",
		},
		{
			name: "required with default",
			schema: AnnotationSchema{Type: ComponentAnnotation, Parameters: map[string]ParameterSpec{
				"provider": {Type: IdentType, Required: true, DefaultValue: "P"},
			}},
			want: "cannot have a default value",
		},
		{
			name: "default of wrong type",
			schema: AnnotationSchema{Type: ComponentAnnotation, Parameters: map[string]ParameterSpec{
				"name": {Type: PathType, DefaultValue: "FooComponent"},
			}},
			want: "must be PathValue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(ComponentAnnotation, tt.schema)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestAnnotationTypeNames(t *testing.T) {
	for _, name := range []string{"cgp_component", "derive_component"} {
		got, err := ParseAnnotationType(name)
		if err != nil || got != ComponentAnnotation {
			t.Errorf("%s: expected component annotation, got %v (%v)", name, got, err)
		}
	}
	if ComponentAnnotation.String() != "cgp_component" {
		t.Errorf("Unexpected name %s", ComponentAnnotation)
	}
	if (PathValue{Name: "Foo", Params: []string{"A", "B"}}).String() != "Foo<A, B>" {
		t.Error("Unexpected path rendering")
	}
}

package utils

import (
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "error with field",
			err:      ValidationError{Field: "output_prefix", Value: "", Message: "cannot be empty"},
			expected: "validation error for field 'output_prefix': cannot be empty",
		},
		{
			name:     "error without field",
			err:      ValidationError{Message: "invalid format"},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNotEmpty(t *testing.T) {
	validator := NotEmpty("test_field")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid string", "hello", false},
		{"empty string", "", true},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NotEmpty() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsRustIdentifier(t *testing.T) {
	validator := IsRustIdentifier("macro")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"snake case", "delegate_components", false},
		{"camel case", "FooComponent", false},
		{"leading underscore", "_private", false},
		{"digits", "with_app2", false},
		{"empty", "", true},
		{"lone underscore", "_", true},
		{"leading digit", "2app", true},
		{"path", "cgp::symbol", true},
		{"bang", "symbol!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsRustIdentifier(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPrefix(t *testing.T) {
	validator := ValidateOutputPrefix("output_prefix")

	tests := []struct {
		value   string
		wantErr string
	}{
		{"autogen_", ""},
		{"gen.", ""},
		{"", "cannot be empty"},
		{"out/", "path separators"},
		{`out\`, "path separators"},
		{"a b", "must match pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validator(tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	validator := InRange("max_depth", 1, 64)
	for _, ok := range []int{1, 16, 64} {
		if err := validator(ok); err != nil {
			t.Errorf("InRange(%d) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []int{0, -3, 65} {
		if err := validator(bad); err == nil {
			t.Errorf("InRange(%d) expected error", bad)
		}
	}
}

func TestIsOneOf(t *testing.T) {
	validator := IsOneOf("level", "quiet", "normal", "verbose")
	if err := validator("verbose"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	err := validator("loud")
	if err == nil || !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("Expected membership error, got %v", err)
	}
}

func TestSliceNotEmptyAndValidateEach(t *testing.T) {
	if err := SliceNotEmpty[string]("names")(nil); err == nil {
		t.Error("Expected error for empty slice")
	}

	each := ValidateEach("names", ValidateMacroName("name"))
	if err := each([]string{"cgp_preset", "define_preset"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	err := each([]string{"cgp_preset", "bad name"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if ve, ok := err.(ValidationError); !ok || ve.Field != "names[1]" {
		t.Errorf("Expected error on names[1], got %#v", err)
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("path"), HasSuffix("path", ".yaml"))
	chain.Add(MatchesRegex("path", `^[a-z./]+$`))

	tests := []struct {
		value   string
		wantErr string
	}{
		{"cgp.yaml", ""},
		{"", "cannot be empty"},
		{"cgp.toml", "must end with"},
		{"CGP.yaml", "must match pattern"},
	}
	for _, tt := range tests {
		err := chain.Validate(tt.value)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%q: unexpected error %v", tt.value, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%q: expected %q, got %v", tt.value, tt.wantErr, err)
		}
	}
}

func TestConditional(t *testing.T) {
	validator := Conditional(func(v string) bool { return v != "" }, HasSuffix("dir", "cache"))
	if err := validator(""); err != nil {
		t.Errorf("Expected condition to skip validation, got %v", err)
	}
	if err := validator(".cgpcache"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := validator("tmp"); err == nil {
		t.Error("Expected error")
	}
}

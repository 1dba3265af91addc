package errors

import "fmt"

// SyntaxError represents malformed input to a macro
type SyntaxError struct {
	*BaseError
	Token    string // offending token text, if any
	Expected string // what the parser wanted instead
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// NewSyntaxErrorAt creates a syntax error located at loc
func NewSyntaxErrorAt(loc SourceLocation, token, expected string) *SyntaxError {
	message := fmt.Sprintf("expected %s", expected)
	if token != "" {
		message = fmt.Sprintf("expected %s, found `%s`", expected, token)
	}
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithLocation(loc),
		Token:     token,
		Expected:  expected,
	}
}

// UnsupportedError reports input that is well formed but that the
// generator refuses to handle, such as non-identifier argument patterns.
type UnsupportedError struct {
	*BaseError
	Construct string
}

// NewUnsupportedError creates a new unsupported-construct error
func NewUnsupportedError(construct, message string) *UnsupportedError {
	return &UnsupportedError{
		BaseError: New(UnsupportedErrorCode, message).WithContext("construct", construct),
		Construct: construct,
	}
}

// AttributeError reports an invalid `#[cgp_component(...)]` style argument list
type AttributeError struct {
	*BaseError
	Attribute string
	Key       string
}

// NewAttributeError creates a new attribute error
func NewAttributeError(attribute, key, message string) *AttributeError {
	err := &AttributeError{
		BaseError: New(AttributeErrorCode, message).WithContext("attribute", attribute),
		Attribute: attribute,
		Key:       key,
	}
	if key != "" {
		err.WithContext("key", key)
	}
	return err
}

// GenerationError represents a failure while producing output for a macro
type GenerationError struct {
	*BaseError
	Macro      string // macro or attribute being expanded
	TargetFile string // file the output was destined for
	Stage      string // expansion stage (parse, generate, format, write)
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

// WithMacro records the macro being expanded
func (e *GenerationError) WithMacro(macro string) *GenerationError {
	e.Macro = macro
	e.WithContext("macro", macro)
	return e
}

// WithStage records the expansion stage
func (e *GenerationError) WithStage(stage string) *GenerationError {
	e.Stage = stage
	e.WithContext("stage", stage)
	return e
}

// RegistrationError reports a conflicting entry in the component registry
type RegistrationError struct {
	*BaseError
	Kind string
	Name string
}

// NewRegistrationError creates a new registration error
func NewRegistrationError(kind, name, reason string) *RegistrationError {
	return &RegistrationError{
		BaseError: Newf(RegistrationErrorCode, "failed to register %s '%s': %s", kind, name, reason).
			WithContext("kind", kind).
			WithContext("name", name),
		Kind: kind,
		Name: name,
	}
}

// ExpansionDepthError reports macro output that keeps producing new macro
// invocations past the configured limit.
type ExpansionDepthError struct {
	*BaseError
	Depth int
}

// NewExpansionDepthError creates a new expansion depth error
func NewExpansionDepthError(depth int, macro string) *ExpansionDepthError {
	return &ExpansionDepthError{
		BaseError: Newf(ExpansionDepthErrorCode, "macro expansion of `%s!` exceeded the maximum depth of %d", macro, depth).
			WithContext("macro", macro).
			WithSuggestion("check for presets or delegation tables that expand into themselves"),
		Depth: depth,
	}
}

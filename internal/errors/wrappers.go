package errors

import "fmt"

// Common error wrapping patterns used throughout the codebase

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *SyntaxError {
	message := fmt.Sprintf("failed to parse %s", item)
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, message, cause),
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// WrapFormatterError wraps failures of the external formatter
func WrapFormatterError(tool string, cause error) *BaseError {
	return Wrap(FormatterErrorCode, fmt.Sprintf("failed to run %s", tool), cause).
		WithContext("tool", tool).
		WithSuggestion(fmt.Sprintf("make sure %s is installed and on PATH, or disable it", tool))
}

// Convenience functions for common operations

// ParseError creates a syntax error without wrapping
func ParseError(message string) *SyntaxError {
	return NewSyntaxError(message)
}

// Unsupported creates an unsupported-construct error
func Unsupported(construct string, format string, args ...interface{}) *UnsupportedError {
	return NewUnsupportedError(construct, fmt.Sprintf(format, args...))
}

// GenerateError creates a generation error without wrapping
func GenerateError(message string) *GenerationError {
	return NewGenerationError(message)
}

// FileSystemError creates a file system error
func FileSystemError(operation, path, message string) *BaseError {
	fullMessage := fmt.Sprintf("failed to %s file '%s': %s", operation, path, message)
	return New(FileSystemErrorCode, fullMessage).
		WithContext("operation", operation).
		WithContext("path", path)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}

// Error collection helpers

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err CGPError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}

// AsCGPError converts any error into a CGPError, wrapping foreign errors
func AsCGPError(err error) CGPError {
	if err == nil {
		return nil
	}
	if cgpErr, ok := err.(CGPError); ok {
		return cgpErr
	}
	return Wrap(UnknownErrorCode, err.Error(), err)
}

// ErrOrNil returns nil for an empty collection so callers can return it directly
func (e *MultipleErrors) ErrOrNil() error {
	if e == nil || e.IsEmpty() {
		return nil
	}
	return e
}

package server

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/toyz/cgp/internal/errors"
)

// Span locates a diagnostic in the request input
type Span struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Diagnostic is one error reported to the client
type Diagnostic struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Span        *Span    `json:"span,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// HttpError is the JSON body of every failed request
type HttpError struct {
	StatusCode  int          `json:"status_code"`
	Message     string       `json:"message"`
	RequestID   string       `json:"request_id,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ErrBadRequest creates a 400 error without diagnostics
func ErrBadRequest(message string) *HttpError {
	return &HttpError{StatusCode: http.StatusBadRequest, Message: message}
}

// ErrExpansion turns an expansion failure into a 400 error listing every
// diagnostic with its span
func ErrExpansion(err error) *HttpError {
	httpErr := &HttpError{StatusCode: http.StatusBadRequest, Message: err.Error()}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		httpErr.Message = fmt.Sprintf("%d errors", multi.Count())
		for _, inner := range multi.UnwrapAll() {
			httpErr.Diagnostics = append(httpErr.Diagnostics, diagnosticOf(inner))
		}
		return httpErr
	}
	httpErr.Diagnostics = []Diagnostic{diagnosticOf(err)}
	return httpErr
}

func diagnosticOf(err error) Diagnostic {
	cgpErr := errors.AsCGPError(err)
	d := Diagnostic{
		Code:        cgpErr.ErrorCode().String(),
		Message:     err.Error(),
		Suggestions: cgpErr.Suggestions(),
	}
	if loc := cgpErr.Location(); !loc.IsEmpty() {
		d.Span = &Span{File: loc.File, Line: loc.Line, Column: loc.Column}
	}
	return d
}

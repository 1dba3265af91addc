package cli

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/cgp/internal/errors"
)

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporterWithOutput(false, &out)

	reporter.ReportWarning("This is a test warning")
	reporter.ReportWarning("This is another warning", "First suggestion")

	output := out.String()
	assert.Contains(t, output, "! This is a test warning")
	assert.Contains(t, output, "! This is another warning")
	assert.NotContains(t, output, "First suggestion", "suggestions are only shown in verbose mode")

	out.Reset()
	NewDiagnosticReporterWithOutput(true, &out).ReportWarning("loud", "First suggestion")
	assert.Contains(t, out.String(), "   - First suggestion")
}

func TestDiagnosticReporter_ReportCGPError(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporterWithOutput(false, &out)

	err := errors.NewRegistrationError("components", "AppComponents", "`with_app_components!` is already defined in a.rs")
	err.WithLocation(errors.SourceLocation{File: "b.rs", Line: 3, Column: 1}).
		WithContext("zeta", 1).
		WithSuggestion("rename one of the tables\nso that the macros differ")

	reporter.ReportError(err)
	output := out.String()

	expected := []string{
		"ERROR: Code Generation Failed",
		"Type: Registration Error",
		"Location: b.rs:3:1",
		"Kind: components",
		"Name: AppComponents",
		"Zeta: 1",
		"1. rename one of the tables",
		"      so that the macros differ",
		"Run with -verbose",
	}
	for _, want := range expected {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "Message: b.rs:3:1:", "the location is printed once")

	// remaining context keys are printed in sorted order
	assert.Less(t, strings.Index(output, "Kind:"), strings.Index(output, "Name:"))
	assert.Less(t, strings.Index(output, "Name:"), strings.Index(output, "Zeta:"))
}

func TestDiagnosticReporter_ReportMultipleErrors(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporterWithOutput(false, &out)

	var multi *errors.MultipleErrors
	errors.AddToMultiple(&multi, errors.NewSyntaxError("unclosed delimiter `{`").WithLocation(errors.SourceLocation{File: "a.rs", Line: 1, Column: 13}))
	errors.AddToMultiple(&multi, errors.GenerateError("expected `:`").WithMacro("delegate_components"))

	reporter.ReportError(multi)
	output := out.String()

	assert.Contains(t, output, "2 errors (1 Syntax Error, 1 Code Generation Error)")
	assert.Contains(t, output, "[1/2] Type: Syntax Error")
	assert.Contains(t, output, "[2/2] Type: Code Generation Error")
	assert.Contains(t, output, "Macro: delegate_components")
}

func TestDiagnosticReporter_BreakdownByKind(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporterWithOutput(false, &out)

	var multi *errors.MultipleErrors
	errors.AddToMultiple(&multi, errors.NewSyntaxError("expected `,`, found `C`"))
	errors.AddToMultiple(&multi, errors.NewRegistrationError("components", "App", "duplicate table"))
	errors.AddToMultiple(&multi, errors.NewSyntaxError("expected `:`, found `Bar`"))

	reporter.ReportError(multi)
	assert.Contains(t, out.String(), "3 errors (2 Syntax Error, 1 Registration Error)")
}

func TestDiagnosticReporter_VerboseShowsCause(t *testing.T) {
	var out bytes.Buffer
	reporter := NewDiagnosticReporterWithOutput(true, &out)

	cause := stderrors.New("permission denied")
	reporter.ReportError(errors.WrapFileSystemError("write", "src/autogen_lib.rs", cause))
	output := out.String()

	assert.Contains(t, output, "Type: File System Error")
	assert.Contains(t, output, "Underlying cause: permission denied")
	assert.Contains(t, output, "Error Chain:")
	assert.Contains(t, output, "File: src/autogen_lib.rs")
	assert.NotContains(t, output, "Run with -verbose")
}

func TestDiagnosticReporter_PlainError(t *testing.T) {
	var out bytes.Buffer
	NewDiagnosticReporterWithOutput(false, &out).ReportError(stderrors.New("boom"))
	assert.Contains(t, out.String(), "Message: boom")

	out.Reset()
	NewDiagnosticReporterWithOutput(false, &out).ReportError(nil)
	assert.Empty(t, out.String())
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	var out bytes.Buffer
	NewDiagnosticReporterWithOutput(false, &out).ReportSuccess(GenerationSummary{
		FilesScanned:         4,
		FilesGenerated:       2,
		Invocations:          7,
		ComponentsRegistered: 1,
		PresetsRegistered:    1,
		CacheHits:            3,
		GeneratedFiles:       []string{"src/autogen_lib.rs"},
	})
	output := out.String()

	for _, want := range []string{
		"Scanned 4 files",
		"Generated 2 files",
		"Expanded 7 macro invocations",
		"Registered 1 component tables",
		"Registered 1 presets",
		"Reused 3 cached expansions",
		"  - src/autogen_lib.rs",
	} {
		assert.Contains(t, output, want)
	}
}

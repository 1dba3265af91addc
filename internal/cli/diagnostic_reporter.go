package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/cgp/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	colors  bool
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr, colors: !color.NoColor}
}

// NewDiagnosticReporterWithOutput creates an uncolored reporter writing to out
func NewDiagnosticReporterWithOutput(verbose bool, out io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out}
}

func (r *DiagnosticReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.colors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	r.paint(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	if r.verbose {
		for _, suggestion := range suggestions {
			fmt.Fprintf(r.out, "   - %s\n", suggestion)
		}
	}
}

// ReportError prints err with its location, context and suggestions. A
// MultipleErrors is reported one error at a time.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 0 {
		fmt.Fprintf(r.out, "%d errors (%s)\n\n", multi.Count(), breakdown(multi))
		for i, inner := range multi.UnwrapAll() {
			fmt.Fprintf(r.out, "[%d/%d] ", i+1, multi.Count())
			r.reportOne(inner)
		}
	} else {
		r.reportOne(err)
	}
	r.printHelp()
}

func (r *DiagnosticReporter) reportOne(err error) {
	var cgpErr errors.CGPError
	if !stderrors.As(err, &cgpErr) {
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
		return
	}

	r.printErrorHeader(cgpErr.ErrorCode())
	fmt.Fprintf(r.out, "Message: %s\n\n", messageOf(cgpErr))

	if loc := cgpErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc.String())
	}
	if r.verbose && cgpErr.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", cgpErr.Unwrap().Error())
	}
	if ctx := cgpErr.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}
	if suggestions := cgpErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
	if r.verbose {
		r.printErrorChain(cgpErr)
	}
}

// messageOf returns the error message without the location prefix
func messageOf(err errors.CGPError) string {
	msg := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

// breakdown counts the errors of a collection per kind, in order of first
// appearance: "2 Syntax Error, 1 Registration Error"
func breakdown(multi *errors.MultipleErrors) string {
	var parts []string
	seen := make(map[errors.ErrorCode]bool)
	for _, inner := range multi.Errors {
		code := inner.ErrorCode()
		if seen[code] {
			continue
		}
		seen[code] = true
		parts = append(parts, fmt.Sprintf("%d %s", len(multi.GetByCode(code)), errorTitle(code)))
	}
	return strings.Join(parts, ", ")
}

// printErrorHeader prints a formatted error header based on error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	title := errorTitle(code)
	r.paint(color.FgRed, color.Bold).Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

func errorTitle(code errors.ErrorCode) string {
	var title string
	switch code {
	case errors.SyntaxErrorCode:
		title = "Syntax Error"
	case errors.UnsupportedErrorCode:
		title = "Unsupported Construct"
	case errors.AttributeErrorCode:
		title = "Attribute Error"
	case errors.GenerationErrorCode:
		title = "Code Generation Error"
	case errors.ExpansionDepthErrorCode:
		title = "Expansion Depth Exceeded"
	case errors.RegistrationErrorCode:
		title = "Registration Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	case errors.FormatterErrorCode:
		title = "Formatter Error"
	default:
		title = "Unknown Error"
	}
	return title
}

// printContext prints context information, important keys first and the
// rest in sorted order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"macro", "path", "attribute", "key", "construct"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	rest := make([]string, 0, len(context))
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey formats context keys to be more readable
func formatContextKey(key string) string {
	switch key {
	case "macro":
		return "Macro"
	case "path":
		return "File"
	case "opened_at":
		return "Opened At"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(r.out, "\n")
}

// printErrorChain lists the wrapped causes
func (r *DiagnosticReporter) printErrorChain(err error) {
	cause := stderrors.Unwrap(err)
	if cause == nil {
		return
	}
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; cause != nil; level++ {
		fmt.Fprintf(r.out, "    %d. %s\n", level, cause.Error())
		cause = stderrors.Unwrap(cause)
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printHelp() {
	fmt.Fprintf(r.out, "For more help:\n")
	if !r.verbose {
		fmt.Fprintf(r.out, "  - Run with -verbose for more detailed output\n")
	}
	fmt.Fprintf(r.out, "  - Run with -stdout to inspect expansions without writing files\n\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.out, "[DEBUG] "+format+"\n", args...)
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	r.paint(color.FgGreen, color.Bold).Fprintf(r.out, "\nCode Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "=======================================\n\n")
	fmt.Fprintf(r.out, "Scanned %d files\n", summary.FilesScanned)
	fmt.Fprintf(r.out, "Generated %d files\n", summary.FilesGenerated)

	if summary.Invocations > 0 {
		fmt.Fprintf(r.out, "Expanded %d macro invocations\n", summary.Invocations)
	}
	if summary.ComponentsRegistered > 0 {
		fmt.Fprintf(r.out, "Registered %d component tables\n", summary.ComponentsRegistered)
	}
	if summary.PresetsRegistered > 0 {
		fmt.Fprintf(r.out, "Registered %d presets\n", summary.PresetsRegistered)
	}
	if summary.CacheHits > 0 {
		fmt.Fprintf(r.out, "Reused %d cached expansions\n", summary.CacheHits)
	}
	if summary.FilesRemoved > 0 {
		fmt.Fprintf(r.out, "Removed %d stale files\n", summary.FilesRemoved)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	FilesScanned         int
	FilesGenerated       int
	FilesUnchanged       int
	FilesRemoved         int
	Invocations          int
	ComponentsRegistered int
	PresetsRegistered    int
	CacheHits            int
	GeneratedFiles       []string
}

// Stats returns the summary as the key/value map printed by the diagnostics
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Files scanned":         s.FilesScanned,
		"Files generated":       s.FilesGenerated,
		"Invocations":           s.Invocations,
		"Components registered": s.ComponentsRegistered,
		"Presets registered":    s.PresetsRegistered,
		"Cache hits":            s.CacheHits,
	}
}

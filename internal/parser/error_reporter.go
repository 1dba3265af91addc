package parser

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/tokens"
)

// ErrorReporter attaches usage hints to the parse errors of one macro grammar
type ErrorReporter struct {
	macro string
}

// NewErrorReporter creates a reporter for the named macro
func NewErrorReporter(macro string) *ErrorReporter {
	return &ErrorReporter{macro: macro}
}

// Report adds suggestions to a syntax error based on what the parser
// expected. Other errors are returned unchanged.
func (r *ErrorReporter) Report(err error) error {
	var syntaxErr *errors.SyntaxError
	if !stderrors.As(err, &syntaxErr) {
		return err
	}
	syntaxErr.WithContext("macro", r.macro)

	switch {
	case strings.Contains(syntaxErr.Expected, "`:`"):
		syntaxErr.WithSuggestions(
			"Delegation entries are written `Component: Provider`",
			"Group several components with brackets: `[FooComponent, BarComponent]: Provider`",
		)
	case strings.Contains(syntaxErr.Expected, "`{`"):
		syntaxErr.WithSuggestion(fmt.Sprintf("Wrap the entries in braces: `%s! { Target { FooComponent: FooProvider } }`", r.macro))
	case strings.Contains(syntaxErr.Expected, "`|`"):
		syntaxErr.WithSuggestion("Name the marker identifier between pipes: `[A, B], |Component| { .. }`")
	case strings.Contains(syntaxErr.Expected, "`[`"):
		syntaxErr.WithSuggestion("The replacement list must be bracketed: `[A, B], |Component| { .. }`")
	case strings.Contains(syntaxErr.Expected, "`>`"):
		syntaxErr.WithSuggestion("Check that every generic parameter list is closed")
	case strings.Contains(syntaxErr.Expected, "marker, source, target"):
		syntaxErr.WithSuggestion("delegate_all! takes three arguments: `delegate_all!(IsMyPreset, MyPreset, MyComponents);`")
	}
	return syntaxErr
}

// DiagnoseTable returns warnings about a delegation table that parses but
// produces conflicting implementations.
func DiagnoseTable(target tokens.Stream, table models.DelegateTable) []string {
	var diagnostics []string

	if len(table.Entries) == 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("Delegation table for `%s` is empty", target))
	}

	seen := make(map[string]tokens.Span)
	for _, spec := range table.AllComponents() {
		key := spec.Type.String()
		if first, ok := seen[key]; ok {
			diagnostics = append(diagnostics, fmt.Sprintf(
				"Component `%s` is delegated more than once for `%s` (first at %s); the generated impls will conflict",
				key, target, first.Location()))
			continue
		}
		seen[key] = spec.Type.Span()
	}

	for _, entry := range table.Entries {
		for _, spec := range entry.Components {
			if tokens.Equal(spec.Type, entry.Source) {
				diagnostics = append(diagnostics, fmt.Sprintf("Component `%s` is delegated to itself", spec.Type))
			}
		}
	}
	return diagnostics
}

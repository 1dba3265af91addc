package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	d := NewDiagnosticSystem(level)
	var out, errOut bytes.Buffer
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.showTime = false
	return d, &out, &errOut
}

func TestDiagnosticLevels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)
	d.Info("scanning %d files", 3)
	d.Verbose("hidden")
	d.Warn("`A` is delegated more than once")
	d.Error("lib.rs:3:1: expected `:`")

	assert.Contains(t, out.String(), "[INFO] scanning 3 files")
	assert.Contains(t, out.String(), "[WARN] `A` is delegated more than once")
	assert.NotContains(t, out.String(), "hidden")
	assert.Equal(t, "[ERROR] lib.rs:3:1: expected `:`\n", errOut.String())

	quiet, out, errOut := newTestDiagnostics(DiagnosticError)
	quiet.Info("hidden")
	quiet.Header("hidden")
	quiet.Error("shown")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "shown")
}

func TestDiagnosticPhasesAndSummary(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Header("Generating component wiring")
	d.PhaseHeader("Discovery")
	d.PhaseItem("2 tables registered")
	d.PhaseProgress("Writing src/autogen_lib.rs")
	d.PhaseProgress("Skipping src/util.rs")
	d.Indent()
	d.List("with_app")
	d.Unindent()
	d.Summary("Summary", map[string]interface{}{"files generated": 1, "cache hits": 0, "invocations": 4})
	d.GenerationComplete()

	text := out.String()
	assert.Contains(t, text, "cgpgen: Generating component wiring\n")
	assert.Contains(t, text, "Discovery:\n")
	assert.Contains(t, text, "✓ 2 tables registered\n")
	assert.Contains(t, text, "✏ Writing src/autogen_lib.rs\n")
	assert.Contains(t, text, "- Skipping src/util.rs\n")
	assert.Contains(t, text, "   cache hits: 0\n   files generated: 1\n   invocations: 4\n", "summary keys are sorted")
	assert.True(t, strings.HasSuffix(text, "cgpgen: Generation complete!\n"))
}

package utils

//go:generate mockgen -source=formatter.go -destination=mocks/formatter_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Formatter pretty-prints generated source
type Formatter interface {
	Format(ctx context.Context, source string) (string, error)
	Name() string
}

// FormatterFunc adapts a plain function into a Formatter
type FormatterFunc struct {
	Label string
	Fn    func(source string) (string, error)
}

// Format calls the wrapped function
func (f FormatterFunc) Format(_ context.Context, source string) (string, error) {
	return f.Fn(source)
}

// Name returns the label
func (f FormatterFunc) Name() string {
	return f.Label
}

// RustfmtFormatter runs `rustfmt --emit stdout` over the source
type RustfmtFormatter struct {
	Binary  string
	Edition string
	Timeout time.Duration
}

// NewRustfmtFormatter creates a formatter using rustfmt from PATH
func NewRustfmtFormatter() *RustfmtFormatter {
	return &RustfmtFormatter{Binary: "rustfmt", Edition: "2021", Timeout: 30 * time.Second}
}

// Name returns "rustfmt"
func (r *RustfmtFormatter) Name() string {
	return "rustfmt"
}

// Available reports whether the rustfmt binary can be found
func (r *RustfmtFormatter) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// Format pipes source through rustfmt
func (r *RustfmtFormatter) Format(ctx context.Context, source string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := []string{"--emit", "stdout", "--quiet"}
	if r.Edition != "" {
		args = append(args, "--edition", r.Edition)
	}
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stdin = strings.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return source, fmt.Errorf("rustfmt failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// FallbackFormatter tries Primary and falls back to Secondary on failure
type FallbackFormatter struct {
	Primary   Formatter
	Secondary Formatter
	// OnFallback is called with the primary's error before falling back
	OnFallback func(err error)
}

// Name returns the primary formatter's name
func (f *FallbackFormatter) Name() string {
	return f.Primary.Name()
}

// Format runs the primary formatter, then the secondary if it fails
func (f *FallbackFormatter) Format(ctx context.Context, source string) (string, error) {
	out, err := f.Primary.Format(ctx, source)
	if err == nil {
		return out, nil
	}
	if f.OnFallback != nil {
		f.OnFallback(err)
	}
	if f.Secondary == nil {
		return source, err
	}
	return f.Secondary.Format(ctx, source)
}

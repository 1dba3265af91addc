// Package expander finds CGP macro invocations in Rust source files and
// replaces them with their expansions.
package expander

import (
	"fmt"

	"github.com/toyz/cgp/internal/annotations"
	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/generator"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/registry"
	"github.com/toyz/cgp/internal/syntax"
	"github.com/toyz/cgp/internal/tokens"
)

// DefaultMaxDepth bounds how many times macro output is rescanned
const DefaultMaxDepth = 16

// Config controls an Expander
type Config struct {
	MaxDepth int                 // 0 selects DefaultMaxDepth
	Aliases  map[string][]string // canonical macro name -> names recognised in source
}

// Expander expands the macro invocations of whole source files. Tables and
// presets it expands are added to its registry, so that `with_*!`
// invocations later in the same file or in other files resolve.
type Expander struct {
	registry  registry.ComponentRegistryInterface
	generator generator.CodeGenerator
	attrs     *annotations.ParticipleParser
	macros    *macroTable
	maxDepth  int
}

// NewExpander creates an expander backed by reg. A nil registry is
// replaced by an empty one.
func NewExpander(reg registry.ComponentRegistryInterface, config Config) (*Expander, error) {
	if reg == nil {
		reg = registry.NewComponentRegistry()
	}
	return NewExpanderWithGenerator(reg, generator.NewGenerator(reg), config)
}

// NewExpanderWithGenerator creates an expander that delegates each
// invocation to gen
func NewExpanderWithGenerator(reg registry.ComponentRegistryInterface, gen generator.CodeGenerator, config Config) (*Expander, error) {
	macros, err := newMacroTable(config.Aliases)
	if err != nil {
		return nil, errors.WrapConfigurationError("macros", "load", err)
	}
	depth := config.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Expander{
		registry:  reg,
		generator: gen,
		attrs:     annotations.DefaultParser(),
		macros:    macros,
		maxDepth:  depth,
	}, nil
}

// Registry returns the registry the expander resolves `with_*!` against
func (e *Expander) Registry() registry.ComponentRegistryInterface {
	return e.registry
}

// run collects the outcome of one file expansion
type run struct {
	result *models.ExpansionResult
	errs   *errors.MultipleErrors
}

func (r *run) fail(err error) {
	errors.AddToMultiple(&r.errs, errors.AsCGPError(err))
}

// ExpandFile lexes src and expands every invocation in it. The result is
// returned even when some invocations fail; failing invocations keep their
// source text and their errors are returned together as a MultipleErrors.
func (e *Expander) ExpandFile(path, src string) (*models.ExpansionResult, error) {
	stream, err := tokens.Lex(path, src)
	if err != nil {
		return nil, err
	}
	return e.ExpandStream(path, stream)
}

// ExpandStream is ExpandFile for already lexed input
func (e *Expander) ExpandStream(path string, stream tokens.Stream) (*models.ExpansionResult, error) {
	r := &run{result: &models.ExpansionResult{File: path}}
	r.result.Output = e.expandItems(stream, 0, r)
	r.result.Changed = len(r.result.Invocations) > 0
	return r.result, r.errs.ErrOrNil()
}

// expandItems expands a sequence of items, such as a file or module body
func (e *Expander) expandItems(s tokens.Stream, depth int, r *run) tokens.Stream {
	c := tokens.NewCursor(s, tokens.Span{})
	out := syntax.AttrsTokens(syntax.ParseInnerAttributes(c))
	for _, item := range syntax.SplitItems(c.Remaining()) {
		out = append(out, e.expandItem(item, depth, r)...)
	}
	return out
}

func (e *Expander) expandItem(item syntax.Item, depth int, r *run) tokens.Stream {
	inv, ok, err := e.attributeInvocation(item)
	if err != nil {
		r.fail(err)
		return item.Tokens()
	}
	if ok {
		return e.invoke(inv, item.Tokens(), depth, r, e.expandItems)
	}

	if call, ok := item.AsMacroCall(); ok {
		if kind, ok := e.itemMacro(call.Name); ok {
			inv := models.Invocation{Kind: kind, Name: call.Name, Body: call.Body, Span: item.Span}
			expanded := e.invoke(inv, item.Stream, depth, r, e.expandItems)
			return append(syntax.AttrsTokens(item.Attrs), expanded...)
		}
	}

	if head, body, ok := splitModule(item.Stream); ok {
		body.Stream = e.expandItems(body.Stream, depth, r)
		out := syntax.AttrsTokens(item.Attrs)
		out = append(out, head...)
		return append(out, body)
	}

	return append(syntax.AttrsTokens(item.Attrs), e.expandInline(item.Stream, depth, r)...)
}

// itemMacro resolves a macro name used in item position
func (e *Expander) itemMacro(name string) (models.MacroKind, bool) {
	if kind, ok := e.macros.items[name]; ok {
		return kind, true
	}
	if kind, ok := e.macros.inline[name]; ok {
		return kind, true
	}
	if e.registry.HasMacro(name) {
		return models.MacroKindSubstitution, true
	}
	return 0, false
}

// expandInline expands type and expression macros anywhere in s
func (e *Expander) expandInline(s tokens.Stream, depth int, r *run) tokens.Stream {
	out := make(tokens.Stream, 0, len(s))
	for i := 0; i < len(s); i++ {
		t := s[i]
		if t.Kind == tokens.KindIdent && i+2 < len(s) && s[i+1].IsPunct('!') && s[i+2].Kind == tokens.KindGroup {
			if kind, ok := e.macros.inline[t.Text]; ok {
				var prefix tokens.Stream
				out, prefix = trimPathPrefix(out)
				original := append(prefix, s[i:i+3]...)
				inv := models.Invocation{Kind: kind, Name: t.Text, Body: s[i+2].Stream, Span: t.Span}
				out = append(out, e.invoke(inv, original, depth, r, e.expandInline)...)
				i += 2
				continue
			}
		}
		if t.Kind == tokens.KindGroup {
			t.Stream = e.expandInline(t.Stream, depth, r)
		}
		out = append(out, t)
	}
	return out
}

// invoke expands inv and rescans its output with rescan one level deeper.
// On failure the original tokens are kept.
func (e *Expander) invoke(inv models.Invocation, original tokens.Stream, depth int, r *run, rescan func(tokens.Stream, int, *run) tokens.Stream) tokens.Stream {
	if depth >= e.maxDepth {
		err := errors.NewExpansionDepthError(e.maxDepth, inv.Kind.String())
		err.WithLocation(inv.Span.Location())
		r.fail(err)
		return original
	}

	inv.Depth = depth
	generated, err := e.generator.Generate(inv)
	if err != nil {
		r.fail(err)
		return original
	}

	r.result.Invocations = append(r.result.Invocations, inv)
	for _, w := range generated.Warnings {
		r.result.Warnings = append(r.result.Warnings, fmt.Sprintf("%s: %s", inv.Span.Location(), w))
	}
	for _, entry := range generated.Registered {
		if err := e.registry.Register(entry); err != nil {
			r.fail(err)
			continue
		}
		r.result.Registered = append(r.result.Registered, entry)
	}
	return rescan(generated.Tokens, depth+1, r)
}

// splitModule splits `[pub] mod name { .. }` into its header and body
func splitModule(s tokens.Stream) (tokens.Stream, tokens.Tree, bool) {
	i := 0
	if i < len(s) && s[i].IsIdent("pub") {
		i++
		if i < len(s) && s[i].IsGroup(tokens.DelimParen) {
			i++
		}
	}
	if i+3 != len(s) || !s[i].IsIdent("mod") || s[i+1].Kind != tokens.KindIdent || !s[i+2].IsGroup(tokens.DelimBrace) {
		return nil, tokens.Tree{}, false
	}
	return s[:i+2], s[i+2], true
}

// trimPathPrefix removes a trailing `a::b::` path prefix from out, which
// belongs to the macro name that follows it
func trimPathPrefix(out tokens.Stream) (tokens.Stream, tokens.Stream) {
	n := len(out)
	for n >= 2 && out[n-1].IsPunct(':') && out[n-2].IsPunct(':') {
		if n >= 3 && out[n-3].Kind == tokens.KindIdent {
			n -= 3
			continue
		}
		n -= 2
		break
	}
	prefix := append(tokens.Stream(nil), out[n:]...)
	return out[:n], prefix
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/expander"
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/registry"
	"github.com/toyz/cgp/internal/tokens"
	"github.com/toyz/cgp/internal/utils"
)

// CachedExpansion is the cache record of one expanded file
type CachedExpansion struct {
	Output      string   `msgpack:"output"`
	Invocations int      `msgpack:"invocations"`
	Registered  int      `msgpack:"registered"`
	Warnings    []string `msgpack:"warnings"`
	Changed     bool     `msgpack:"changed"`
}

// Generator coordinates the CLI generation process
type Generator struct {
	config        Config
	fileProcessor *utils.FileProcessor
	scanner       *DirectoryScanner
	manifests     *utils.CargoManifestParser
	registry      *registry.ComponentRegistry
	formatter     utils.Formatter
	cache         *utils.DiskCache[CachedExpansion]
	reporter      *DiagnosticReporter
	diagnostics   *utils.DiagnosticSystem
	stdout        io.Writer
	summary       GenerationSummary
}

// NewGenerator creates a generator for config. Progress goes to diagnostics.
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapConfigurationError("generator", "validate", err)
	}
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}

	fp := utils.NewFileProcessorWithReader(utils.NewFileReader(), config.OutputPrefix, config.SkipDirs)
	g := &Generator{
		config:        config,
		fileProcessor: fp,
		scanner:       NewDirectoryScannerWithProcessor(fp),
		manifests:     utils.NewCargoManifestParser(fp.GetFileReader()),
		registry:      registry.NewComponentRegistry(),
		reporter:      NewDiagnosticReporter(config.Verbose),
		diagnostics:   diagnostics,
		stdout:        os.Stdout,
	}
	g.formatter = g.defaultFormatter()

	if config.CacheDir != "" {
		cache, err := utils.NewDiskCache[CachedExpansion](config.CacheDir)
		if err != nil {
			return nil, errors.WrapFileSystemError("open cache", config.CacheDir, err)
		}
		g.cache = cache
	}
	return g, nil
}

// builtinFormatter re-prints source with the token printer
var builtinFormatter = utils.FormatterFunc{
	Label: "builtin",
	Fn: func(source string) (string, error) {
		stream, err := tokens.Lex("", source)
		if err != nil {
			return source, err
		}
		return tokens.Format(stream), nil
	},
}

func (g *Generator) defaultFormatter() utils.Formatter {
	if !g.config.Rustfmt {
		return nil
	}
	warned := false
	return &utils.FallbackFormatter{
		Primary:   utils.NewRustfmtFormatter(),
		Secondary: builtinFormatter,
		OnFallback: func(err error) {
			if !warned {
				warned = true
				g.reporter.ReportWarning(errors.WrapFormatterError("rustfmt", err).Error(),
					"falling back to the builtin printer")
			}
		},
	}
}

// SetFormatter replaces the formatter applied to generated files. A nil
// formatter keeps the printer output as is.
func (g *Generator) SetFormatter(f utils.Formatter) {
	g.formatter = f
}

// SetOutput redirects -stdout expansions and error reports
func (g *Generator) SetOutput(stdout, stderr io.Writer) {
	g.stdout = stdout
	g.reporter = NewDiagnosticReporterWithOutput(g.config.Verbose, stderr)
}

// Registry returns the registry filled by the last run
func (g *Generator) Registry() *registry.ComponentRegistry {
	return g.registry
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Reporter returns the reporter used for warnings and errors
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// sourceFile is a scanned file and its contents
type sourceFile struct {
	path string
	src  string
}

// Run scans the configured directories, registers every component table
// and preset, then expands each file. Files that fail keep no output;
// their errors are returned together once all files were processed.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}
	g.registry.Clear()

	if err := g.config.CheckVersion(Version); err != nil {
		return err
	}

	g.diagnostics.Header(fmt.Sprintf("Rust CGP component generator %s", Version))
	g.diagnostics.Debug("Scanning targets: %v", g.config.Directories)

	files, err := g.scanner.ScanFiles(g.config.Directories)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New(errors.FileSystemErrorCode, "no Rust source files found").
			WithContext("targets", strings.Join(g.config.Directories, " ")).
			WithSuggestions(
				"use `dir/...` to scan subdirectories",
				fmt.Sprintf("generated files (%s*.rs) and skipped directories are ignored", g.config.OutputPrefix),
			)
	}
	g.summary.FilesScanned = len(files)

	var errs *errors.MultipleErrors
	sources := g.readSources(files, &errs)

	exp, err := expander.NewExpander(g.registry, g.config.ExpanderConfig())
	if err != nil {
		return err
	}

	g.diagnostics.PhaseHeader("Discovery")
	g.discover(exp, sources)

	g.diagnostics.PhaseHeader("Expansion")
	registryFingerprint := RegistryFingerprint(g.registry)
	configFingerprint := g.config.Fingerprint()
	for _, file := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.processFile(ctx, exp, file, registryFingerprint, configFingerprint); err != nil {
			errors.AddToMultiple(&errs, errors.AsCGPError(err))
		}
	}

	if g.cache != nil {
		hits, _ := g.cache.Stats()
		g.summary.CacheHits = int(hits)
	}

	g.diagnostics.Summary("Summary", g.summary.Stats())
	g.diagnostics.Verbose("Generation finished in %v", time.Since(startTime).Round(time.Millisecond))
	if errs.ErrOrNil() == nil {
		g.diagnostics.GenerationComplete()
	}
	return errs.ErrOrNil()
}

// Discover scans the configured directories and registers their component
// tables and presets without expanding or writing anything
func (g *Generator) Discover(ctx context.Context) (*registry.ComponentRegistry, error) {
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}
	g.registry.Clear()

	files, err := g.scanner.ScanFiles(g.config.Directories)
	if err != nil {
		return nil, err
	}
	g.summary.FilesScanned = len(files)

	var errs *errors.MultipleErrors
	sources := g.readSources(files, &errs)
	exp, err := expander.NewExpander(g.registry, g.config.ExpanderConfig())
	if err != nil {
		return nil, err
	}
	for _, file := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := exp.Discover(file.path, file.src)
		if err != nil {
			errors.AddToMultiple(&errs, errors.AsCGPError(err))
		}
		g.countEntries(entries)
	}
	return g.registry, errs.ErrOrNil()
}

func (g *Generator) readSources(files []string, errs **errors.MultipleErrors) []sourceFile {
	reader := g.fileProcessor.GetFileReader()
	sources := make([]sourceFile, 0, len(files))
	for _, path := range files {
		src, err := reader.ReadFile(path)
		if err != nil {
			errors.AddToMultiple(errs, errors.WrapFileSystemError("read", path, err))
			continue
		}
		sources = append(sources, sourceFile{path: path, src: src})
	}
	return sources
}

// discover registers the substitution macros of every file before any
// file is expanded. Failures are reported again by the expansion of the
// same file, so here they are only logged.
func (g *Generator) discover(exp *expander.Expander, sources []sourceFile) {
	for _, file := range sources {
		entries, err := exp.Discover(file.path, file.src)
		if err != nil {
			g.diagnostics.Debug("discovery of %s: %v", file.path, err)
		}
		g.countEntries(entries)
	}
}

func (g *Generator) countEntries(entries []models.RegistryEntry) {
	for _, entry := range entries {
		if entry.IsPreset {
			g.summary.PresetsRegistered++
		} else {
			g.summary.ComponentsRegistered++
		}
		g.diagnostics.PhaseItem(fmt.Sprintf("%s! (%s, %d components)", entry.MacroName, entry.SourceFile, len(entry.Components)))
	}
}

// processFile expands one file and writes or prints the result
func (g *Generator) processFile(ctx context.Context, exp *expander.Expander, file sourceFile, registryFingerprint, configFingerprint string) error {
	key := utils.ContentHash(Version, file.path, file.src, registryFingerprint, configFingerprint)

	expansion, err := g.expand(ctx, exp, file, key)
	if err != nil {
		return err
	}
	g.summary.Invocations += expansion.Invocations
	for _, warning := range expansion.Warnings {
		g.reporter.ReportWarning(fmt.Sprintf("%s: %s", file.path, warning))
	}

	outputPath := g.fileProcessor.OutputPath(file.path)
	if !expansion.Changed {
		return g.removeStale(outputPath)
	}

	content := g.fileHeader(file.path, key) + expansion.Output
	if g.config.Stdout {
		fmt.Fprintf(g.stdout, "// ==> %s <==\n%s\n", outputPath, content)
		g.summary.FilesGenerated++
		return nil
	}

	reader := g.fileProcessor.GetFileReader()
	if existing, err := reader.ReadFile(outputPath); err == nil && existing == content {
		g.summary.FilesUnchanged++
		g.diagnostics.PhaseProgress(fmt.Sprintf("Unchanged %s", outputPath))
		return nil
	}
	g.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s (%d invocations)", outputPath, expansion.Invocations))
	if err := reader.WriteFile(outputPath, content); err != nil {
		return errors.WrapFileSystemError("write", outputPath, err).
			WithSuggestion("check write permissions for the target directory")
	}
	g.summary.FilesGenerated++
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, outputPath)
	return nil
}

// expand returns the formatted expansion of file, from the cache when the
// same source was expanded against the same registry and configuration
func (g *Generator) expand(ctx context.Context, exp *expander.Expander, file sourceFile, key string) (CachedExpansion, error) {
	if g.cache != nil {
		if cached, ok := g.cache.Get(key); ok {
			g.diagnostics.Debug("cache hit for %s", file.path)
			return cached, nil
		}
	}

	result, err := exp.ExpandFile(file.path, file.src)
	if err != nil {
		return CachedExpansion{}, err
	}

	expansion := summarize(result)
	if expansion.Changed {
		expansion.Output = tokens.Format(result.Output)
		if g.formatter != nil {
			formatted, err := g.formatter.Format(ctx, expansion.Output)
			if err != nil {
				return CachedExpansion{}, errors.WrapFormatterError(g.formatter.Name(), err).
					WithLocation(errors.SourceLocation{File: file.path})
			}
			expansion.Output = formatted
		}
	}

	if g.cache != nil {
		if err := g.cache.Put(key, expansion); err != nil {
			g.diagnostics.Warn("could not cache %s: %v", file.path, err)
		}
	}
	return expansion, nil
}

func summarize(result *models.ExpansionResult) CachedExpansion {
	return CachedExpansion{
		Invocations: len(result.Invocations),
		Registered:  len(result.Registered),
		Warnings:    result.Warnings,
		Changed:     result.Changed,
	}
}

// removeStale deletes the output of a file that no longer has invocations
func (g *Generator) removeStale(outputPath string) error {
	if g.config.Stdout {
		return nil
	}
	if err := os.Remove(outputPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapFileSystemError("remove", outputPath, err)
	}
	g.fileProcessor.GetFileReader().InvalidateFile(outputPath)
	g.summary.FilesRemoved++
	g.diagnostics.PhaseProgress(fmt.Sprintf("Removed stale %s", outputPath))
	return nil
}

// fileHeader is the comment block written at the top of generated files.
// The generation id is derived from the cache key so that unchanged input
// produces byte-identical output.
func (g *Generator) fileHeader(sourcePath, key string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by cgpgen %s. DO NOT EDIT.\n", Version)
	fmt.Fprintf(&b, "// source: %s\n", filepath.Base(sourcePath))
	if _, manifest, err := g.manifests.FindManifest(filepath.Dir(sourcePath)); err == nil {
		fmt.Fprintf(&b, "// crate: %s\n", manifest.Package.Name)
	}
	fmt.Fprintf(&b, "// generation: %s\n\n", uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourcePath+"#"+key)))
	return b.String()
}

// RegistryFingerprint identifies the registered macros and their component
// lists
func RegistryFingerprint(reg *registry.ComponentRegistry) string {
	var parts []string
	for _, name := range reg.ListMacros() {
		entry, _ := reg.Lookup(name)
		parts = append(parts, name, entry.Marker, entry.SourceFile)
		for _, component := range entry.Components {
			parts = append(parts, component.String())
		}
	}
	return utils.ContentHash(parts...)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/toyz/cgp/internal/cli"
	"github.com/toyz/cgp/internal/server"
	"github.com/toyz/cgp/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// options are the parsed command-line flags
type options struct {
	configPath string
	verbose    bool
	quiet      bool
	clean      bool
	rustfmt    bool
	stdout     bool
	serve      string
	cacheDir   string
	version    bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("cgpgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file (defaults to "+cli.DefaultConfigFile+" when present)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only show errors and final results")
	fs.BoolVar(&opts.clean, "clean", false, "Delete all generated autogen_*.rs files from the specified paths")
	fs.BoolVar(&opts.rustfmt, "rustfmt", false, "Format generated files with rustfmt, falling back to the builtin printer")
	fs.BoolVar(&opts.stdout, "stdout", false, "Print expansions to stdout instead of writing files")
	fs.StringVar(&opts.serve, "serve", "", "Serve expansions over HTTP on `addr` instead of generating files")
	fs.StringVar(&opts.cacheDir, "cache", "", "Cache expansions in `dir` between runs")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cgpgen [options] <paths...>\n\n")
		fmt.Fprintf(stderr, "Rust CGP Component Generator\n")
		fmt.Fprintf(stderr, "Expands cgp component, delegation and preset macros in .rs files into autogen_<name>.rs files.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nPath Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan the current directory and all subdirectories\n")
		fmt.Fprintf(stderr, "  ./src/...          Scan src and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./src/components   Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "  ./src/lib.rs       Expand a single file\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  cgpgen ./...                      # Generate for the whole crate\n")
		fmt.Fprintf(stderr, "  cgpgen -stdout ./src/lib.rs       # Print the expansion of one file\n")
		fmt.Fprintf(stderr, "  cgpgen -cache .cgpcache ./...     # Reuse expansions of unchanged files\n")
		fmt.Fprintf(stderr, "  cgpgen -clean ./...               # Delete all generated files\n")
		fmt.Fprintf(stderr, "  cgpgen -serve :8080 ./src/...     # Serve expansions using the crate's tables\n")
	}
	return fs
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "cgpgen %s\n", cli.Version)
		return 0
	}

	paths := fs.Args()
	if len(paths) == 0 && opts.serve == "" {
		fmt.Fprintf(stderr, "Error: At least one path is required\n\n")
		fs.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case opts.quiet || opts.stdout:
		diagnostics = utils.NewQuietDiagnostics()
	case opts.verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	config, err := loadConfig(opts)
	if err != nil {
		cli.NewDiagnosticReporterWithOutput(opts.verbose, stderr).ReportError(err)
		return 1
	}
	config.Directories = paths

	if opts.verbose {
		diagnostics.Category("Configuration")
		diagnostics.List("Targets: %s", strings.Join(paths, ", "))
		diagnostics.List("Max depth: %d", config.MaxDepth)
		diagnostics.List("Output prefix: %s", config.OutputPrefix)
		if config.CacheDir != "" {
			diagnostics.List("Cache: %s", config.CacheDir)
		}
	}

	if opts.clean {
		return runClean(config, diagnostics, stderr)
	}

	generator, err := cli.NewGenerator(config, diagnostics)
	if err != nil {
		cli.NewDiagnosticReporterWithOutput(opts.verbose, stderr).ReportError(err)
		return 1
	}
	generator.SetOutput(stdout, stderr)

	if opts.serve != "" {
		return runServe(ctx, opts.serve, config, generator, diagnostics, stderr)
	}

	if err := generator.Run(ctx); err != nil {
		generator.Reporter().ReportError(err)
		return 1
	}
	if opts.verbose {
		generator.Reporter().ReportSuccess(generator.GetSummary())
	}
	return 0
}

// loadConfig reads the config file and overlays the command-line flags
func loadConfig(opts options) (cli.Config, error) {
	var (
		config cli.Config
		err    error
	)
	if opts.configPath != "" {
		config, err = cli.LoadConfig(opts.configPath)
	} else {
		config, _, err = cli.LoadDefaultConfig()
	}
	if err != nil {
		return cli.Config{}, err
	}

	config.Verbose = config.Verbose || opts.verbose
	config.Rustfmt = config.Rustfmt || opts.rustfmt
	config.Stdout = opts.stdout
	if opts.cacheDir != "" {
		config.CacheDir = opts.cacheDir
	}
	return config, nil
}

func runClean(config cli.Config, diagnostics *utils.DiagnosticSystem, stderr io.Writer) int {
	fp := utils.NewFileProcessorWithReader(utils.NewFileReader(), config.OutputPrefix, config.SkipDirs)
	removed, err := cli.NewCleanerWithProcessor(fp).CleanGeneratedFiles(config.Directories)
	for _, file := range removed {
		diagnostics.Verbose("Removed %s", file)
	}
	if err != nil {
		cli.NewDiagnosticReporterWithOutput(config.Verbose, stderr).ReportError(err)
		return 1
	}
	diagnostics.Success("Removed %d generated files", len(removed))
	return 0
}

// runServe discovers the tables of the given paths, then serves expansions
// against them until ctx is cancelled
func runServe(ctx context.Context, addr string, config cli.Config, generator *cli.Generator, diagnostics *utils.DiagnosticSystem, stderr io.Writer) int {
	base := generator.Registry()
	if len(config.Directories) > 0 {
		var err error
		base, err = generator.Discover(ctx)
		if err != nil {
			generator.Reporter().ReportError(err)
			return 1
		}
		diagnostics.Info("Loaded %d substitution macros", base.Size())
	}

	srv := server.NewServer(server.ServerConfig{
		Addr:         addr,
		Expander:     config.ExpanderConfig(),
		EnableLogger: config.Verbose,
	}, base, diagnostics)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/tools/txtar"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/utils"
	"github.com/toyz/cgp/internal/utils/mocks"
)

// fixture is a txtar archive extracted into a temporary crate. The `expect`
// file lists assertions about the tree after generation, one per line:
//
//	exists <path>
//	missing <path>
//	contains <path> <text>
type fixture struct {
	root   string
	expect []string
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	archive, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	f := fixture{root: t.TempDir()}
	for _, file := range archive.Files {
		if file.Name == "expect" {
			for _, line := range strings.Split(string(file.Data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					f.expect = append(f.expect, line)
				}
			}
			continue
		}
		path := filepath.Join(f.root, filepath.FromSlash(file.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, file.Data, 0o644))
	}
	return f
}

func (f fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f fixture) check(t *testing.T) {
	t.Helper()
	for _, line := range f.expect {
		op, rest, _ := strings.Cut(line, " ")
		switch op {
		case "exists":
			assert.FileExists(t, f.path(rest))
		case "missing":
			assert.NoFileExists(t, f.path(rest))
		case "contains":
			rel, text, _ := strings.Cut(rest, " ")
			data, err := os.ReadFile(f.path(rel))
			if assert.NoError(t, err, line) {
				assert.Contains(t, string(data), text, "%s\n%s", line, data)
			}
		default:
			t.Fatalf("unknown expectation %q", line)
		}
	}
}

func newFixtureGenerator(t *testing.T, f fixture, mutate func(*Config)) *Generator {
	t.Helper()
	config := DefaultConfig()
	config.Directories = []string{f.root + "/..."}
	if mutate != nil {
		mutate(&config)
	}
	g, err := NewGenerator(config, nil)
	require.NoError(t, err)
	g.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	return g
}

func TestGenerateFixture(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, nil)

	require.NoError(t, g.Run(context.Background()))
	f.check(t)

	summary := g.GetSummary()
	assert.Equal(t, 3, summary.FilesScanned)
	assert.Equal(t, 2, summary.FilesGenerated)
	assert.Equal(t, 1, summary.FilesRemoved)
	assert.Equal(t, 1, summary.ComponentsRegistered)
	assert.Zero(t, summary.PresetsRegistered)
	assert.GreaterOrEqual(t, summary.Invocations, 3)
	assert.True(t, g.Registry().HasMacro("with_app_components"))
}

func TestGenerateIsDeterministic(t *testing.T) {
	f := loadFixture(t, "generate.txtar")

	first := newFixtureGenerator(t, f, nil)
	require.NoError(t, first.Run(context.Background()))
	before, err := os.ReadFile(f.path("src/autogen_lib.rs"))
	require.NoError(t, err)

	second := newFixtureGenerator(t, f, nil)
	require.NoError(t, second.Run(context.Background()))
	after, err := os.ReadFile(f.path("src/autogen_lib.rs"))
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after))
	assert.Zero(t, second.GetSummary().FilesGenerated)
	assert.Equal(t, 2, second.GetSummary().FilesUnchanged)
}

func TestGenerateReportsAllErrors(t *testing.T) {
	f := loadFixture(t, "errors.txtar")
	g := newFixtureGenerator(t, f, nil)

	err := g.Run(context.Background())
	require.Error(t, err)
	f.check(t)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.SyntaxErrorCode))
	assert.Equal(t, 1, g.GetSummary().FilesGenerated)
}

func TestGenerateStdout(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, func(c *Config) { c.Stdout = true })
	var out bytes.Buffer
	g.SetOutput(&out, &bytes.Buffer{})

	require.NoError(t, g.Run(context.Background()))
	assert.Contains(t, out.String(), "// ==> "+f.path("src/autogen_lib.rs"))
	assert.Contains(t, out.String(), "pub trait NameGetter<Context>")
	assert.NoFileExists(t, f.path("src/autogen_lib.rs"))
	assert.FileExists(t, f.path("src/autogen_plain.rs"), "stdout mode leaves files alone")
}

func TestGenerateUsesCache(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	cacheDir := filepath.Join(t.TempDir(), "cache")
	withCache := func(c *Config) { c.CacheDir = cacheDir }

	first := newFixtureGenerator(t, f, withCache)
	require.NoError(t, first.Run(context.Background()))
	assert.Zero(t, first.GetSummary().CacheHits)

	second := newFixtureGenerator(t, f, withCache)
	require.NoError(t, second.Run(context.Background()))
	assert.Equal(t, 3, second.GetSummary().CacheHits)
	assert.Equal(t, first.GetSummary().Invocations, second.GetSummary().Invocations)
	f.check(t)
}

func TestGenerateCacheKeyFollowsRegistry(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	cacheDir := filepath.Join(t.TempDir(), "cache")
	withCache := func(c *Config) { c.CacheDir = cacheDir }

	require.NoError(t, newFixtureGenerator(t, f, withCache).Run(context.Background()))

	lib := f.path("src/lib.rs")
	data, err := os.ReadFile(lib)
	require.NoError(t, err)
	updated := strings.Replace(string(data), "NameGetterComponent: UseName,", "NameGetterComponent: UseName,\n        AgeGetterComponent: UseAge,", 1)
	require.NoError(t, os.WriteFile(lib, []byte(updated), 0o644))

	g := newFixtureGenerator(t, f, withCache)
	require.NoError(t, g.Run(context.Background()))
	assert.Zero(t, g.GetSummary().CacheHits, "a changed table invalidates every file")

	consumer, err := os.ReadFile(f.path("src/autogen_consumer.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(consumer), "impl Check<AgeGetterComponent> for App")
}

func TestGenerateWithFormatter(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, nil)

	ctrl := gomock.NewController(t)
	formatter := mocks.NewMockFormatter(ctrl)
	formatter.EXPECT().Format(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, source string) (string, error) {
			return "// formatted\n" + source, nil
		}).Times(2)
	g.SetFormatter(formatter)

	require.NoError(t, g.Run(context.Background()))
	data, err := os.ReadFile(f.path("src/autogen_consumer.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "// formatted\n")
}

func TestGenerateFormatterFailure(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, nil)

	ctrl := gomock.NewController(t)
	formatter := mocks.NewMockFormatter(ctrl)
	formatter.EXPECT().Format(gomock.Any(), gomock.Any()).Return("", stderrors.New("exit status 1")).AnyTimes()
	formatter.EXPECT().Name().Return("rustfmt").AnyTimes()
	g.SetFormatter(formatter)

	err := g.Run(context.Background())
	require.Error(t, err)
	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	assert.True(t, multi.HasCode(errors.FormatterErrorCode))
}

func TestGenerateFallsBackToBuiltinFormatter(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, nil)
	var stderr bytes.Buffer
	g.SetOutput(&bytes.Buffer{}, &stderr)

	missing := utils.NewRustfmtFormatter()
	missing.Binary = filepath.Join(t.TempDir(), "no-rustfmt")
	var fallbacks int
	g.SetFormatter(&utils.FallbackFormatter{
		Primary:    missing,
		Secondary:  builtinFormatter,
		OnFallback: func(error) { fallbacks++ },
	})

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, 2, fallbacks)
	f.check(t)
}

func TestGenerateNoSources(t *testing.T) {
	config := DefaultConfig()
	config.Directories = []string{t.TempDir()}
	g, err := NewGenerator(config, nil)
	require.NoError(t, err)

	err = g.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.AsCGPError(err).ErrorCode())
	assert.NotEmpty(t, errors.AsCGPError(err).Suggestions())
}

func TestGenerateMinVersion(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, func(c *Config) { c.MinVersion = "v99.0.0" })

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.AsCGPError(err).ErrorCode())
	assert.NoFileExists(t, f.path("src/autogen_lib.rs"))
}

func TestGenerateCancelled(t *testing.T) {
	f := loadFixture(t, "generate.txtar")
	g := newFixtureGenerator(t, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
}

func TestNewGeneratorRejectsInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.MaxDepth = 0
	_, err := NewGenerator(config, nil)
	require.Error(t, err)
	var validation utils.ValidationError
	require.True(t, stderrors.As(err, &validation))
	assert.Equal(t, "max_depth", validation.Field)
}

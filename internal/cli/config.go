package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/expander"
	"github.com/toyz/cgp/internal/utils"
)

// Version is the generator version checked against min_version
const Version = "v0.4.2"

// DefaultConfigFile is loaded when present and no -config flag is given
const DefaultConfigFile = "cgp.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan; `dir/...` scans recursively
	Directories []string `yaml:"-"`

	// MinVersion is the lowest generator version allowed to process the crate
	MinVersion string `yaml:"min_version"`

	// MaxDepth bounds how often macro output is rescanned
	MaxDepth int `yaml:"max_depth"`

	// OutputPrefix is prepended to the stem of each generated file
	OutputPrefix string `yaml:"output_prefix"`

	// Rustfmt pipes generated files through rustfmt
	Rustfmt bool `yaml:"rustfmt"`

	// CacheDir enables the on-disk expansion cache when set
	CacheDir string `yaml:"cache_dir"`

	// SkipDirs are directory names never scanned
	SkipDirs []string `yaml:"skip_dirs"`

	// Macros renames recognised macros, keyed by canonical name
	Macros map[string][]string `yaml:"macros"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"verbose"`

	// Stdout prints expansions instead of writing files
	Stdout bool `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		MaxDepth:     expander.DefaultMaxDepth,
		OutputPrefix: utils.DefaultOutputPrefix,
		SkipDirs:     append([]string(nil), utils.DefaultSkipDirs...),
	}
}

// LoadConfig reads a YAML config file over the defaults. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapConfigurationError(path, "read", err)
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes YAML config data over the defaults
func ParseConfig(name string, data []byte) (Config, error) {
	config := DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return Config{}, errors.WrapConfigurationError(name, "parse", err).
			WithSuggestion("valid keys: min_version, max_depth, output_prefix, rustfmt, cache_dir, skip_dirs, macros, verbose")
	}

	if err := config.Validate(); err != nil {
		return Config{}, errors.WrapConfigurationError(name, "validate", err)
	}
	return config, nil
}

// LoadDefaultConfig loads cgp.yaml from the working directory if it exists
func LoadDefaultConfig() (Config, bool, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return DefaultConfig(), false, nil
	}
	config, err := LoadConfig(DefaultConfigFile)
	return config, err == nil, err
}

// Validate checks field values
func (c Config) Validate() error {
	if err := utils.InRange("max_depth", 1, 1024)(c.MaxDepth); err != nil {
		return err
	}
	if err := utils.ValidateOutputPrefix("output_prefix")(c.OutputPrefix); err != nil {
		return err
	}
	if err := utils.Conditional(func(v string) bool { return v != "" },
		utils.Custom("min_version", "must be a semantic version such as v0.4.0", func(v string) bool {
			return semver.IsValid(canonicalVersion(v))
		}))(c.MinVersion); err != nil {
		return err
	}
	for _, canonical := range sortedKeys(c.Macros) {
		names := c.Macros[canonical]
		if err := utils.SliceNotEmpty[string]("macros." + canonical)(names); err != nil {
			return err
		}
		if err := utils.ValidateEach("macros."+canonical, utils.ValidateMacroName("name"))(names); err != nil {
			return err
		}
	}
	return nil
}

// CheckVersion fails when the running generator is older than min_version
func (c Config) CheckVersion(running string) error {
	if c.MinVersion == "" {
		return nil
	}
	if semver.Compare(canonicalVersion(running), canonicalVersion(c.MinVersion)) < 0 {
		return errors.ConfigurationError("min_version",
			fmt.Sprintf("cgpgen %s is older than the required %s", running, c.MinVersion)).
			WithSuggestion("upgrade cgpgen or lower min_version")
	}
	return nil
}

// ExpanderConfig returns the expander settings of the configuration
func (c Config) ExpanderConfig() expander.Config {
	return expander.Config{MaxDepth: c.MaxDepth, Aliases: c.Macros}
}

// Fingerprint identifies the settings that change expansion output
func (c Config) Fingerprint() string {
	parts := []string{fmt.Sprint(c.MaxDepth), fmt.Sprint(c.Rustfmt)}
	for _, canonical := range sortedKeys(c.Macros) {
		parts = append(parts, canonical+"="+strings.Join(c.Macros[canonical], ","))
	}
	return utils.ContentHash(parts...)
}

// canonicalVersion accepts versions written without the leading v
func canonicalVersion(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

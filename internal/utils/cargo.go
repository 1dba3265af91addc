package utils

import (
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// CargoManifest is the part of a Cargo.toml the generator reads
type CargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	} `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

// DependsOn reports whether the manifest lists the named dependency
func (m *CargoManifest) DependsOn(name string) bool {
	_, ok := m.Dependencies[name]
	return ok
}

// CargoManifestParser locates and reads Cargo.toml files
type CargoManifestParser struct {
	fileReader *FileReader
}

// NewCargoManifestParser creates a new parser sharing the reader's cache
func NewCargoManifestParser(fileReader *FileReader) *CargoManifestParser {
	return &CargoManifestParser{fileReader: fileReader}
}

// Parse reads a Cargo.toml file
func (p *CargoManifestParser) Parse(manifestPath string) (*CargoManifest, error) {
	cleanPath := filepath.Clean(manifestPath)
	if filepath.Base(cleanPath) != "Cargo.toml" {
		return nil, fmt.Errorf("file is not a Cargo.toml file: %s", manifestPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return nil, WrapLoadError("Cargo.toml", err)
	}

	var manifest CargoManifest
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, WrapParseError("Cargo.toml", err)
	}
	return &manifest, nil
}

// FindManifest searches for Cargo.toml from startDir upwards. Workspace
// manifests without a [package] table are skipped.
func (p *CargoManifestParser) FindManifest(startDir string) (string, *CargoManifest, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", nil, WrapProcessError(fmt.Sprintf("path resolution %s", startDir), err)
	}

	for {
		manifestPath := filepath.Join(currentDir, "Cargo.toml")
		if _, err := p.fileReader.ReadFile(manifestPath); err == nil {
			manifest, err := p.Parse(manifestPath)
			if err != nil {
				return "", nil, err
			}
			if manifest.Package.Name != "" {
				return manifestPath, manifest, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", nil, fmt.Errorf("Cargo.toml not found above %s", startDir)
}

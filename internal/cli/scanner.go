package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/utils"
)

// recursiveSuffix marks a target that is scanned with all its subdirectories
const recursiveSuffix = "/..."

// target is one command line path after pattern resolution
type target struct {
	path      string
	recursive bool
	file      bool
}

// resolveTarget interprets `dir/...`, plain directories and single files
func resolveTarget(pattern string) (target, error) {
	recursive := false
	path := pattern
	if path == "..." {
		path, recursive = ".", true
	} else if strings.HasSuffix(path, recursiveSuffix) {
		path = strings.TrimSuffix(path, recursiveSuffix)
		if path == "" {
			path = "."
		}
		recursive = true
	}

	info, err := os.Stat(path)
	if err != nil {
		return target{}, errors.WrapFileSystemError("stat", path, err).
			WithSuggestion("check that the path exists and is readable")
	}
	if !info.IsDir() {
		if recursive || filepath.Ext(path) != utils.SourceExtension {
			return target{}, errors.FileSystemError("scan", path,
				fmt.Sprintf("not a directory or %s file", utils.SourceExtension))
		}
		return target{path: path, file: true}, nil
	}
	return target{path: path, recursive: recursive}, nil
}

// DirectoryScanner finds the source files named by command line targets
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a scanner with the default prefix and skip list
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{fileProcessor: utils.NewFileProcessor()}
}

// NewDirectoryScannerWithProcessor creates a scanner over a configured processor
func NewDirectoryScannerWithProcessor(fp *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{fileProcessor: fp}
}

// ScanFiles returns the source files named by the patterns, sorted and
// without duplicates. `dir/...` scans recursively, `dir` scans only the
// directory itself and a `.rs` path is taken as is. Generated files are
// never returned.
func (s *DirectoryScanner) ScanFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"." + recursiveSuffix}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", path), err)
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, filepath.Clean(path))
		}
		return nil
	}

	for _, pattern := range patterns {
		t, err := resolveTarget(pattern)
		if err != nil {
			return nil, err
		}
		if t.file {
			if err := add(t.path); err != nil {
				return nil, err
			}
			continue
		}

		found, err := s.fileProcessor.ScanSourceFiles([]string{t.path}, t.recursive)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", t.path, err)
		}
		for _, file := range found {
			if err := add(file); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

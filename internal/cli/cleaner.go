package cli

import (
	"os"
	"path/filepath"

	"github.com/toyz/cgp/internal/errors"
	"github.com/toyz/cgp/internal/utils"
)

// Cleaner removes generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a cleaner for the default output prefix
func NewCleaner() *Cleaner {
	return &Cleaner{fileProcessor: utils.NewFileProcessor()}
}

// NewCleanerWithProcessor creates a cleaner over a configured processor
func NewCleanerWithProcessor(fp *utils.FileProcessor) *Cleaner {
	return &Cleaner{fileProcessor: fp}
}

// CleanGeneratedFiles removes the generated files under the patterns and
// returns their paths. Missing directories are ignored.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"." + recursiveSuffix}
	}

	var removed []string
	for _, pattern := range patterns {
		t, err := resolveTarget(pattern)
		if err != nil {
			if os.IsNotExist(errors.AsCGPError(err).Unwrap()) {
				continue
			}
			return removed, err
		}

		switch {
		case t.file:
			output := c.fileProcessor.OutputPath(t.path)
			if err := os.Remove(output); err == nil {
				removed = append(removed, output)
			} else if !os.IsNotExist(err) {
				return removed, errors.WrapFileSystemError("remove", output, err)
			}
		case t.recursive:
			files, err := c.fileProcessor.CleanDirectories([]string{t.path})
			removed = append(removed, files...)
			if err != nil {
				return removed, err
			}
		default:
			files, err := c.cleanDirectory(t.path)
			removed = append(removed, files...)
			if err != nil {
				return removed, err
			}
		}
	}
	return removed, nil
}

// cleanDirectory removes the generated files directly inside dir
func (c *Cleaner) cleanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", dir, err)
	}

	filter := utils.GeneratedFileFilter(c.fileProcessor.OutputPrefix())
	var removed []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !filter(path, entry) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		c.fileProcessor.GetFileReader().InvalidateFile(path)
		removed = append(removed, path)
	}
	return removed, nil
}

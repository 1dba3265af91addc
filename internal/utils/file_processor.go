package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutputPrefix is the file name prefix of generated files
const DefaultOutputPrefix = "autogen_"

// SourceExtension is the extension of files scanned for macro invocations
const SourceExtension = ".rs"

// DefaultSkipDirs are directories that never contain sources worth expanding
var DefaultSkipDirs = []string{
	"target",
	"vendor",
	"node_modules",
	".git",
	".svn",
	".hg",
	"testdata",
}

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader   *FileReader
	outputPrefix string
	skipDirs     []string
}

// NewFileProcessor creates a new file processor with the default prefix and skip list
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader(), DefaultOutputPrefix, DefaultSkipDirs)
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader, outputPrefix string, skipDirs []string) *FileProcessor {
	if outputPrefix == "" {
		outputPrefix = DefaultOutputPrefix
	}
	return &FileProcessor{
		fileReader:   reader,
		outputPrefix: outputPrefix,
		skipDirs:     skipDirs,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SourceFileFilter matches .rs files that were not written by the generator
func SourceFileFilter(outputPrefix string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, SourceExtension) && !strings.HasPrefix(name, outputPrefix)
	}
}

// GeneratedFileFilter matches files previously written by the generator
func GeneratedFileFilter(outputPrefix string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasPrefix(name, outputPrefix) && strings.HasSuffix(name, SourceExtension)
	}
}

// SkipDirectoryFilter skips hidden directories and the named ones
func SkipDirectoryFilter(skipDirs []string) DirectoryFilter {
	skip := make(map[string]bool, len(skipDirs))
	for _, name := range skipDirs {
		skip[name] = true
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skip[name]
	}
}

// OutputPath returns the generated file written beside source
func (fp *FileProcessor) OutputPath(source string) string {
	dir, name := filepath.Split(source)
	stem := strings.TrimSuffix(name, SourceExtension)
	return filepath.Join(dir, fp.outputPrefix+stem+SourceExtension)
}

type fileInfoDirEntry struct {
	info os.FileInfo
}

func (f fileInfoDirEntry) Name() string               { return f.info.Name() }
func (f fileInfoDirEntry) IsDir() bool                { return f.info.IsDir() }
func (f fileInfoDirEntry) Type() os.FileMode          { return f.info.Mode().Type() }
func (f fileInfoDirEntry) Info() (os.FileInfo, error) { return f.info, nil }

// WalkFiles walks through files in a directory tree with filtering
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		dirEntry := fileInfoDirEntry{info: info}

		// the root itself is always entered
		if info.IsDir() && options.DirectoryFilter != nil && path != rootDir {
			if !options.DirectoryFilter(path, dirEntry) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && options.FileFilter != nil && options.FileFilter(path, dirEntry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// ScanSourceFiles returns the source files under each directory. With
// recursive set, subdirectories are scanned too, minus the skipped ones.
func (fp *FileProcessor) ScanSourceFiles(dirs []string, recursive bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		var found []string
		var err error
		if recursive {
			found, err = fp.WalkFiles(dir, FileWalkOptions{
				FileFilter:      SourceFileFilter(fp.outputPrefix),
				DirectoryFilter: fp.GetDirectoryFilter(),
			})
		} else {
			found, err = fp.sourceFilesIn(dir)
		}
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory scan %s", dir), err)
		}

		for _, file := range found {
			abs, err := filepath.Abs(file)
			if err != nil {
				return nil, WrapProcessError(fmt.Sprintf("path resolution %s", file), err)
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			files = append(files, file)
		}
	}
	return files, nil
}

func (fp *FileProcessor) sourceFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	filter := SourceFileFilter(fp.outputPrefix)
	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter(path, entry) {
			files = append(files, path)
		}
	}
	return files, nil
}

// HasSourceFiles checks if a directory directly contains any source file
func (fp *FileProcessor) HasSourceFiles(dir string) (bool, error) {
	files, err := fp.sourceFilesIn(dir)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// CleanDirectories removes generated files from the directory trees
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}
		if _, err := os.Stat(baseDir); os.IsNotExist(err) {
			continue
		}

		generated, err := fp.WalkFiles(baseDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(fp.outputPrefix),
			DirectoryFilter: fp.GetDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}

		for _, file := range generated {
			if err := os.Remove(file); err != nil {
				return removedFiles, WrapProcessError(fmt.Sprintf("file removal %s", file), err)
			}
			fp.fileReader.InvalidateFile(file)
			removedFiles = append(removedFiles, file)
		}
	}

	return removedFiles, nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}

// GetDirectoryFilter returns the directory filter built from the skip list
func (fp *FileProcessor) GetDirectoryFilter() DirectoryFilter {
	return SkipDirectoryFilter(fp.skipDirs)
}

// OutputPrefix returns the prefix of generated file names
func (fp *FileProcessor) OutputPrefix() string {
	return fp.outputPrefix
}

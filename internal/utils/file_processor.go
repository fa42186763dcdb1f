package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileProcessor provides utilities for walking a PHP project tree
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
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

// PHPFileFilter filters for .php files
func PHPFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return strings.HasSuffix(info.Name(), ".php")
	}
}

// DefaultDirectoryFilter skips directories that never contain application classes
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"tmp":          true,
		"logs":         true,
		"webroot":      true,
		".git":         true,
		".svn":         true,
		".hg":          true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering.
// The result is sorted so batch runs are reproducible.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}

		return nil
	})

	sort.Strings(matchedFiles)
	return matchedFiles, err
}

// CollectPHPFiles expands a mix of file and directory paths into PHP files.
// Directories are walked recursively; a trailing "/..." is accepted and ignored.
func (fp *FileProcessor) CollectPHPFiles(paths []string, filter FileFilter) ([]string, error) {
	if filter == nil {
		filter = PHPFileFilter()
	}

	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		p = strings.TrimSuffix(p, "/...")
		if p == "" {
			p = "."
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, WrapProcessError("stat "+p, err)
		}

		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}

		matched, err := fp.WalkFiles(p, FileWalkOptions{
			FileFilter:      filter,
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return nil, WrapProcessError("walk "+p, err)
		}
		for _, m := range matched {
			add(m)
		}
	}

	return files, nil
}

// WrapProcessError wraps a walk failure with the operation that failed
func WrapProcessError(operation string, err error) error {
	return &ProcessError{Operation: operation, Err: err}
}

// ProcessError is returned by directory walking helpers
type ProcessError struct {
	Operation string
	Err       error
}

func (e *ProcessError) Error() string {
	return "failed to " + e.Operation + ": " + e.Err.Error()
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

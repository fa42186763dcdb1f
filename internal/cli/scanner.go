package cli

import (
	"path/filepath"
	"sort"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/utils"
)

// ControllerScanner expands command line paths into PHP files
type ControllerScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewControllerScanner creates a scanner over the file system
func NewControllerScanner() *ControllerScanner {
	return &ControllerScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// Scan returns the PHP files below paths, sorted and deduplicated. A
// trailing "/..." is accepted for symmetry with Go tooling. Non-controller
// files are kept; the annotator skips them by name.
func (s *ControllerScanner) Scan(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.FileSystemErrorCode, "no paths to scan")
	}

	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, filepath.Clean(p))
	}

	files, err := s.fileProcessor.CollectPHPFiles(cleaned, utils.PHPFileFilter())
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to collect controller files", err).
			WithSuggestion("Check that the given paths exist and are readable")
	}
	sort.Strings(files)
	return files, nil
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads source files with a modification-time validated cache.
// The project index and the annotator both read controller files, so the
// second read of an unchanged file is served from memory.
type FileReader struct {
	contentCache *FileCache
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewFileCache(DefaultFileCacheSize),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.Get(cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	if err := fr.contentCache.Put(cleanPath, contentStr); err != nil {
		fr.contentCache.Delete(cleanPath)
	}

	return contentStr, nil
}

// WriteFile writes content and drops the cached copy of the file
func (fr *FileReader) WriteFile(filePath, content string) error {
	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode().Perm()
	}

	fr.contentCache.Delete(cleanPath)
	if err := os.WriteFile(cleanPath, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filepath.Base(cleanPath), err)
	}
	return nil
}

// CachedFiles returns the number of files held in the cache
func (fr *FileReader) CachedFiles() int {
	return fr.contentCache.Len()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}

package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileDocumentExtractor reads plain-text documents (txt, md) from the local
// filesystem. A missing file or empty content yields ("", nil): document
// context is optional and absence is never an error.
type FileDocumentExtractor struct{}

// NewFileDocumentExtractor creates a filesystem-backed extractor.
func NewFileDocumentExtractor() *FileDocumentExtractor {
	return &FileDocumentExtractor{}
}

// Extract reads the document at path, expanding a leading "~".
func (e *FileDocumentExtractor) Extract(_ context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", NewError(FailureIO, "document.read", fmt.Errorf("%s: %w", path, err))
	}

	return string(data), nil
}

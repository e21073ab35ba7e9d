package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/brainstorm/services"
)

func TestFileDocumentExtractor(t *testing.T) {
	extractor := services.NewFileDocumentExtractor()

	t.Run("reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.md")
		if err := os.WriteFile(path, []byte("# Notes\ncontent"), 0o644); err != nil {
			t.Fatal(err)
		}

		text, err := extractor.Extract(context.Background(), path)
		if err != nil {
			t.Fatalf("Extract() error: %v", err)
		}
		if text != "# Notes\ncontent" {
			t.Errorf("Extract() = %q", text)
		}
	})

	t.Run("missing file is empty, not an error", func(t *testing.T) {
		text, err := extractor.Extract(context.Background(), "/no/such/file.md")
		if err != nil {
			t.Fatalf("Extract(missing) error: %v", err)
		}
		if text != "" {
			t.Errorf("Extract(missing) = %q, want empty", text)
		}
	})
}

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `[
  {"id": "1", "title": "Data Analyst Intern", "ministry": "Ministry of Statistics", "skills": ["Python", "SQL"], "location": "Delhi", "mode": "Hybrid"},
  {"id": "2", "title": "Web Developer Intern", "ministry": "MeitY", "skills": ["JavaScript", " "], "location": "Remote", "mode": "Remote"}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestFileStoreListOpportunities(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bare array", content: sampleCatalog},
		{name: "items envelope", content: `{"items": ` + sampleCatalog + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewFileStore(writeFile(t, tt.content))

			items, err := store.ListOpportunities(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 2 {
				t.Fatalf("expected 2 opportunities, got %d", len(items))
			}
			if items[0].Organization != "Ministry of Statistics" {
				t.Fatalf("unexpected organization: %q", items[0].Organization)
			}
			if len(items[1].Skills) != 1 {
				t.Fatalf("expected blank skill to be dropped, got %#v", items[1].Skills)
			}
		})
	}
}

func TestFileStoreUnavailable(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "not configured", path: ""},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.json")},
		{name: "malformed", path: writeFile(t, "{not json")},
		{name: "empty", path: writeFile(t, "  ")},
		{name: "missing id", path: writeFile(t, `[{"title": "No id"}]`)},
		{name: "duplicate id", path: writeFile(t, `[{"id": "1", "title": "A"}, {"id": "1", "title": "A again"}, {"id": "2"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileStore(tt.path).ListOpportunities(context.Background())
			if !errors.Is(err, ErrCatalogUnavailable) {
				t.Fatalf("expected catalog unavailable, got %v", err)
			}
		})
	}
}

func TestFileStoreEmptyCatalog(t *testing.T) {
	items, err := NewFileStore(writeFile(t, "[]")).ListOpportunities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(items))
	}
}

func TestLoad(t *testing.T) {
	collection, err := Load(context.Background(), NewFileStore(writeFile(t, sampleCatalog)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collection.Len() != 2 || collection.FindByID("2") == nil {
		t.Fatalf("unexpected collection: %v", collection.IDs())
	}
}

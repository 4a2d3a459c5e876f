package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/spigell/intern-match/internal/opportunity"
)

// FileStore reads the catalog from a JSON document on disk.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) ListOpportunities(ctx context.Context) ([]*opportunity.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.Path == "" {
		return nil, unavailable(fmt.Errorf("catalog file is not configured"))
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, unavailable(err)
	}

	items, err := decodeDocument(data)
	if err != nil {
		return nil, unavailable(fmt.Errorf("%s: %w", s.Path, err))
	}

	return items, nil
}

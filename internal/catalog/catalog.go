// Package catalog reads the opportunity catalog from its backing store.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spigell/intern-match/internal/opportunity"
)

// ErrCatalogUnavailable wraps every failure to produce the catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Store yields the full opportunity catalog. Implementations are read per
// request and must not be mutated by callers.
type Store interface {
	ListOpportunities(ctx context.Context) ([]*opportunity.Opportunity, error)
}

// Load reads the catalog into a collection.
func Load(ctx context.Context, store Store) (*opportunity.Opportunities, error) {
	items, err := store.ListOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	return opportunity.New(items), nil
}

type pagedResponse struct {
	Items   []any `json:"items"`
	Found   int   `json:"found"`
	Pages   int   `json:"pages"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// decodeItems accepts a bare JSON array of opportunities or an object with an
// "items" array and optional paging fields.
func decodeItems(data []byte) (*pagedResponse, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty catalog document")
	}

	var response pagedResponse
	if data[0] == '[' {
		if err := json.Unmarshal(data, &response.Items); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		return &response, nil
	}

	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return &response, nil
}

func decodeDocument(data []byte) ([]*opportunity.Opportunity, error) {
	response, err := decodeItems(data)
	if err != nil {
		return nil, err
	}
	return opportunity.Decode(response.Items)
}

func unavailable(err error) error {
	if errors.Is(err, ErrCatalogUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
}

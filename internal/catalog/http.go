package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/opportunity"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "intern-match"
	// Upper bound on followed pages for a single listing.
	maxPages = 100
)

// HTTPStore fetches the catalog from a JSON endpoint. The endpoint may return
// a bare array or a paged envelope {"items", "page", "pages"}.
type HTTPStore struct {
	URL        string
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func NewHTTPStore(url, token string, timeout time.Duration, logger *zap.Logger) *HTTPStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPStore{
		URL:   url,
		token: token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func (s *HTTPStore) ListOpportunities(ctx context.Context) ([]*opportunity.Opportunity, error) {
	items, err := s.getItems(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	opportunities, err := opportunity.Decode(items)
	if err != nil {
		return nil, unavailable(err)
	}

	return opportunities, nil
}

// getItems follows pages until the server reports the last one. The first
// response decides the numbering: a listing that starts at page 1 is 1-based,
// otherwise pages are 0-based. Items repeated on a later page are dropped.
func (s *HTTPStore) getItems(ctx context.Context) ([]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	req = s.setHeaders(req)

	response, err := s.fetch(req)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("got catalog response", zap.Int("pages", response.Pages), zap.Int("items", len(response.Items)))

	first, last := response.Page, response.Pages-1
	if first >= 1 {
		last = response.Pages
	}

	items := append([]any{}, response.Items...)
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if id, ok := itemID(item); ok {
			seen[id] = true
		}
	}

	for page := first + 1; page <= last; page++ {
		if page-first >= maxPages {
			return nil, fmt.Errorf("catalog has more than %d pages", maxPages)
		}

		s.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) <= last page (%d)", page, last),
		))

		response, err = s.fetch(addPage(req, page))
		if err != nil {
			return nil, err
		}

		var repeated []string
		for _, item := range response.Items {
			id, ok := itemID(item)
			if ok && seen[id] {
				repeated = append(repeated, id)
				continue
			}
			if ok {
				seen[id] = true
			}
			items = append(items, item)
		}

		if len(repeated) > 0 {
			s.logger.Warn("dropping opportunities repeated across pages",
				zap.Int("page", page),
				zap.Strings("ids", repeated),
			)
		}
	}

	return items, nil
}

// itemID reads the id of a raw catalog item in its decoded textual form.
func itemID(item any) (string, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return "", false
	}
	switch id := obj["id"].(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}

func (s *HTTPStore) fetch(req *http.Request) (*pagedResponse, error) {
	s.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	return parsePage(data)
}

func parsePage(data []byte) (*pagedResponse, error) {
	items, err := decodeItems(data)
	if err != nil {
		return nil, err
	}
	if items.Pages == 0 {
		items.Pages = 1
	}
	return items, nil
}

func (s *HTTPStore) setHeaders(req *http.Request) *http.Request {
	if s.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.token))
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// addPage returns a copy of req with the page query parameter set.
func addPage(req *http.Request, page int) *http.Request {
	next := req.Clone(req.Context())
	q := next.URL.Query()
	q.Set("page", strconv.Itoa(page))
	next.URL.RawQuery = q.Encode()

	return next
}

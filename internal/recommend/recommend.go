// Package recommend serves ranking requests: it reads the catalog, optionally
// ingests a resume, and ranks the catalog against the candidate.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/catalog"
	"github.com/spigell/intern-match/internal/document"
	"github.com/spigell/intern-match/internal/logger"
	"github.com/spigell/intern-match/internal/matching"
	"github.com/spigell/intern-match/internal/profile"
)

// Ingester turns a resume document into a normalized profile.
type Ingester interface {
	Ingest(ctx context.Context, doc document.Document) (profile.CandidateProfile, error)
}

// Config holds request-independent settings.
type Config struct {
	// Limit caps the number of results. matching.DefaultLimit when zero.
	Limit int
}

// Deps are the collaborators of the service.
type Deps struct {
	Catalog catalog.Store
	Ingest  Ingester
	Scorer  *matching.Scorer
	Logger  *zap.Logger
	// NewID generates request ids; uuid.NewString when nil.
	NewID func() string
}

type Service struct {
	limit   int
	catalog catalog.Store
	ingest  Ingester
	scorer  *matching.Scorer
	logger  *zap.Logger
	newID   func() string
}

// Recommendation is the outcome of one request.
type Recommendation struct {
	RequestID string                   `json:"requestId"`
	Profile   profile.CandidateProfile `json:"profile"`
	Results   []matching.MatchResult   `json:"results"`
}

func New(cfg Config, deps Deps) (*Service, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog store is required")
	}
	if deps.Scorer == nil {
		deps.Scorer = matching.NewScorer(nil)
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	return &Service{
		limit:   cfg.Limit,
		catalog: deps.Catalog,
		ingest:  deps.Ingest,
		scorer:  deps.Scorer,
		logger:  logger.WithFields(deps.Logger),
		newID:   deps.NewID,
	}, nil
}

// Recommend ranks the current catalog against an already normalized profile.
func (s *Service) Recommend(ctx context.Context, candidate profile.CandidateProfile) (*Recommendation, error) {
	requestID := s.newID()
	return s.recommend(ctx, logger.WithRequest(s.logger, requestID), requestID, candidate)
}

// RecommendResume ingests a resume and ranks the catalog against the
// extracted profile. Ingestion errors are returned unchanged so callers can
// match them with errors.Is.
func (s *Service) RecommendResume(ctx context.Context, doc document.Document) (*Recommendation, error) {
	if s.ingest == nil {
		return nil, errors.New("resume ingestion is not configured")
	}

	requestID := s.newID()
	log := logger.WithRequest(s.logger, requestID)

	log.Info("ingesting resume", zap.String("document", doc.Name), zap.String("mime", doc.MIME))

	candidate, err := s.ingest.Ingest(ctx, doc)
	if err != nil {
		log.Warn("resume ingestion failed", zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.recommend(ctx, log, requestID, candidate)
}

func (s *Service) recommend(ctx context.Context, log *zap.Logger, requestID string, candidate profile.CandidateProfile) (*Recommendation, error) {
	items, err := s.catalog.ListOpportunities(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("catalog read failed", zap.Error(err))
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := s.scorer.Rank(candidate, items, s.limit)

	log.Info("ranked opportunities",
		zap.Int("catalog_size", len(items)),
		zap.Int("results", len(results)),
	)

	return &Recommendation{
		RequestID: requestID,
		Profile:   candidate,
		Results:   results,
	}, nil
}

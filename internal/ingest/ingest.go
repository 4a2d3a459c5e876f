// Package ingest turns an uploaded resume into a normalized candidate profile.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/ai"
	"github.com/spigell/intern-match/internal/document"
	"github.com/spigell/intern-match/internal/profile"
)

const (
	// Placeholder replaces every profile field the resume does not provide.
	Placeholder = "N/A"

	DefaultTimeout = 60 * time.Second
)

var (
	ErrUnsupportedFileType = document.ErrUnsupportedFileType
	ErrDocumentUnreadable  = document.ErrDocumentUnreadable
	ErrExtractionFailed    = errors.New("profile extraction failed")
)

// TextExtractor reads the plain text of a document.
type TextExtractor interface {
	Text(ctx context.Context, doc document.Document) (string, error)
}

// Adapter runs the ingestion pipeline. It never scores.
type Adapter struct {
	Documents TextExtractor
	Fields    ai.ProfileExtractor
	// Timeout bounds a single structured-field extraction. DefaultTimeout when zero.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Ingest extracts the resume text, asks the field extractor for the profile
// object, fills placeholders and normalizes. On error the zero profile is
// returned.
func (a *Adapter) Ingest(ctx context.Context, doc document.Document) (profile.CandidateProfile, error) {
	logger := a.logger().With(zap.String("document", doc.Name))

	if !document.Accepts(doc.MIME) {
		return profile.CandidateProfile{}, fmt.Errorf("%w: %q", ErrUnsupportedFileType, doc.MIME)
	}

	text, err := a.Documents.Text(ctx, doc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return profile.CandidateProfile{}, fmt.Errorf("read document: %w", ctxErr)
		}
		return profile.CandidateProfile{}, err
	}
	if strings.TrimSpace(text) == "" {
		return profile.CandidateProfile{}, fmt.Errorf("%w: no text found", ErrDocumentUnreadable)
	}

	logger.Debug("document text extracted", zap.Int("text_length", len(text)))

	fields, err := a.extract(ctx, text)
	if err != nil {
		return profile.CandidateProfile{}, err
	}

	if err := ctx.Err(); err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("ingest: %w", err)
	}

	candidate := profile.Normalize(WithPlaceholders(fields))
	logger.Info("resume ingested",
		zap.Int("skills", len(candidate.Skills)),
		zap.Int("interests", len(candidate.Interests)),
	)

	return candidate, nil
}

func (a *Adapter) extract(ctx context.Context, text string) (map[string]any, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	extractCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fields, err := a.Fields.ExtractProfile(extractCtx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("extract profile: %w", ctxErr)
		}
		if errors.Is(extractCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrExtractionFailed, timeout)
		}
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: empty result", ErrExtractionFailed)
	}

	return fields, nil
}

func (a *Adapter) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// WithPlaceholders builds the raw profile from an extracted object. Each of
// the profile keys that is missing, null, blank or an empty list becomes
// Placeholder. Other keys are ignored.
func WithPlaceholders(fields map[string]any) profile.Raw {
	filled := make(map[string]any, len(profile.Keys))
	for _, key := range profile.Keys {
		field := profile.FieldFromAny(fields[key])
		if strings.TrimSpace(strings.Trim(field.String(), ", ")) == "" {
			filled[key] = Placeholder
			continue
		}
		filled[key] = fields[key]
	}
	return profile.RawFromMap(filled)
}

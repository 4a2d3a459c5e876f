package matching

import (
	"slices"

	"github.com/spigell/intern-match/internal/opportunity"
	"github.com/spigell/intern-match/internal/profile"
)

// MatchResult is an opportunity annotated for one ranking request.
type MatchResult struct {
	Opportunity    *opportunity.Opportunity `json:"opportunity"`
	MatchScore     int                      `json:"matchScore"`
	MatchingSkills []string                 `json:"matchingSkills"`
}

// Project wraps an opportunity with its score. The opportunity is shared, not copied.
func Project(o *opportunity.Opportunity, s Score) MatchResult {
	skills := s.MatchingSkills
	if skills == nil {
		skills = []string{}
	}
	return MatchResult{
		Opportunity:    o,
		MatchScore:     s.Value,
		MatchingSkills: skills,
	}
}

// Tier labels used when presenting a score.
const (
	TierStrong = "strong"
	TierGood   = "good"
	TierFair   = "fair"
)

func (r MatchResult) Tier() string {
	switch {
	case r.MatchScore >= 80:
		return TierStrong
	case r.MatchScore >= 60:
		return TierGood
	default:
		return TierFair
	}
}

// Rank scores every opportunity in the catalog and returns the best limit of
// them, highest score first. Equal scores keep catalog order. A non-positive
// limit means DefaultLimit.
func (s *Scorer) Rank(p profile.CandidateProfile, catalog []*opportunity.Opportunity, limit int) []MatchResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]MatchResult, 0, len(catalog))
	for _, o := range catalog {
		if o == nil {
			continue
		}
		results = append(results, Project(o, s.Score(p, o)))
	}

	slices.SortStableFunc(results, func(a, b MatchResult) int {
		return b.MatchScore - a.MatchScore
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results
}

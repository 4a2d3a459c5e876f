// Package matching scores candidate profiles against opportunities and ranks
// the catalog for a single request.
package matching

import (
	"math"
	"strings"

	"github.com/spigell/intern-match/internal/opportunity"
	"github.com/spigell/intern-match/internal/profile"
)

const (
	SkillWeight   = 20
	LocationBonus = 15
	DegreeBonus   = 10
	RandomSpan    = 20
	MaxScore      = 95
	DefaultLimit  = 6
)

// Score is the outcome of scoring one profile against one opportunity.
type Score struct {
	Value          int
	Base           int
	MatchingSkills []string
}

type Scorer struct {
	random RandomSource
}

// NewScorer builds a scorer drawing its exploration term from src. A nil src
// uses the process-wide unseeded generator.
func NewScorer(src RandomSource) *Scorer {
	if src == nil {
		src = globalSource{}
	}
	return &Scorer{random: src}
}

func (s *Scorer) Score(p profile.CandidateProfile, o *opportunity.Opportunity) Score {
	matching := MatchingSkills(p.Skills, o.Skills)
	base := baseScore(p, o, len(matching))

	raw := float64(base) + s.random.Float64()*RandomSpan

	return Score{
		Value:          int(math.Round(math.Min(raw, MaxScore))),
		Base:           base,
		MatchingSkills: matching,
	}
}

// BaseScore is the deterministic part of the score: skills, location and degree.
func BaseScore(p profile.CandidateProfile, o *opportunity.Opportunity) int {
	return baseScore(p, o, len(MatchingSkills(p.Skills, o.Skills)))
}

func baseScore(p profile.CandidateProfile, o *opportunity.Opportunity, matched int) int {
	score := matched * SkillWeight

	if p.Location != "" && containsFold(o.Location, p.Location) {
		score += LocationBonus
	}

	if p.Degree != "" && containsFold(o.Eligibility, p.Degree) {
		score += DegreeBonus
	}

	return score
}

// MatchingSkills returns the required skills, in their original spelling and
// order, for which some candidate skill contains or is contained by them,
// ignoring case. The result is never nil.
func MatchingSkills(candidate, required []string) []string {
	matching := make([]string, 0)
	for _, skill := range required {
		lower := strings.ToLower(strings.TrimSpace(skill))
		if lower == "" {
			continue
		}
		for _, c := range candidate {
			c = strings.ToLower(c)
			if c == "" {
				continue
			}
			if strings.Contains(lower, c) || strings.Contains(c, lower) {
				matching = append(matching, skill)
				break
			}
		}
	}
	return matching
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

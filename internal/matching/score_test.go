package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/intern-match/internal/opportunity"
	"github.com/spigell/intern-match/internal/profile"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func scenarioOpportunity() *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:          "a",
		Title:       "Digital India Intern",
		Skills:      []string{"Python", "React"},
		Location:    "New Delhi",
		Eligibility: "Graduate in any discipline",
	}
}

func TestScoreScenario(t *testing.T) {
	t.Parallel()

	p := profile.Normalize(profile.Raw{
		Skills:   profile.Scalar("python, data analysis"),
		Location: profile.Scalar("Delhi"),
	})
	o := scenarioOpportunity()

	tests := []struct {
		name   string
		random float64
		expect int
	}{
		{name: "no exploration", random: 0, expect: 35},
		{name: "half exploration", random: 0.5, expect: 45},
		{name: "upper end", random: 0.999, expect: 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewScorer(fixedSource(tt.random)).Score(p, o)
			if !reflect.DeepEqual(got.MatchingSkills, []string{"Python"}) {
				t.Fatalf("unexpected matching skills: %v", got.MatchingSkills)
			}
			if got.Base != 35 {
				t.Fatalf("expected base 35, got %d", got.Base)
			}
			if got.Value != tt.expect {
				t.Fatalf("expected score %d, got %d", tt.expect, got.Value)
			}
		})
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	t.Parallel()

	p := profile.Normalize(profile.Raw{Skills: profile.Scalar(""), Location: profile.Scalar(""), Degree: profile.Scalar("")})
	scorer := NewScorer(SeededSource(7))

	for i := 0; i < 200; i++ {
		got := scorer.Score(p, scenarioOpportunity())
		if got.MatchingSkills == nil || len(got.MatchingSkills) != 0 {
			t.Fatalf("expected empty matching skills, got %#v", got.MatchingSkills)
		}
		if got.Value < 0 || got.Value > RandomSpan {
			t.Fatalf("score %d outside [0, %d]", got.Value, RandomSpan)
		}
	}
}

func TestScoreIsCapped(t *testing.T) {
	t.Parallel()

	p := profile.Normalize(profile.Raw{
		Skills:   profile.Scalar("go, sql, docker, kubernetes, linux"),
		Location: profile.Scalar("remote"),
		Degree:   profile.Scalar("btech"),
	})
	o := &opportunity.Opportunity{
		Skills:      []string{"Go", "SQL", "Docker", "Kubernetes", "Linux"},
		Location:    "Remote",
		Eligibility: "BTech students",
	}

	got := NewScorer(fixedSource(0.99)).Score(p, o)
	if got.Base != 125 {
		t.Fatalf("expected base 125, got %d", got.Base)
	}
	if got.Value != MaxScore {
		t.Fatalf("expected score capped at %d, got %d", MaxScore, got.Value)
	}
}

func TestScoreBoundsWithSeededSource(t *testing.T) {
	t.Parallel()

	p := profile.Normalize(profile.Raw{
		Skills:   profile.Scalar("python, data analysis"),
		Location: profile.Scalar("Delhi"),
		Degree:   profile.Scalar("graduate"),
	})
	o := scenarioOpportunity()
	base := BaseScore(p, o)
	if base != 45 {
		t.Fatalf("expected base 45, got %d", base)
	}

	scorer := NewScorer(SeededSource(42))
	for i := 0; i < 500; i++ {
		got := scorer.Score(p, o)
		if got.Value < base || got.Value > min(base+RandomSpan, MaxScore) {
			t.Fatalf("score %d outside [%d, %d]", got.Value, base, min(base+RandomSpan, MaxScore))
		}
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	t.Parallel()

	a, b := SeededSource(3), SeededSource(3)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("seeded sources diverged at draw %d", i)
		}
	}
}

func TestMatchingSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate []string
		required  []string
		expect    []string
	}{
		{
			name:      "candidate skill inside required skill",
			candidate: []string{"react"},
			required:  []string{"ReactJS", "Figma"},
			expect:    []string{"ReactJS"},
		},
		{
			name:      "required skill inside candidate skill",
			candidate: []string{"javascript-based frontend"},
			required:  []string{"JavaScript"},
			expect:    []string{"JavaScript"},
		},
		{
			name:      "keeps catalog order and spelling",
			candidate: []string{"sql", "python"},
			required:  []string{"Python", "MySQL", "Excel"},
			expect:    []string{"Python", "MySQL"},
		},
		{
			name:      "empty candidate tokens never match",
			candidate: []string{""},
			required:  []string{"Python"},
			expect:    []string{},
		},
		{
			name:      "no required skills",
			candidate: []string{"go"},
			required:  nil,
			expect:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MatchingSkills(tt.candidate, tt.required)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	p := profile.Normalize(profile.Raw{Skills: profile.Scalar("python")})
	o := scenarioOpportunity()
	before := *o
	beforeSkills := append([]string(nil), o.Skills...)

	NewScorer(fixedSource(0.3)).Score(p, o)

	if !reflect.DeepEqual(o.Skills, beforeSkills) || o.Title != before.Title || o.Location != before.Location {
		t.Fatalf("opportunity was mutated: %+v", o)
	}
	if !reflect.DeepEqual(p.Skills, []string{"python"}) {
		t.Fatalf("profile was mutated: %+v", p)
	}
}

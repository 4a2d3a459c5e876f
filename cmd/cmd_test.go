package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/spigell/intern-match/internal/catalog"
	"github.com/spigell/intern-match/internal/ingest"
	"github.com/spigell/intern-match/internal/matching"
	"github.com/spigell/intern-match/internal/opportunity"
	"github.com/spigell/intern-match/internal/profile"
	"github.com/spigell/intern-match/internal/recommend"
)

func TestDescribeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("%w: %q", ingest.ErrUnsupportedFileType, "image/png"), want: "Please upload only PDF files."},
		{err: ingest.ErrDocumentUnreadable, want: "Failed to read the PDF. Please check the file and try again."},
		{err: fmt.Errorf("%w: timeout", ingest.ErrExtractionFailed), want: "Failed to process the resume. Please try again."},
		{err: fmt.Errorf("%w: boom", catalog.ErrCatalogUnavailable), want: "Failed to load internships."},
		{err: errors.New("plain"), want: "Error: plain"},
	}

	for _, tt := range tests {
		if got := describeError(tt.err); got != tt.want {
			t.Fatalf("describeError(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}

func TestWriteRecommendation(t *testing.T) {
	t.Parallel()

	rec := &recommend.Recommendation{Results: []matching.MatchResult{{
		Opportunity: &opportunity.Opportunity{
			ID:           "42",
			Title:        "Data Analyst Intern",
			Organization: "Ministry of Statistics",
			Duration:     "3 months",
			Description:  strings.Repeat("a", 120),
		},
		MatchScore:     83,
		MatchingSkills: []string{"Python"},
	}}}

	var out bytes.Buffer
	if err := writeRecommendation(&out, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := out.String()
	for _, want := range []string{"1 Matches Found", "[83% Match, strong] Data Analyst Intern", "Stipend: -", "Matching Skills: Python", strings.Repeat("a", 100) + "...", "id: 42"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}

	out.Reset()
	if err := writeRecommendation(&out, &recommend.Recommendation{Results: []matching.MatchResult{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No matching opportunities") {
		t.Fatalf("unexpected empty output: %q", out.String())
	}
}

func newProfileCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	for _, key := range profile.Keys {
		cmd.Flags().String(key, "", "")
	}
	cmd.Flags().Bool("interactive", false, "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestProfileFromFlags(t *testing.T) {
	t.Parallel()

	got, err := profileFromInput(newProfileCommand(t, "--skills", "Python, SQL ,", "--location", " Delhi "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(got.Skills, "|") != "python|sql" || got.Location != "Delhi" {
		t.Fatalf("unexpected profile: %#v", got)
	}
	if got.Interests == nil || len(got.Interests) != 0 {
		t.Fatalf("expected empty interests, got %#v", got.Interests)
	}

	if _, err := profileFromInput(newProfileCommand(t)); err == nil {
		t.Fatalf("expected error without any profile input")
	}
}

func TestNewCatalogStore(t *testing.T) {
	t.Parallel()

	store, cleanup, err := newCatalogStore(context.Background(), &CatalogConfig{Source: "file", File: "catalog.json"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()
	if _, ok := store.(*catalog.FileStore); !ok {
		t.Fatalf("expected file store, got %T", store)
	}

	for _, cfg := range []*CatalogConfig{
		nil,
		{Source: "ftp"},
		{Source: "http"},
		{Source: "postgres"},
	} {
		if _, _, err := newCatalogStore(context.Background(), cfg, nil); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestNewProfileExtractorErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *AIConfig
	}{
		{name: "nil", cfg: nil},
		{name: "unknown provider", cfg: &AIConfig{Provider: "llama"}},
		{name: "gemini without section", cfg: &AIConfig{Provider: "gemini"}},
		{name: "openai without key", cfg: &AIConfig{Provider: "openai", OpenAI: &OpenAIConfig{}}},
	}

	t.Setenv("OPENAI_API_KEY", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newProfileExtractor(context.Background(), tt.cfg, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewScorer(t *testing.T) {
	t.Parallel()

	o := &opportunity.Opportunity{Skills: []string{"Go"}}
	p := profile.CandidateProfile{Skills: []string{"go"}}

	a := newScorer(&MatchConfig{Seed: 7}).Score(p, o)
	b := newScorer(&MatchConfig{Seed: 7}).Score(p, o)
	if a.Value != b.Value {
		t.Fatalf("expected seeded scorers to agree, got %d and %d", a.Value, b.Value)
	}

	if matchLimit(nil) != matching.DefaultLimit {
		t.Fatalf("unexpected default limit")
	}
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	newCmd := func(value string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("output", outputText, "")
		if err := cmd.Flags().Set("output", value); err != nil {
			t.Fatalf("set output: %v", err)
		}
		return cmd
	}

	for _, value := range []string{outputText, outputJSON} {
		if got, err := outputFormat(newCmd(value)); err != nil || got != value {
			t.Fatalf("expected %q to be accepted, got %q, %v", value, got, err)
		}
	}

	for name, run := range map[string]func(*cobra.Command, []string) error{
		"match":        runMatch,
		"catalog list": runCatalogList,
		"catalog show": runCatalogShow,
	} {
		if err := run(newCmd("yaml"), []string{"1"}); err == nil || !strings.Contains(err.Error(), "unsupported output format") {
			t.Fatalf("%s: expected unsupported output format, got %v", name, err)
		}
	}
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/catalog"
	"github.com/spigell/intern-match/internal/document"
	"github.com/spigell/intern-match/internal/ingest"
	"github.com/spigell/intern-match/internal/profile"
	"github.com/spigell/intern-match/internal/recommend"
	"github.com/spigell/intern-match/internal/utils"
)

const (
	outputText = "text"
	outputJSON = "json"

	descriptionPreview = 100
)

type selectOption struct {
	Value string
	Label string
}

var educationOptions = []selectOption{
	{Value: "undergraduate", Label: "Undergraduate"},
	{Value: "graduate", Label: "Graduate"},
	{Value: "postgraduate", Label: "Post Graduate"},
}

var experienceOptions = []selectOption{
	{Value: "fresher", Label: "Fresher (No experience)"},
	{Value: "0-1", Label: "0-1 years"},
	{Value: "1-2", Label: "1-2 years"},
	{Value: "2+", Label: "2+ years"},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank opportunities for a candidate profile or a PDF resume",
	Example: `  intern-match match --skills "python, sql" --location Delhi --degree B.Tech
  intern-match match --interactive
  intern-match match --resume ./resume.pdf --output json
  intern-match match --resume s3://resumes/asha.pdf`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String(profile.KeyName, "", "candidate full name")
	matchCmd.Flags().String(profile.KeyEducation, "", "education level (undergraduate, graduate, postgraduate)")
	matchCmd.Flags().String(profile.KeyDegree, "", "degree or field of study, e.g. B.Tech Computer Science")
	matchCmd.Flags().String(profile.KeySkills, "", "comma-separated skills")
	matchCmd.Flags().String(profile.KeyInterests, "", "comma-separated areas of interest")
	matchCmd.Flags().String(profile.KeyLocation, "", "preferred location")
	matchCmd.Flags().String(profile.KeyExperience, "", "experience level (fresher, 0-1, 1-2, 2+)")

	matchCmd.Flags().BoolP("interactive", "i", false, "fill the profile in an interactive form")
	matchCmd.Flags().StringP("resume", "r", "", "PDF resume path or s3://bucket/key")
	matchCmd.Flags().IntP("limit", "n", 0, "maximum number of results (default match.limit)")
	matchCmd.Flags().StringP("output", "o", outputText, "output format: text or json")

	viper.BindPFlag("match.limit", matchCmd.Flags().Lookup("limit"))
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	log.Debug("starting", zap.String("app", app), zap.String("version", version))

	store, cleanup, err := newCatalogStore(ctx, config.Catalog, log)
	if err != nil {
		return err
	}
	defer cleanup()

	deps := recommend.Deps{
		Catalog: store,
		Scorer:  newScorer(config.Match),
		Logger:  log,
	}

	resume, _ := cmd.Flags().GetString("resume")
	if resume != "" {
		adapter, err := newIngestAdapter(ctx, config, log)
		if err != nil {
			return err
		}
		deps.Ingest = adapter
	}

	service, err := recommend.New(recommend.Config{Limit: matchLimit(config.Match)}, deps)
	if err != nil {
		return err
	}

	var rec *recommend.Recommendation
	if resume != "" {
		rec, err = recommendResume(ctx, service, config, resume)
	} else {
		var candidate profile.CandidateProfile
		candidate, err = profileFromInput(cmd)
		if err != nil {
			return err
		}
		rec, err = service.Recommend(ctx, candidate)
	}
	if err != nil {
		return err
	}

	if output == outputJSON {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	return writeRecommendation(cmd.OutOrStdout(), rec)
}

// outputFormat reads and validates the --output flag.
func outputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case outputText, outputJSON:
		return output, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", output)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func newIngestAdapter(ctx context.Context, config *Config, log *zap.Logger) (*ingest.Adapter, error) {
	extractor, err := newProfileExtractor(ctx, config.AI, log)
	if err != nil {
		return nil, err
	}

	return &ingest.Adapter{
		Documents: document.NewExtractor(log),
		Fields:    extractor,
		Timeout:   config.AI.Timeout,
		Logger:    log,
	}, nil
}

func recommendResume(ctx context.Context, service *recommend.Service, config *Config, location string) (*recommend.Recommendation, error) {
	var s3cfg document.S3Config
	if config.Documents != nil && config.Documents.S3 != nil {
		s3cfg = document.S3Config{
			Region:   config.Documents.S3.Region,
			Endpoint: config.Documents.S3.Endpoint,
		}
	}

	doc, err := document.NewLoader(s3cfg).Load(ctx, location)
	if err != nil {
		return nil, err
	}

	return service.RecommendResume(ctx, doc)
}

// profileFromInput builds the candidate from flags, or from the interactive
// form when requested.
func profileFromInput(cmd *cobra.Command) (profile.CandidateProfile, error) {
	values := make(map[string]any, len(profile.Keys))

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		form, err := promptProfile()
		if err != nil {
			return profile.CandidateProfile{}, err
		}
		values = form
	} else {
		for _, key := range profile.Keys {
			if value, _ := cmd.Flags().GetString(key); value != "" {
				values[key] = value
			}
		}
	}

	if len(values) == 0 {
		return profile.CandidateProfile{}, errors.New("no profile given: use the profile flags, --interactive or --resume")
	}

	return profile.Normalize(profile.RawFromMap(values)), nil
}

func promptProfile() (map[string]any, error) {
	values := make(map[string]any, len(profile.Keys))

	text := func(key, label string) error {
		p := promptui.Prompt{Label: label}
		value, err := p.Run()
		if err != nil {
			return err
		}
		values[key] = value
		return nil
	}
	choose := func(key, label string, options []selectOption) error {
		labels := make([]string, 0, len(options))
		for _, o := range options {
			labels = append(labels, o.Label)
		}
		p := promptui.Select{Label: label, Items: labels}
		idx, _, err := p.Run()
		if err != nil {
			return err
		}
		values[key] = options[idx].Value
		return nil
	}

	steps := []func() error{
		func() error { return text(profile.KeyName, "Full Name") },
		func() error { return choose(profile.KeyEducation, "Education Level", educationOptions) },
		func() error { return text(profile.KeyDegree, "Degree/Field of Study") },
		func() error { return text(profile.KeySkills, "Skills (comma-separated)") },
		func() error { return text(profile.KeyInterests, "Areas of Interest") },
		func() error { return text(profile.KeyLocation, "Preferred Location") },
		func() error { return choose(profile.KeyExperience, "Experience Level", experienceOptions) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("profile form: %w", err)
		}
	}

	return values, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecommendation(w io.Writer, rec *recommend.Recommendation) error {
	if len(rec.Results) == 0 {
		_, err := fmt.Fprintln(w, "No matching opportunities found.")
		return err
	}

	fmt.Fprintf(w, "%d Matches Found\n\n", len(rec.Results))
	for i, result := range rec.Results {
		o := result.Opportunity
		fmt.Fprintf(w, "%d. [%d%% Match, %s] %s\n", i+1, result.MatchScore, result.Tier(), o.Title)
		fmt.Fprintf(w, "   %s\n", o.Organization)
		fmt.Fprintf(w, "   Duration: %s | Stipend: %s | Location: %s\n", valueOr(o.Duration), valueOr(o.Stipend), valueOr(o.Location))
		if len(result.MatchingSkills) > 0 {
			fmt.Fprintf(w, "   Matching Skills: %s\n", strings.Join(result.MatchingSkills, ", "))
		}
		if o.Description != "" {
			fmt.Fprintf(w, "   %s\n", utils.TruncateForLog(o.Description, descriptionPreview))
		}
		fmt.Fprintf(w, "   id: %s\n\n", o.ID)
	}

	return nil
}

func valueOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// describeError maps an error class to a message for the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFileType):
		return "Please upload only PDF files."
	case errors.Is(err, ingest.ErrDocumentUnreadable):
		return "Failed to read the PDF. Please check the file and try again."
	case errors.Is(err, ingest.ErrExtractionFailed):
		return "Failed to process the resume. Please try again."
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return "Failed to load internships."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

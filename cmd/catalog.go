package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/catalog"
	"github.com/spigell/intern-match/internal/filtering"
	"github.com/spigell/intern-match/internal/opportunity"
	"github.com/spigell/intern-match/internal/utils"
)

const similarCount = 2

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the opportunity catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List opportunities, optionally filtered",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one opportunity with similar ones from the same organization",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd)

	catalogCmd.PersistentFlags().StringP("output", "o", outputText, "output format: text or json")

	catalogListCmd.Flags().StringP("search", "s", "", "search title, organization, skills and location")
	catalogListCmd.Flags().String("organization", "", "only this organization")
	catalogListCmd.Flags().String("mode", "", "work mode: remote, onsite or hybrid")
	catalogListCmd.Flags().String("level", "", "level: central or state")
	catalogListCmd.Flags().Bool("open-only", false, "hide opportunities past their deadline")
}

func loadCatalog(ctx context.Context) (*opportunity.Opportunities, *zap.Logger, error) {
	log, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("getting a config: %w", err)
	}

	store, cleanup, err := newCatalogStore(ctx, config.Catalog, log)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	items, err := catalog.Load(ctx, store)
	if err != nil {
		return nil, nil, err
	}

	return items, log, nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	items, log, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := &filtering.Config{}
	cfg.Query, _ = cmd.Flags().GetString("search")
	cfg.Organization, _ = cmd.Flags().GetString("organization")
	cfg.Mode, _ = cmd.Flags().GetString("mode")
	cfg.Level, _ = cmd.Flags().GetString("level")
	cfg.OpenOnly, _ = cmd.Flags().GetBool("open-only")

	filtered, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: log}, filtering.Steps(), items)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}

	log.Info("catalog listed", zap.Int("total", items.Len()), zap.Int("shown", filtered.Len()))

	if output == outputJSON {
		return writeJSON(cmd.OutOrStdout(), filtered.Items)
	}
	return writeOpportunities(cmd.OutOrStdout(), filtered.Items)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	items, log, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()

	target := items.FindByID(args[0])
	if target == nil {
		return fmt.Errorf("opportunity not found: %s", args[0])
	}
	similar := items.Similar(target, similarCount)

	if output == outputJSON {
		return writeJSON(cmd.OutOrStdout(), struct {
			Opportunity *opportunity.Opportunity   `json:"opportunity"`
			Similar     []*opportunity.Opportunity `json:"similar"`
		}{target, similar})
	}

	w := cmd.OutOrStdout()
	writeDetail(w, target)
	if len(similar) > 0 {
		fmt.Fprintf(w, "\nSimilar Opportunities\n")
		writeOpportunities(w, similar)
	}
	return nil
}

func writeOpportunities(w io.Writer, items []*opportunity.Opportunity) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No opportunities found.")
		return err
	}
	for _, o := range items {
		fmt.Fprintf(w, "%s  %s\n", o.ID, o.Title)
		fmt.Fprintf(w, "    %s | %s | %s | deadline %s\n", o.Organization, valueOr(o.Location), valueOr(string(o.Mode)), valueOr(o.Deadline))
		if o.Description != "" {
			fmt.Fprintf(w, "    %s\n", utils.TruncateForLog(o.Description, descriptionPreview))
		}
	}
	return nil
}

func writeDetail(w io.Writer, o *opportunity.Opportunity) {
	fmt.Fprintf(w, "%s\n%s", o.Title, o.Organization)
	if o.Department != "" {
		fmt.Fprintf(w, ", %s", o.Department)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Duration: %s | Stipend: %s | Location: %s (%s) | Level: %s\n",
		valueOr(o.Duration), valueOr(o.Stipend), valueOr(o.Location), valueOr(string(o.Mode)), valueOr(string(o.Level)))
	fmt.Fprintf(w, "Deadline: %s | Posted: %s\n", valueOr(o.Deadline), valueOr(o.Posted))
	if o.Eligibility != "" {
		fmt.Fprintf(w, "Eligibility: %s\n", o.Eligibility)
	}
	if len(o.Skills) > 0 {
		fmt.Fprintf(w, "Skills: %s\n", strings.Join(o.Skills, ", "))
	}
	if o.Description != "" {
		fmt.Fprintf(w, "\n%s\n", o.Description)
	}
	writeList(w, "Objectives", o.Objectives)
	writeList(w, "Benefits", o.Benefits)
	writeList(w, "How to Apply", o.ApplicationProcess)
	if o.ApplicationLink != "" {
		fmt.Fprintf(w, "\nApply: %s\n", o.ApplicationLink)
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

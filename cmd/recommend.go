package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/spf13/cobra"
)

// recommendCmd blends repository and issue searches across the profile.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get personalized repository and issue recommendations",
	Long: `Search repositories for up to three of your languages and issues for up
to two, then merge, deduplicate and rank everything against your profile.

A failing search for one language is logged and skipped.

Examples:
  osscompass recommend --languages go,python,rust --experience intermediate
  osscompass recommend --output csv --output-file picks.csv`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		rec, err := recommender.Recommend(rootCtx, cfg.Profile())
		if err != nil {
			contract.LogFatal("Failed to build recommendations", err)
		}

		view := currentView()
		rec.Repositories = view.Repositories(rec.Repositories)
		rec.Issues = view.Issues(rec.Issues)
		if err := outWriter.WriteRecommendations(rec, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write recommendations", err)
		}
	},
}

// repoCmd shows one repository with its open issues.
var repoCmd = &cobra.Command{
	Use:   "repo <id>",
	Short: "Score a single repository and its open issues",
	Long: `Look up a repository by its numeric GitHub ID and score it together
with its open issues.

Examples:
  osscompass repo 23096959 --languages go --explain`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid repository id %q: must be a positive integer", args[0])
		}

		start := time.Now()
		detail, err := recommender.RepositoryDetail(rootCtx, id, cfg.Profile())
		if err != nil {
			return fmt.Errorf("repository lookup failed: %w", err)
		}

		detail.Issues = currentView().Issues(detail.Issues)
		return outWriter.WriteRepositoryDetail(detail, cfg, time.Since(start))
	},
}

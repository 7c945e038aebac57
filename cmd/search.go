package cmd

import (
	"strings"
	"time"

	"github.com/huangsam/osscompass/core"
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"github.com/spf13/cobra"
)

// primaryLanguage returns the flag value or the first configured language.
func primaryLanguage(flag string) string {
	if flag != "" {
		return flag
	}
	if len(cfg.Languages) > 0 {
		return cfg.Languages[0]
	}
	return ""
}

// reposCmd searches and ranks repositories.
var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Find repositories that match your skills",
	Long: `Search GitHub repositories and rank them by how well they fit your profile.

Each repository is scored out of 85 from skill match, difficulty fit,
recent activity and popularity. Repositories scoring below 30 are dropped
unless --min-score asks for something stricter.

Examples:
  # Go repositories about CLIs with at least 500 stars
  osscompass repos --languages go --topic cli --min-stars 500

  # Explain each score
  osscompass repos --languages python,django --explain`,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		language, _ := cmd.Flags().GetString("language")
		topic, _ := cmd.Flags().GetString("topic")
		minStars, _ := cmd.Flags().GetInt("min-stars")
		maxStars, _ := cmd.Flags().GetInt("max-stars")
		page, _ := cmd.Flags().GetInt("page")

		criteria := schema.RepoCriteria{
			Language: primaryLanguage(language),
			Topic:    topic,
			MinStars: minStars,
			MaxStars: maxStars,
			Page:     page,
		}

		start := time.Now()
		repos, err := recommender.Repositories(rootCtx, criteria, cfg.Profile())
		if err != nil {
			contract.LogFatal("Failed to search repositories", err)
		}
		if err := outWriter.WriteRepositories(currentView().Repositories(repos), cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write repositories", err)
		}
	},
}

// issuesCmd searches and ranks issues.
var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Find open issues that match your skills",
	Long: `Search open GitHub issues and rank them by how well they fit your profile.

Difficulty is inferred from labels. Without --labels the search uses labels
suited to your experience: "good first issue" for beginners, "help wanted"
for everyone else.

Examples:
  # Beginner friendly Rust issues
  osscompass issues --languages rust --experience beginner

  # Only Hacktoberfest issues as JSON
  osscompass issues --languages typescript --filter hacktoberfest --output json`,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		language, _ := cmd.Flags().GetString("language")
		labels, _ := cmd.Flags().GetStringSlice("labels")
		page, _ := cmd.Flags().GetInt("page")

		criteria := schema.IssueCriteria{
			Language: primaryLanguage(language),
			Labels:   schema.SplitList(strings.Join(labels, ",")),
			Page:     page,
		}
		if len(criteria.Labels) == 0 {
			criteria.Labels = core.LabelsFor(cfg.Experience)
		}

		start := time.Now()
		issues, err := recommender.Issues(rootCtx, criteria, cfg.Profile())
		if err != nil {
			contract.LogFatal("Failed to search issues", err)
		}
		if err := outWriter.WriteIssues(currentView().Issues(issues), cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write issues", err)
		}
	},
}

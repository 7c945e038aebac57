package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/osscompass/core"
	"github.com/huangsam/osscompass/internal/github"
	"github.com/huangsam/osscompass/schema"
	"github.com/spf13/cobra"
)

// scoreCmd scores saved GitHub payloads without network access.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score saved GitHub search results offline",
	Long: `Score repositories or issues from a JSON file instead of calling GitHub.

The file may hold a search response ({"items": [...]}) as returned by the
GitHub search API or a bare JSON array.

Examples:
  gh api 'search/repositories?q=language:go' > repos.json
  osscompass score repos repos.json --languages go --explain

  osscompass score issues issues.json --repo-language python --output json`,
}

// scoreReposCmd scores a saved repository payload.
var scoreReposCmd = &cobra.Command{
	Use:     "repos <file>",
	Short:   "Score repositories from a JSON file",
	Args:    cobra.ExactArgs(1),
	PreRunE: offlineSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		start := time.Now()
		repos, err := decodeFile(args[0], github.DecodeRepositories)
		if err != nil {
			return err
		}

		asOf := time.Now()
		profile := cfg.Profile()
		scored := make([]schema.ScoredRepository, len(repos))
		for i, repo := range repos {
			scored[i] = core.ScoreRepository(repo, profile, asOf)
		}
		return outWriter.WriteRepositories(currentView().Repositories(scored), cfg, time.Since(start))
	},
}

// scoreIssuesCmd scores a saved issue payload.
var scoreIssuesCmd = &cobra.Command{
	Use:     "issues <file>",
	Short:   "Score issues from a JSON file",
	Args:    cobra.ExactArgs(1),
	PreRunE: offlineSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoLanguage, _ := cmd.Flags().GetString("repo-language")

		start := time.Now()
		issues, err := decodeFile(args[0], github.DecodeIssues)
		if err != nil {
			return err
		}

		asOf := time.Now()
		profile := cfg.Profile()
		scored := make([]schema.ScoredIssue, len(issues))
		for i, issue := range issues {
			scored[i] = core.ScoreIssue(issue, profile, repoLanguage, asOf)
		}
		return outWriter.WriteIssues(currentView().Issues(scored), cfg, time.Since(start))
	},
}

// decodeFile opens path and decodes it with decode.
func decodeFile[T any](path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	items, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return items, nil
}

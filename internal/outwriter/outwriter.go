// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRepositories prints ranked repositories using the configured output format.
func (ow *OutWriter) WriteRepositories(repos []schema.ScoredRepository, cfg *contract.Config, duration time.Duration) error {
	return WriteRepositoryResults(repos, cfg, duration)
}

// WriteIssues prints ranked issues using the configured output format.
func (ow *OutWriter) WriteIssues(issues []schema.ScoredIssue, cfg *contract.Config, duration time.Duration) error {
	return WriteIssueResults(issues, cfg, duration)
}

// WriteRecommendations prints a merged recommendation using the configured output format.
func (ow *OutWriter) WriteRecommendations(rec schema.Recommendations, cfg *contract.Config, duration time.Duration) error {
	return WriteRecommendationResults(rec, cfg, duration)
}

// WriteRepositoryDetail prints one repository and its issues using the configured output format.
func (ow *OutWriter) WriteRepositoryDetail(detail schema.RepositoryDetail, cfg *contract.Config, duration time.Duration) error {
	return WriteRepositoryDetailResults(detail, cfg, duration)
}

// Column budgets used when sizing the name column of a table.
const (
	minNameWidth     = 15
	maxNameWidth     = 70
	explainWidth     = 35
	tableChromeWidth = 20
	repoFixedWidth   = 45 // Rank + Lang + Stars + Score + Label
	issueFixedWidth  = 60 // Rank + Repository + Difficulty + Score + Label
)

// getMaxTableNameWidth calculates the width left for the name column of a table
// after the fixed columns and borders are accounted for.
func getMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	baseWidth := fixedWidth + tableChromeWidth
	if cfg.Explain {
		baseWidth += explainWidth
	}

	available := termWidth - baseWidth
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}

// Package parquet provides row types and writers for exporting scored
// recommendations to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"github.com/parquet-go/parquet-go"
)

// RepositoryRow is one ranked repository.
type RepositoryRow struct {
	// Rank is the 1-based position after sorting
	Rank int32 `parquet:"rank,snappy"`

	RepositoryID int64   `parquet:"repository_id,snappy"`
	FullName     string  `parquet:"full_name,snappy"`
	HTMLURL      string  `parquet:"html_url,snappy"`
	Language     *string `parquet:"language,optional,snappy"`
	Description  *string `parquet:"description,optional,snappy"`
	Stars        int32   `parquet:"stars,snappy"`
	Forks        int32   `parquet:"forks,snappy"`
	OpenIssues   int32   `parquet:"open_issues,snappy"`

	// UpdatedAt is the last push or update reported by GitHub
	UpdatedAt time.Time `parquet:"updated_at,snappy"`

	ScoreTotal      float64 `parquet:"score_total,snappy"`
	SkillMatch      float64 `parquet:"skill_match,snappy"`
	DifficultyMatch float64 `parquet:"difficulty_match,snappy"`
	ActivityScore   float64 `parquet:"activity_score,snappy"`
	PopularityScore float64 `parquet:"popularity_score,snappy"`
	FreshnessScore  float64 `parquet:"freshness_score,snappy"`
	ScoreLabel      string  `parquet:"score_label,snappy"`

	// Breakdown holds the reasons joined by "; "
	Breakdown string `parquet:"breakdown,snappy"`
}

// IssueRow is one ranked issue.
type IssueRow struct {
	Rank int32 `parquet:"rank,snappy"`

	IssueID    int64  `parquet:"issue_id,snappy"`
	Number     int32  `parquet:"number,snappy"`
	Title      string `parquet:"title,snappy"`
	HTMLURL    string `parquet:"html_url,snappy"`
	Repository string `parquet:"repository,snappy"`
	Difficulty string `parquet:"difficulty,snappy"`

	// RequiredSkills holds the inferred skills joined by "|" (nullable)
	RequiredSkills *string `parquet:"required_skills,optional,snappy"`

	CreatedAt time.Time `parquet:"created_at,snappy"`

	ScoreTotal      float64 `parquet:"score_total,snappy"`
	SkillMatch      float64 `parquet:"skill_match,snappy"`
	DifficultyMatch float64 `parquet:"difficulty_match,snappy"`
	ActivityScore   float64 `parquet:"activity_score,snappy"`
	PopularityScore float64 `parquet:"popularity_score,snappy"`
	FreshnessScore  float64 `parquet:"freshness_score,snappy"`
	ScoreLabel      string  `parquet:"score_label,snappy"`
	Explanation     string  `parquet:"explanation,snappy"`
}

// MatchRow is a repository or issue in a mixed result set such as a
// recommendation or a repository detail.
type MatchRow struct {
	// Kind is either "repository" or "issue"
	Kind string `parquet:"kind,snappy"`
	Rank int32  `parquet:"rank,snappy"`

	ID      int64  `parquet:"id,snappy"`
	Name    string `parquet:"name,snappy"`
	HTMLURL string `parquet:"html_url,snappy"`

	ScoreTotal float64 `parquet:"score_total,snappy"`
	ScoreLabel string  `parquet:"score_label,snappy"`
	Summary    string  `parquet:"summary,snappy"`
}

// Match kinds.
const (
	RepositoryKind = "repository"
	IssueKind      = "issue"
)

// NewRepositoryRows converts ranked repositories into rows.
func NewRepositoryRows(repos []schema.ScoredRepository) []RepositoryRow {
	rows := make([]RepositoryRow, len(repos))
	for i, r := range repos {
		s := r.MatchScore
		rows[i] = RepositoryRow{
			Rank:            int32(i + 1),
			RepositoryID:    r.ID,
			FullName:        r.FullName,
			HTMLURL:         r.HTMLURL,
			Language:        optional(r.Language),
			Description:     optional(r.Description),
			Stars:           int32(r.Stars),
			Forks:           int32(r.Forks),
			OpenIssues:      int32(r.OpenIssues),
			UpdatedAt:       r.UpdatedAt,
			ScoreTotal:      s.Total,
			SkillMatch:      s.SkillMatch,
			DifficultyMatch: s.DifficultyMatch,
			ActivityScore:   s.ActivityScore,
			PopularityScore: s.PopularityScore,
			FreshnessScore:  s.FreshnessScore,
			ScoreLabel:      contract.GetPlainLabel(s.Total),
			Breakdown:       strings.Join(s.Breakdown, "; "),
		}
	}
	return rows
}

// NewIssueRows converts ranked issues into rows.
func NewIssueRows(issues []schema.ScoredIssue) []IssueRow {
	rows := make([]IssueRow, len(issues))
	for i, is := range issues {
		s := is.MatchScore
		rows[i] = IssueRow{
			Rank:            int32(i + 1),
			IssueID:         is.ID,
			Number:          int32(is.Number),
			Title:           is.Title,
			HTMLURL:         is.HTMLURL,
			Repository:      is.Repository.FullName,
			Difficulty:      string(is.Difficulty),
			RequiredSkills:  optional(strings.Join(is.RequiredSkills, "|")),
			CreatedAt:       is.CreatedAt,
			ScoreTotal:      s.Total,
			SkillMatch:      s.SkillMatch,
			DifficultyMatch: s.DifficultyMatch,
			ActivityScore:   s.ActivityScore,
			PopularityScore: s.PopularityScore,
			FreshnessScore:  s.FreshnessScore,
			ScoreLabel:      contract.GetPlainLabel(s.Total),
			Explanation:     is.Explanation,
		}
	}
	return rows
}

// NewMatchRows flattens repositories followed by issues, each ranked within its kind.
func NewMatchRows(repos []schema.ScoredRepository, issues []schema.ScoredIssue) []MatchRow {
	rows := make([]MatchRow, 0, len(repos)+len(issues))
	for i, r := range repos {
		rows = append(rows, MatchRow{
			Kind:       RepositoryKind,
			Rank:       int32(i + 1),
			ID:         r.ID,
			Name:       r.FullName,
			HTMLURL:    r.HTMLURL,
			ScoreTotal: r.MatchScore.Total,
			ScoreLabel: contract.GetPlainLabel(r.MatchScore.Total),
			Summary:    r.Description,
		})
	}
	for i, is := range issues {
		rows = append(rows, MatchRow{
			Kind:       IssueKind,
			Rank:       int32(i + 1),
			ID:         is.ID,
			Name:       is.Title,
			HTMLURL:    is.HTMLURL,
			ScoreTotal: is.MatchScore.Total,
			ScoreLabel: contract.GetPlainLabel(is.MatchScore.Total),
			Summary:    is.Explanation,
		})
	}
	return rows
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// WriteRepositoriesParquet writes repository rows to a Parquet file.
func WriteRepositoriesParquet(data []RepositoryRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteIssuesParquet writes issue rows to a Parquet file.
func WriteIssuesParquet(data []IssueRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteMatchesParquet writes mixed match rows to a Parquet file.
func WriteMatchesParquet(data []MatchRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows creates outputPath and writes data with a schema inferred from T's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

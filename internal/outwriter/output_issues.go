package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/internal/parquet"
	"github.com/huangsam/osscompass/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteIssueResults outputs ranked issues, dispatching on the configured format.
func WriteIssueResults(issues []schema.ScoredIssue, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rankIssues(issues))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForIssues(w, issues, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteIssuesParquet(parquet.NewIssueRows(issues), path)
		}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeIssueTable(issues, cfg, fmtFloat, w); err != nil {
				return err
			}
			return writeIssueFooter(issues, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// jsonIssue adds rank and label to a scored issue.
type jsonIssue struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	schema.ScoredIssue
}

func rankIssues(issues []schema.ScoredIssue) []jsonIssue {
	output := make([]jsonIssue, len(issues))
	for i, is := range issues {
		output[i] = jsonIssue{
			Rank:        i + 1,
			Label:       contract.GetPlainLabel(is.MatchScore.Total),
			ScoredIssue: is,
		}
	}
	return output
}

// writeIssueTable renders the human-readable issue table.
func writeIssueTable(issues []schema.ScoredIssue, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Issue", "Repository", "Difficulty", "Score", "Label"}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := getMaxTableNameWidth(cfg, issueFixedWidth)
	var data [][]string
	for i, is := range issues {
		repo := is.Repository.FullName
		if is.Repository.Owner == "" && is.Repository.Name == "" {
			repo = "-"
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.Truncate(is.Title, titleWidth),
			contract.Truncate(repo, 30),
			string(is.Difficulty),
			fmtFloat(is.MatchScore.Total),
			tableLabel(cfg, is.MatchScore.Total),
		}
		if cfg.Explain {
			row = append(row, is.Explanation)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeIssueFooter(issues []schema.ScoredIssue, cfg *contract.Config, duration time.Duration, w io.Writer) error {
	counts := map[schema.Difficulty]int{}
	for _, is := range issues {
		counts[is.Difficulty]++
	}
	if _, err := fmt.Fprintf(w, "Showing top %d issues (easy: %d, medium: %d, hard: %d)\n",
		len(issues), counts[schema.Easy], counts[schema.Medium], counts[schema.Hard]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Search completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeCSVResultsForIssues writes ranked issues as CSV.
func writeCSVResultsForIssues(w io.Writer, issues []schema.ScoredIssue, fmtFloat func(float64) string, intFmt string) error {
	header := append([]string{
		"rank",
		"title",
		"url",
		"repository",
		"number",
		"difficulty",
		"required_skills",
		"created_at",
	}, scoreHeader...)
	header = append(header, "explanation")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, is := range issues {
			rec := []string{
				strconv.Itoa(i + 1),
				is.Title,
				is.HTMLURL,
				is.Repository.FullName,
				fmt.Sprintf(intFmt, is.Number),
				string(is.Difficulty),
				strings.Join(is.RequiredSkills, "|"),
				formatTime(is.CreatedAt),
			}
			rec = append(rec, scoreRecord(is.MatchScore, fmtFloat)...)
			rec = append(rec, is.Explanation)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

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

// WriteRepositoryResults outputs ranked repositories, dispatching on the configured format.
func WriteRepositoryResults(repos []schema.ScoredRepository, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rankRepositories(repos))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRepositories(w, repos, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteRepositoriesParquet(parquet.NewRepositoryRows(repos), path)
		}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeRepositoryTable(repos, cfg, fmtFloat, intFmt, w); err != nil {
				return err
			}
			return writeRepositoryFooter(repos, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// jsonRepository adds rank and label to a scored repository.
type jsonRepository struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	schema.ScoredRepository
}

func rankRepositories(repos []schema.ScoredRepository) []jsonRepository {
	output := make([]jsonRepository, len(repos))
	for i, r := range repos {
		output[i] = jsonRepository{
			Rank:             i + 1,
			Label:            contract.GetPlainLabel(r.MatchScore.Total),
			ScoredRepository: r,
		}
	}
	return output
}

// writeRepositoryTable renders the human-readable repository table.
func writeRepositoryTable(repos []schema.ScoredRepository, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, w io.Writer) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Repository", "Lang", "Stars", "Score", "Label"}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, repoFixedWidth)
	var data [][]string
	for i, r := range repos {
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.Truncate(r.FullName, nameWidth),
			lang,
			fmt.Sprintf(intFmt, r.Stars),
			fmtFloat(r.MatchScore.Total),
			tableLabel(cfg, r.MatchScore.Total),
		}
		if cfg.Explain {
			row = append(row, formatBreakdown(r.MatchScore))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRepositoryFooter(repos []schema.ScoredRepository, cfg *contract.Config, duration time.Duration, w io.Writer) error {
	totalStars := 0
	for _, r := range repos {
		totalStars += r.Stars
	}
	if _, err := fmt.Fprintf(w, "Showing top %d repositories (total stars: %d)\n", len(repos), totalStars); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Search completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeCSVResultsForRepositories writes ranked repositories as CSV.
func writeCSVResultsForRepositories(w io.Writer, repos []schema.ScoredRepository, fmtFloat func(float64) string, intFmt string) error {
	header := append([]string{
		"rank",
		"repository",
		"url",
		"language",
		"stars",
		"forks",
		"open_issues",
		"updated_at",
	}, scoreHeader...)
	header = append(header, "breakdown")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range repos {
			rec := []string{
				strconv.Itoa(i + 1),
				r.FullName,
				r.HTMLURL,
				r.Language,
				fmt.Sprintf(intFmt, r.Stars),
				fmt.Sprintf(intFmt, r.Forks),
				fmt.Sprintf(intFmt, r.OpenIssues),
				formatTime(r.UpdatedAt),
			}
			rec = append(rec, scoreRecord(r.MatchScore, fmtFloat)...)
			rec = append(rec, strings.Join(r.MatchScore.Breakdown, "|"))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatTime renders t with the shared layout, or an empty string when unknown.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(contract.DateTimeFormat)
}

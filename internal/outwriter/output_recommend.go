package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/internal/parquet"
	"github.com/huangsam/osscompass/schema"
)

// WriteRecommendationResults outputs a merged recommendation, dispatching on the configured format.
func WriteRecommendationResults(rec schema.Recommendations, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, jsonRecommendations{
				Repositories: rankRepositories(rec.Repositories),
				Issues:       rankIssues(rec.Issues),
			})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForMatches(w, parquet.NewMatchRows(rec.Repositories, rec.Issues), fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteMatchesParquet(parquet.NewMatchRows(rec.Repositories, rec.Issues), path)
		}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecommendationText(rec, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// WriteRepositoryDetailResults outputs one repository and its ranked issues.
func WriteRepositoryDetailResults(detail schema.RepositoryDetail, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	repos := []schema.ScoredRepository{detail.Repository}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, jsonRepositoryDetail{
				Repository: rankRepositories(repos)[0],
				Issues:     rankIssues(detail.Issues),
			})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForMatches(w, parquet.NewMatchRows(repos, detail.Issues), fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteMatchesParquet(parquet.NewMatchRows(repos, detail.Issues), path)
		}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoryDetailText(detail, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

type jsonRecommendations struct {
	Repositories []jsonRepository `json:"repositories"`
	Issues       []jsonIssue      `json:"issues"`
}

type jsonRepositoryDetail struct {
	Repository jsonRepository `json:"repository"`
	Issues     []jsonIssue    `json:"issues"`
}

func writeRecommendationText(rec schema.Recommendations, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "📦 Recommended repositories (%d)\n", len(rec.Repositories)); err != nil {
		return err
	}
	if err := writeRepositoryTable(rec.Repositories, cfg, fmtFloat, intFmt, w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n🐛 Recommended issues (%d)\n", len(rec.Issues)); err != nil {
		return err
	}
	if err := writeIssueTable(rec.Issues, cfg, fmtFloat, w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Recommendation completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

func writeRepositoryDetailText(detail schema.RepositoryDetail, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, w io.Writer) error {
	r := detail.Repository
	if _, err := fmt.Fprintf(w, "%s  %s\n", r.FullName, r.HTMLURL); err != nil {
		return err
	}
	if r.Description != "" {
		if _, err := fmt.Fprintf(w, "%s\n", r.Description); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Score: %s (%s)\n", fmtFloat(r.MatchScore.Total), tableLabel(cfg, r.MatchScore.Total)); err != nil {
		return err
	}
	for _, reason := range r.MatchScore.Breakdown {
		if _, err := fmt.Fprintf(w, "  - %s\n", reason); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nOpen issues (%d)\n", len(detail.Issues)); err != nil {
		return err
	}
	if err := writeIssueTable(detail.Issues, cfg, fmtFloat, w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Lookup completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeCSVResultsForMatches writes a mixed repository and issue list as CSV.
func writeCSVResultsForMatches(w io.Writer, rows []parquet.MatchRow, fmtFloat func(float64) string) error {
	header := []string{"kind", "rank", "id", "name", "url", "score", "label", "summary"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range rows {
			rec := []string{
				row.Kind,
				strconv.Itoa(int(row.Rank)),
				strconv.FormatInt(row.ID, 10),
				row.Name,
				row.HTMLURL,
				fmtFloat(row.ScoreTotal),
				row.ScoreLabel,
				row.Summary,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

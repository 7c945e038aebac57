package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
)

// writeWithFile opens the output target, hands it to writer and closes it afterwards.
// An empty outputFile means stdout, which is never closed.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquetFile runs a Parquet writer against outputFile, which must be set.
func writeParquetFile(outputFile string, write func(path string) error) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	if err := write(outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header and then lets writeRows emit the records.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// createFormatters creates the number formatters shared by the table and CSV writers.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, intFmt
}

// scoreHeader names the sub-score columns emitted by scoreRecord.
var scoreHeader = []string{"score", "label", "skill_match", "difficulty_match", "activity", "popularity", "freshness"}

// scoreRecord renders a match score as CSV cells in scoreHeader order.
func scoreRecord(s schema.MatchScore, fmtFloat func(float64) string) []string {
	return []string{
		fmtFloat(s.Total),
		contract.GetPlainLabel(s.Total),
		fmtFloat(s.SkillMatch),
		fmtFloat(s.DifficultyMatch),
		fmtFloat(s.ActivityScore),
		fmtFloat(s.PopularityScore),
		fmtFloat(s.FreshnessScore),
	}
}

// formatBreakdown joins the score reasons for the explain column.
func formatBreakdown(s schema.MatchScore) string {
	if len(s.Breakdown) == 0 {
		return "-"
	}
	return strings.Join(s.Breakdown, "; ")
}

// tableLabel returns the score label, colored when the config allows it.
func tableLabel(cfg *contract.Config, score float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// PrintSummaries outputs ranked unit summaries, dispatching based on the output format configured.
func PrintSummaries(summaries []schema.UnitSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONSummaries(w, summaries)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummaries(w, summaries, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summaries, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryTable generates and writes the human-readable table.
func writeSummaryTable(w io.Writer, summaries []schema.UnitSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	headers := []string{"Rank", "Unit", "Score", "Label", "Top Dimension", "Base", "Ctrl", "Audit", "Biz", "Ops"}
	width := GetMaxTableTextWidth(cfg, 85)

	var data [][]string
	for i, s := range summaries {
		cs := s.ComponentScores
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(s.UnitName, width),
			fmtFloat(s.AverageScore),
			severityLabel(s.Severity, cfg.UseColors),
			fmt.Sprintf("%s %s", s.TopDimension.Dimension, fmtFloat(s.TopDimension.Score)),
			fmtFloat(cs.Baseline),
			fmtFloat(cs.ControlHealth),
			fmtFloat(cs.AuditIssueTrend),
			fmtFloat(cs.BusinessExternal),
			fmtFloat(cs.OperationalRisk),
		})
	}
	if err := writeTable(w, headers, data, true); err != nil {
		return err
	}

	counts := make(map[schema.Severity]int)
	for _, s := range summaries {
		counts[s.Severity]++
	}
	if _, err := fmt.Fprintf(w, "Showing %d units (critical: %d, high: %d, medium: %d, low: %d)\n",
		len(summaries), counts[schema.CriticalSeverity], counts[schema.HighSeverity],
		counts[schema.MediumSeverity], counts[schema.LowSeverity]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scoring completed in %v. Operational source: %s\n", duration, cfg.OperationalSource); err != nil {
		return err
	}
	return nil
}

// writeCSVSummaries writes the unit summaries in CSV format.
func writeCSVSummaries(w io.Writer, summaries []schema.UnitSummary, fmtFloat func(float64) string) error {
	header := []string{
		"rank", "unit", "category", "score", "label", "top_dimension", "top_dimension_score",
		"baseline", "control_health", "audit_issue_trend", "business_external", "operational_risk",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(summaries))
		for i, s := range summaries {
			cs := s.ComponentScores
			records = append(records, []string{
				strconv.Itoa(i + 1),
				s.UnitName,
				s.Category,
				fmtFloat(s.AverageScore),
				contract.GetPlainLabel(s.Severity),
				string(s.TopDimension.Dimension),
				fmtFloat(s.TopDimension.Score),
				fmtFloat(cs.Baseline),
				fmtFloat(cs.ControlHealth),
				fmtFloat(cs.AuditIssueTrend),
				fmtFloat(cs.BusinessExternal),
				fmtFloat(cs.OperationalRisk),
			})
		}
		return writeCSVRows(cw, records)
	})
}

// writeJSONSummaries writes the unit summaries in JSON format with rank and label added.
func writeJSONSummaries(w io.Writer, summaries []schema.UnitSummary) error {
	type JSONUnitSummary struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.UnitSummary
	}

	output := make([]JSONUnitSummary, len(summaries))
	for i, s := range summaries {
		output[i] = JSONUnitSummary{
			Rank:        i + 1,
			Label:       contract.GetPlainLabel(s.Severity),
			UnitSummary: s,
		}
	}
	return writeJSON(w, output)
}

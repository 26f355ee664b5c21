package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/internal/parquet"
	"github.com/alvinmin/auditradar/schema"
)

// entityTable describes how one entity kind is rendered in every output format.
type entityTable[T any] struct {
	kind      schema.EntityKind
	headers   []string
	row       func(T) []string // Table row, may truncate and colorize
	csvHeader []string
	csvRow    func(T) []string
	parquet   func(items []T, path string) error
	numeric   bool
}

// writeEntities dispatches based on the configured output format.
func writeEntities[T any](items []T, cfg *contract.Config, spec entityTable[T]) error {
	if items == nil {
		items = []T{}
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, items)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, spec.csvHeader, func(cw *csv.Writer) error {
				return writeCSVRows(cw, mapRows(items, spec.csvRow))
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := spec.parquet(items, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeTable(w, spec.headers, mapRows(items, spec.row), spec.numeric); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d %s\n", len(items), spec.kind)
			return err
		}, "Wrote table")
	}
	return nil
}

func mapRows[T any](items []T, row func(T) []string) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, row(it))
	}
	return rows
}

func unitTable(cfg *contract.Config) entityTable[schema.Unit] {
	width := GetMaxTableTextWidth(cfg, 60)
	return entityTable[schema.Unit]{
		kind:    schema.UnitEntity,
		headers: []string{"ID", "Unit", "Category", "Description"},
		row: func(u schema.Unit) []string {
			return []string{u.ID, u.Name, u.Category, contract.TruncateText(u.Description, width)}
		},
		csvHeader: []string{"id", "name", "category", "description"},
		csvRow: func(u schema.Unit) []string {
			return []string{u.ID, u.Name, u.Category, u.Description}
		},
		parquet: func(items []schema.Unit, path string) error {
			return parquet.WriteUnitsParquet(parquet.ConvertUnits(items), path)
		},
	}
}

func scoreTable(cfg *contract.Config) entityTable[schema.DimensionScore] {
	fmtFloat := createFormatters(cfg.Precision)
	row := func(d schema.DimensionScore) []string {
		return []string{
			d.ID,
			d.UnitID,
			string(d.Dimension),
			fmtFloat(d.Score),
			fmtFloat(d.PreviousScore),
			fmtFloat(d.PredictedScore),
			fmt.Sprintf("%.2f", d.Confidence),
		}
	}
	return entityTable[schema.DimensionScore]{
		kind:      schema.ScoreEntity,
		headers:   []string{"ID", "Unit ID", "Dimension", "Score", "Previous", "Predicted", "Confidence"},
		row:       row,
		csvHeader: []string{"id", "unit_id", "dimension", "score", "previous_score", "predicted_score", "confidence", "timestamp"},
		csvRow: func(d schema.DimensionScore) []string {
			return append(row(d), d.Timestamp.Format(contract.DateTimeFormat))
		},
		parquet: func(items []schema.DimensionScore, path string) error {
			return parquet.WriteDimensionScoresParquet(parquet.ConvertDimensionScores(items), path)
		},
		numeric: true,
	}
}

func heatmapTable(cfg *contract.Config) entityTable[schema.HeatmapCell] {
	fmtFloat := createFormatters(cfg.Precision)
	row := func(c schema.HeatmapCell) []string {
		return []string{c.ID, c.UnitID, string(c.Dimension), fmtFloat(c.Value), trendLabel(c.Trend)}
	}
	return entityTable[schema.HeatmapCell]{
		kind:      schema.HeatmapEntity,
		headers:   []string{"ID", "Unit ID", "Dimension", "Value", "Trend"},
		row:       row,
		csvHeader: []string{"id", "unit_id", "dimension", "value", "trend", "timestamp"},
		csvRow: func(c schema.HeatmapCell) []string {
			return []string{c.ID, c.UnitID, string(c.Dimension), fmtFloat(c.Value), string(c.Trend), c.Timestamp.Format(contract.DateTimeFormat)}
		},
		parquet: func(items []schema.HeatmapCell, path string) error {
			return parquet.WriteHeatmapCellsParquet(parquet.ConvertHeatmapCells(items), path)
		},
		numeric: true,
	}
}

func alertTable(cfg *contract.Config) entityTable[schema.Alert] {
	fmtFloat := createFormatters(cfg.Precision)
	width := GetMaxTableTextWidth(cfg, 75)
	return entityTable[schema.Alert]{
		kind:    schema.AlertEntity,
		headers: []string{"ID", "Severity", "Title", "Dimension", "Average", "Baseline", "Delta"},
		row: func(a schema.Alert) []string {
			return []string{
				a.ID,
				severityLabel(a.Severity, cfg.UseColors),
				contract.TruncateText(a.Title, width),
				string(a.Dimension),
				fmtFloat(a.AverageScore),
				fmtFloat(a.BaselineScore),
				fmt.Sprintf("%+.*f", cfg.Precision, a.Delta),
			}
		},
		csvHeader: []string{
			"id", "unit_id", "severity", "title", "description", "dimension", "timestamp",
			"average_score", "baseline_score", "delta", "top_dimensions",
		},
		csvRow: func(a schema.Alert) []string {
			return []string{
				a.ID,
				a.UnitID,
				contract.GetPlainLabel(a.Severity),
				a.Title,
				a.Description,
				string(a.Dimension),
				a.Timestamp.Format(contract.DateTimeFormat),
				fmtFloat(a.AverageScore),
				fmtFloat(a.BaselineScore),
				fmtFloat(a.Delta),
				formatDimensionValues(a.TopDimensions, fmtFloat),
			}
		},
		parquet: func(items []schema.Alert, path string) error {
			return parquet.WriteAlertsParquet(parquet.ConvertAlerts(items), path)
		},
	}
}

func newsTable(cfg *contract.Config) entityTable[schema.NewsItem] {
	width := GetMaxTableTextWidth(cfg, 70)
	return entityTable[schema.NewsItem]{
		kind:    schema.NewsEntity,
		headers: []string{"ID", "Date", "Headline", "Sentiment", "Sector", "Risk Type"},
		row: func(n schema.NewsItem) []string {
			return []string{n.ID, n.Date, contract.TruncateText(n.Headline, width), string(n.Sentiment), n.Sector, n.RiskType}
		},
		csvHeader: []string{"id", "date", "source", "headline", "summary", "category", "sentiment", "sector", "risk_type"},
		csvRow: func(n schema.NewsItem) []string {
			return []string{n.ID, n.Date, n.Source, n.Headline, n.Summary, n.Category, string(n.Sentiment), n.Sector, n.RiskType}
		},
		parquet: func(items []schema.NewsItem, path string) error {
			return parquet.WriteNewsItemsParquet(parquet.ConvertNewsItems(items), path)
		},
	}
}

// trendLabel returns an arrow for the trend of a heatmap cell.
func trendLabel(t schema.Trend) string {
	switch t {
	case schema.TrendUp:
		return "▲ up"
	case schema.TrendDown:
		return "▼ down"
	default:
		return "● stable"
	}
}

// formatDimensionValues joins dimension scores as "Fraud 92.5|Data/Tech 90.0".
func formatDimensionValues(values []schema.DimensionValue, fmtFloat func(float64) string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s %s", v.Dimension, fmtFloat(v.Score)))
	}
	return strings.Join(parts, "|")
}

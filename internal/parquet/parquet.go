// Package parquet provides data structures and functions for exporting auditradar
// entities to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alvinmin/auditradar/schema"
	"github.com/parquet-go/parquet-go"
)

// Unit represents one auditable unit.
// This struct maps to the auditradar_units database table.
type Unit struct {
	ID          string `parquet:"id,snappy"`
	Name        string `parquet:"name,snappy"`
	Category    string `parquet:"category,snappy"`
	Description string `parquet:"description,snappy"`
}

// DimensionScore represents the final and predicted score of a unit for one dimension.
// This struct maps to the auditradar_dimension_scores database table.
type DimensionScore struct {
	ID     string `parquet:"id,snappy"`
	UnitID string `parquet:"unit_id,snappy"`

	// Dimension is one of the seven risk dimensions
	Dimension string `parquet:"dimension,snappy,dict"`

	Score          float64 `parquet:"score,snappy"`
	PreviousScore  float64 `parquet:"previous_score,snappy"`
	PredictedScore float64 `parquet:"predicted_score,snappy"`
	Confidence     float64 `parquet:"confidence,snappy"`

	// Timestamp is the seeding time (stored as TIMESTAMP with nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`
}

// HeatmapCell represents one cell of the unit x dimension heatmap.
// This struct maps to the auditradar_heatmap_cells database table.
type HeatmapCell struct {
	ID        string    `parquet:"id,snappy"`
	UnitID    string    `parquet:"unit_id,snappy"`
	Dimension string    `parquet:"dimension,snappy,dict"`
	Value     float64   `parquet:"value,snappy"`
	Trend     string    `parquet:"trend,snappy,dict"`
	Timestamp time.Time `parquet:"timestamp,snappy"`
}

// Alert represents one unit alert with its component breakdown flattened into columns.
// This struct maps to the auditradar_alerts database table.
type Alert struct {
	ID            string    `parquet:"id,snappy"`
	UnitID        string    `parquet:"unit_id,snappy"`
	Severity      string    `parquet:"severity,snappy,dict"`
	Title         string    `parquet:"title,snappy"`
	Description   string    `parquet:"description,snappy"`
	Dimension     string    `parquet:"dimension,snappy,dict"`
	Timestamp     time.Time `parquet:"timestamp,snappy"`
	AverageScore  float64   `parquet:"average_score,snappy"`
	BaselineScore float64   `parquet:"baseline_score,snappy"`
	Delta         float64   `parquet:"delta,snappy"`

	BaselineContribution         float64 `parquet:"baseline_contribution,snappy"`
	ControlHealthContribution    float64 `parquet:"control_health_contribution,snappy"`
	AuditIssueTrendContribution  float64 `parquet:"audit_issue_trend_contribution,snappy"`
	BusinessExternalContribution float64 `parquet:"business_external_contribution,snappy"`
	OperationalRiskContribution  float64 `parquet:"operational_risk_contribution,snappy"`

	// TopDimensions lists the highest scoring dimensions as "name=score" pairs (nullable)
	TopDimensions *string `parquet:"top_dimensions,optional,snappy"`
}

// NewsItem represents one news item with its derived classification.
// This struct maps to the auditradar_news_items database table.
type NewsItem struct {
	ID        string `parquet:"id,snappy"`
	Date      string `parquet:"date,snappy"`
	Source    string `parquet:"source,snappy"`
	Headline  string `parquet:"headline,snappy"`
	Summary   string `parquet:"summary,snappy"`
	Category  string `parquet:"category,snappy,dict"`
	Sentiment string `parquet:"sentiment,snappy,dict"`
	Sector    string `parquet:"sector,snappy,dict"`
	RiskType  string `parquet:"risk_type,snappy,dict"`
}

// writeParquet writes a slice of rows to a Parquet file.
// The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
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

// WriteUnitsParquet writes units to a Parquet file.
func WriteUnitsParquet(data []Unit, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDimensionScoresParquet writes dimension scores to a Parquet file.
func WriteDimensionScoresParquet(data []DimensionScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteHeatmapCellsParquet writes heatmap cells to a Parquet file.
func WriteHeatmapCellsParquet(data []HeatmapCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAlertsParquet writes alerts to a Parquet file.
func WriteAlertsParquet(data []Alert, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteNewsItemsParquet writes news items to a Parquet file.
func WriteNewsItemsParquet(data []NewsItem, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertUnits converts schema.Unit records for Parquet export.
func ConvertUnits(records []schema.Unit) []Unit {
	result := make([]Unit, len(records))
	for i, r := range records {
		result[i] = Unit{ID: r.ID, Name: r.Name, Category: r.Category, Description: r.Description}
	}
	return result
}

// ConvertDimensionScores converts schema.DimensionScore records for Parquet export.
func ConvertDimensionScores(records []schema.DimensionScore) []DimensionScore {
	result := make([]DimensionScore, len(records))
	for i, r := range records {
		result[i] = DimensionScore{
			ID:             r.ID,
			UnitID:         r.UnitID,
			Dimension:      string(r.Dimension),
			Score:          r.Score,
			PreviousScore:  r.PreviousScore,
			PredictedScore: r.PredictedScore,
			Confidence:     r.Confidence,
			Timestamp:      r.Timestamp,
		}
	}
	return result
}

// ConvertHeatmapCells converts schema.HeatmapCell records for Parquet export.
func ConvertHeatmapCells(records []schema.HeatmapCell) []HeatmapCell {
	result := make([]HeatmapCell, len(records))
	for i, r := range records {
		result[i] = HeatmapCell{
			ID:        r.ID,
			UnitID:    r.UnitID,
			Dimension: string(r.Dimension),
			Value:     r.Value,
			Trend:     string(r.Trend),
			Timestamp: r.Timestamp,
		}
	}
	return result
}

// ConvertAlerts converts schema.Alert records for Parquet export.
func ConvertAlerts(records []schema.Alert) []Alert {
	result := make([]Alert, len(records))
	for i, r := range records {
		a := Alert{
			ID:            r.ID,
			UnitID:        r.UnitID,
			Severity:      string(r.Severity),
			Title:         r.Title,
			Description:   r.Description,
			Dimension:     string(r.Dimension),
			Timestamp:     r.Timestamp,
			AverageScore:  r.AverageScore,
			BaselineScore: r.BaselineScore,
			Delta:         r.Delta,
		}
		for _, c := range r.ComponentBreakdown {
			switch c.Component {
			case schema.BaselineComponent:
				a.BaselineContribution = c.Value
			case schema.ControlHealthComponent:
				a.ControlHealthContribution = c.Value
			case schema.AuditIssueTrendComponent:
				a.AuditIssueTrendContribution = c.Value
			case schema.BusinessExternalComponent:
				a.BusinessExternalContribution = c.Value
			case schema.OperationalRiskComponent:
				a.OperationalRiskContribution = c.Value
			}
		}
		if len(r.TopDimensions) > 0 {
			parts := make([]string, 0, len(r.TopDimensions))
			for _, d := range r.TopDimensions {
				parts = append(parts, fmt.Sprintf("%s=%.1f", d.Dimension, d.Score))
			}
			top := strings.Join(parts, ";")
			a.TopDimensions = &top
		}
		result[i] = a
	}
	return result
}

// ConvertNewsItems converts schema.NewsItem records for Parquet export.
func ConvertNewsItems(records []schema.NewsItem) []NewsItem {
	result := make([]NewsItem, len(records))
	for i, r := range records {
		result[i] = NewsItem{
			ID:        r.ID,
			Date:      r.Date,
			Source:    r.Source,
			Headline:  r.Headline,
			Summary:   r.Summary,
			Category:  r.Category,
			Sentiment: string(r.Sentiment),
			Sector:    r.Sector,
			RiskType:  r.RiskType,
		}
	}
	return result
}

// MockDimensionScores generates sample DimensionScore data for demonstration.
func MockDimensionScores() []DimensionScore {
	now := time.Now().UTC()
	return []DimensionScore{
		{
			ID: "score-1", UnitID: "unit-1", Dimension: string(schema.DataTech),
			Score: 73.8, PreviousScore: 80, PredictedScore: 81, Confidence: 0.83, Timestamp: now,
		},
		{
			ID: "score-2", UnitID: "unit-1", Dimension: string(schema.Fraud),
			Score: 61.2, PreviousScore: 60, PredictedScore: 66, Confidence: 0.83, Timestamp: now,
		},
		{
			ID: "score-3", UnitID: "unit-2", Dimension: string(schema.Financial),
			Score: 28.4, PreviousScore: 20, PredictedScore: 27, Confidence: 0.6, Timestamp: now,
		},
	}
}

// MockAlerts generates sample Alert data for demonstration.
func MockAlerts() []Alert {
	top := "Data/Tech=73.8;Operational=70.1;Fraud=61.2"
	return []Alert{
		{
			ID:                   "alert-1",
			UnitID:               "unit-1",
			Severity:             string(schema.HighSeverity),
			Title:                "High risk rising for Cybersecurity Program",
			Description:          "Average score 68.0 vs baseline 60.0 (+8.0).",
			Dimension:            string(schema.DataTech),
			Timestamp:            time.Now().UTC(),
			AverageScore:         68,
			BaselineScore:        60,
			Delta:                8,
			BaselineContribution: 17.5,
			TopDimensions:        &top,
		},
		{
			ID:            "alert-2",
			UnitID:        "unit-2",
			Severity:      string(schema.MediumSeverity),
			Title:         "Medium risk easing for Tax",
			Dimension:     string(schema.Financial),
			Timestamp:     time.Now().UTC(),
			AverageScore:  35,
			BaselineScore: 42,
			Delta:         -7,
		},
	}
}

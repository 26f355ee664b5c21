// Package schema has models, static scoring tables and shared constants for all parts of auditradar.
package schema

import "time"

// Unit is one auditable organizational unit.
type Unit struct {
	ID          string `json:"id"`          // Stable identifier derived from the unit name
	Name        string `json:"name"`        // Display name, matched case-insensitively by every scorer
	Category    string `json:"category"`    // Top-level grouping from the baseline table
	Description string `json:"description"` // Process scope or sub-category
}

// DimensionScore is the final score of one unit for one dimension.
type DimensionScore struct {
	ID             string    `json:"id"`
	UnitID         string    `json:"unitId"`
	Dimension      Dimension `json:"dimension"`
	Score          float64   `json:"score"`          // Final aggregated score (0-100)
	PreviousScore  float64   `json:"previousScore"`  // Scaled baseline score for the dimension
	PredictedScore float64   `json:"predictedScore"` // Final score plus momentum, clamped to 0-100
	Confidence     float64   `json:"confidence"`     // Prediction confidence (0.45-0.95)
	Timestamp      time.Time `json:"timestamp"`
}

// HeatmapCell mirrors a DimensionScore with a categorical trend.
type HeatmapCell struct {
	ID        string    `json:"id"`
	UnitID    string    `json:"unitId"`
	Dimension Dimension `json:"dimension"`
	Value     float64   `json:"value"`
	Trend     Trend     `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
}

// ComponentContribution is the averaged contribution of one component across all dimensions.
type ComponentContribution struct {
	Component Component `json:"component"`
	Value     float64   `json:"value"`
}

// DimensionValue pairs a dimension with a score.
type DimensionValue struct {
	Dimension Dimension `json:"dimension"`
	Score     float64   `json:"score"`
}

// Alert is emitted for a unit whose average score is high or moved sharply from its baseline.
// The structured fields are the source of truth. Description is rendered from them for display.
type Alert struct {
	ID                 string                  `json:"id"`
	UnitID             string                  `json:"unitId"`
	Severity           Severity                `json:"severity"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	Dimension          Dimension               `json:"dimension"` // Highest scoring dimension
	Timestamp          time.Time               `json:"timestamp"`
	AverageScore       float64                 `json:"averageScore"`
	BaselineScore      float64                 `json:"baselineScore"`
	Delta              float64                 `json:"delta"`
	ComponentBreakdown []ComponentContribution `json:"componentBreakdown"`
	TopDimensions      []DimensionValue        `json:"topDimensions"`
}

// NewsItem is a news record with derived sentiment, sector and risk type.
type NewsItem struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Source    string    `json:"source"`
	Headline  string    `json:"headline"`
	FullText  string    `json:"fullText"`
	Summary   string    `json:"summary"`
	Category  string    `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
	Sector    string    `json:"sector"`
	RiskType  string    `json:"riskType"`
}

// StoreStatus represents the status of the entity store.
type StoreStatus struct {
	Backend    string           `json:"backend"`
	Connected  bool             `json:"connected"`
	Version    uint             `json:"version"`
	TableSizes map[string]int64 `json:"table_sizes"`
}

// SeedStats summarizes one seeding run.
type SeedStats struct {
	Units            int                `json:"units"`
	Scores           int                `json:"scores"`
	HeatmapCells     int                `json:"heatmapCells"`
	Alerts           int                `json:"alerts"`
	News             int                `json:"news"`
	UnitsBySeverity  map[Severity]int   `json:"unitsBySeverity"`
	AlertsBySeverity map[Severity]int   `json:"alertsBySeverity"`
	AverageByUnit    map[string]float64 `json:"averageByUnit"`
	DurationSeconds  float64            `json:"durationSeconds"`
}

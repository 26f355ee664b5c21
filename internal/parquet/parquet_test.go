package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alvinmin/auditradar/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"unit", new(Unit), []string{"id", "name", "category", "description"}},
		{
			"dimension score", new(DimensionScore),
			[]string{"id", "unit_id", "dimension", "score", "previous_score", "predicted_score", "confidence", "timestamp"},
		},
		{"heatmap cell", new(HeatmapCell), []string{"id", "unit_id", "dimension", "value", "trend", "timestamp"}},
		{
			"alert", new(Alert),
			[]string{
				"id", "unit_id", "severity", "title", "description", "dimension", "timestamp",
				"average_score", "baseline_score", "delta", "baseline_contribution",
				"control_health_contribution", "audit_issue_trend_contribution",
				"business_external_contribution", "operational_risk_contribution", "top_dimensions",
			},
		},
		{
			"news item", new(NewsItem),
			[]string{"id", "date", "source", "headline", "summary", "category", "sentiment", "sector", "risk_type"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "Column %s should exist in schema", col)
			}
		})
	}
}

func TestWriteDimensionScoresParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "scores.parquet")
	data := MockDimensionScores()
	require.NotEmpty(t, data)

	require.NoError(t, WriteDimensionScoresParquet(data, outputPath))

	got := readAll[DimensionScore](t, outputPath)
	require.Len(t, got, len(data))
	for i := range data {
		assert.Equal(t, data[i].ID, got[i].ID)
		assert.Equal(t, data[i].Dimension, got[i].Dimension)
		assert.InDelta(t, data[i].Score, got[i].Score, 0.001)
		assert.InDelta(t, data[i].PredictedScore, got[i].PredictedScore, 0.001)
		assert.InDelta(t, data[i].Confidence, got[i].Confidence, 0.001)
		assert.WithinDuration(t, data[i].Timestamp, got[i].Timestamp, time.Microsecond)
	}
}

func TestWriteAlertsParquetNullableTopDimensions(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "alerts.parquet")
	data := MockAlerts()

	require.NoError(t, WriteAlertsParquet(data, outputPath))

	got := readAll[Alert](t, outputPath)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].TopDimensions)
	assert.Equal(t, *data[0].TopDimensions, *got[0].TopDimensions)
	assert.Nil(t, got[1].TopDimensions)
	assert.InDelta(t, -7.0, got[1].Delta, 0.001)
}

func TestWriteParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteHeatmapCellsParquet([]HeatmapCell{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteUnitsParquet([]Unit{{ID: "x"}}, "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}

func TestConvertAlerts(t *testing.T) {
	records := []schema.Alert{
		{
			ID:       "a1",
			Severity: schema.CriticalSeverity,
			ComponentBreakdown: []schema.ComponentContribution{
				{Component: schema.BaselineComponent, Value: 20.1},
				{Component: schema.ControlHealthComponent, Value: 15.2},
				{Component: schema.AuditIssueTrendComponent, Value: 10.3},
				{Component: schema.BusinessExternalComponent, Value: 8.4},
				{Component: schema.OperationalRiskComponent, Value: 5.5},
			},
			TopDimensions: []schema.DimensionValue{
				{Dimension: schema.Fraud, Score: 92.5},
				{Dimension: schema.DataTech, Score: 90},
			},
		},
		{ID: "a2"},
	}

	got := ConvertAlerts(records)
	require.Len(t, got, 2)
	assert.Equal(t, "critical", got[0].Severity)
	assert.Equal(t, 20.1, got[0].BaselineContribution)
	assert.Equal(t, 15.2, got[0].ControlHealthContribution)
	assert.Equal(t, 10.3, got[0].AuditIssueTrendContribution)
	assert.Equal(t, 8.4, got[0].BusinessExternalContribution)
	assert.Equal(t, 5.5, got[0].OperationalRiskContribution)
	require.NotNil(t, got[0].TopDimensions)
	assert.Equal(t, "Fraud=92.5;Data/Tech=90.0", *got[0].TopDimensions)
	assert.Nil(t, got[1].TopDimensions)
}

func TestConvertEntities(t *testing.T) {
	now := time.Now().UTC()
	units := ConvertUnits([]schema.Unit{{ID: "u1", Name: "Tax", Category: "Finance", Description: "Tax filings"}})
	require.Len(t, units, 1)
	assert.Equal(t, "Tax", units[0].Name)

	scores := ConvertDimensionScores([]schema.DimensionScore{{ID: "s1", Dimension: schema.Change, Score: 44.4, Timestamp: now}})
	require.Len(t, scores, 1)
	assert.Equal(t, "Change", scores[0].Dimension)
	assert.Equal(t, now, scores[0].Timestamp)

	cells := ConvertHeatmapCells([]schema.HeatmapCell{{ID: "h1", Trend: schema.TrendUp}})
	require.Len(t, cells, 1)
	assert.Equal(t, "up", cells[0].Trend)

	news := ConvertNewsItems([]schema.NewsItem{{ID: "n1", Sentiment: schema.NegativeSentiment, RiskType: "Fraud Risk"}})
	require.Len(t, news, 1)
	assert.Equal(t, "Negative", news[0].Sentiment)
	assert.Equal(t, "Fraud Risk", news[0].RiskType)
}

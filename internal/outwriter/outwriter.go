// Package outwriter renders scoring results, persisted entities and store status
// as tables, CSV, JSON or Parquet.
package outwriter

import (
	"time"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDrivers prints the explainability response of one unit.
func (ow *OutWriter) WriteDrivers(resp schema.DriversResponse, cfg *contract.Config) error {
	return PrintDrivers(resp, cfg)
}

// WriteSummaries prints ranked unit summary cards.
func (ow *OutWriter) WriteSummaries(summaries []schema.UnitSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintSummaries(summaries, cfg, duration)
}

// WriteUnits prints persisted units.
func (ow *OutWriter) WriteUnits(units []schema.Unit, cfg *contract.Config) error {
	return writeEntities(units, cfg, unitTable(cfg))
}

// WriteScores prints persisted dimension scores.
func (ow *OutWriter) WriteScores(scores []schema.DimensionScore, cfg *contract.Config) error {
	return writeEntities(scores, cfg, scoreTable(cfg))
}

// WriteHeatmap prints persisted heatmap cells.
func (ow *OutWriter) WriteHeatmap(cells []schema.HeatmapCell, cfg *contract.Config) error {
	return writeEntities(cells, cfg, heatmapTable(cfg))
}

// WriteAlerts prints persisted alerts.
func (ow *OutWriter) WriteAlerts(alerts []schema.Alert, cfg *contract.Config) error {
	return writeEntities(alerts, cfg, alertTable(cfg))
}

// WriteNews prints persisted news items.
func (ow *OutWriter) WriteNews(news []schema.NewsItem, cfg *contract.Config) error {
	return writeEntities(news, cfg, newsTable(cfg))
}

// WriteWeights prints the component weights, momentum coefficients and relevance matrix.
func (ow *OutWriter) WriteWeights(weights map[schema.Component]float64, cfg *contract.Config) error {
	return PrintWeights(weights, cfg)
}

// WriteSeedStats prints the summary of a seeding run.
func (ow *OutWriter) WriteSeedStats(stats schema.SeedStats, cfg *contract.Config) error {
	return PrintSeedStats(stats, cfg)
}

// WriteStoreStatus prints the status of the entity store.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(status, cfg)
}

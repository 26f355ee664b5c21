// Package contract provides interfaces and shared utilities for auditradar's internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/alvinmin/auditradar/schema"
)

// ErrTableNotFound is returned by a TableSource when an input table does not exist.
var ErrTableNotFound = errors.New("table not found")

// ErrNotFound is returned by an EntityStore when no entity matches the requested ID.
var ErrNotFound = errors.New("entity not found")

// TableSource yields the raw rows of the input tables.
// This allows the scoring engine to be tested with in-memory fixtures.
type TableSource interface {
	// Rows returns every data row of the given table. The header row is excluded.
	// It returns ErrTableNotFound (possibly wrapped) when the table is absent.
	Rows(ctx context.Context, kind schema.TableKind) ([]schema.Row, error)
}

// EntityStore persists the entities produced by a seeding run and serves
// the read-only list and get surface.
type EntityStore interface {
	// Reset removes every persisted entity so a reseed starts from empty tables.
	Reset(ctx context.Context) error

	// --- Writes (seeding only) ---

	SaveUnits(ctx context.Context, units []schema.Unit) error
	SaveScores(ctx context.Context, scores []schema.DimensionScore) error
	SaveHeatmap(ctx context.Context, cells []schema.HeatmapCell) error
	SaveAlerts(ctx context.Context, alerts []schema.Alert) error
	SaveNews(ctx context.Context, news []schema.NewsItem) error

	// --- Reads ---

	ListUnits(ctx context.Context) ([]schema.Unit, error)
	GetUnit(ctx context.Context, id string) (schema.Unit, error)
	ListScores(ctx context.Context) ([]schema.DimensionScore, error)
	GetScore(ctx context.Context, id string) (schema.DimensionScore, error)
	ListHeatmap(ctx context.Context) ([]schema.HeatmapCell, error)
	GetHeatmapCell(ctx context.Context, id string) (schema.HeatmapCell, error)
	ListAlerts(ctx context.Context) ([]schema.Alert, error)
	GetAlert(ctx context.Context, id string) (schema.Alert, error)
	ListNews(ctx context.Context) ([]schema.NewsItem, error)
	GetNewsItem(ctx context.Context, id string) (schema.NewsItem, error)

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// SeedObserver receives the statistics of a completed seeding run.
type SeedObserver interface {
	ObserveSeed(stats schema.SeedStats)
}

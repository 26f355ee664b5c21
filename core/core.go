// Package core has core logic for scoring, attribution and seeding.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/internal/iocache"
	"github.com/alvinmin/auditradar/internal/logging"
	"github.com/alvinmin/auditradar/internal/metrics"
	"github.com/alvinmin/auditradar/internal/outwriter"
	"github.com/alvinmin/auditradar/internal/parquet"
	"github.com/alvinmin/auditradar/schema"
)

// ErrUnknownEntityKind is returned when a list or get names an unknown collection.
var ErrUnknownEntityKind = errors.New("unknown entity kind")

var writer = outwriter.NewOutWriter()

// ExecuteSeed computes every unit, repopulates the store and prints the run statistics.
// When cfg.MetricsFile is set the seeding metrics are also written as a Prometheus textfile.
func ExecuteSeed(ctx context.Context, cfg *contract.Config, loader *DatasetLoader, store contract.EntityStore) error {
	logger := logging.FromContext(ctx)
	data, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	seeder := &Seeder{
		Scorer: NewScorer(data, cfg.ComputedWeights, cfg.OperationalSource).WithLogger(logger),
		Store:  store,
		Logger: logger,
	}
	if cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		seeder.Observer = recorder
	}

	res, err := seeder.Run(ctx)
	if err != nil {
		return err
	}
	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		logger.Info("Wrote seeding metrics", "path", cfg.MetricsFile)
	}
	return writer.WriteSeedStats(res.Stats, cfg)
}

// ExecuteDrivers prints the live explainability response of one unit.
func ExecuteDrivers(ctx context.Context, cfg *contract.Config, loader *DatasetLoader, unit string) error {
	data, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	resp, err := NewScorer(data, cfg.ComputedWeights, cfg.OperationalSource).Drivers(unit)
	if err != nil {
		return fmt.Errorf("%w: %q", err, unit)
	}
	return writer.WriteDrivers(resp, cfg)
}

// ExecuteSummary prints the live summary cards of every unit, highest average first.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, loader *DatasetLoader) error {
	start := time.Now()
	data, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	summaries := NewScorer(data, cfg.ComputedWeights, cfg.OperationalSource).
		WithLogger(logging.FromContext(ctx)).
		Summaries(cfg.Limit)
	return writer.WriteSummaries(summaries, cfg, time.Since(start))
}

// ParseEntityKind resolves a collection name such as "alerts" to its kind.
func ParseEntityKind(name string) (schema.EntityKind, error) {
	for _, kind := range schema.AllEntityKinds {
		if schema.SameName(string(kind), name) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownEntityKind, name, schema.AllEntityKinds)
}

// ExecuteList prints every persisted entity of one kind.
func ExecuteList(ctx context.Context, cfg *contract.Config, store contract.EntityStore, kind schema.EntityKind) error {
	switch kind {
	case schema.UnitEntity:
		units, err := store.ListUnits(ctx)
		if err != nil {
			return err
		}
		return writer.WriteUnits(units, cfg)
	case schema.ScoreEntity:
		scores, err := store.ListScores(ctx)
		if err != nil {
			return err
		}
		return writer.WriteScores(scores, cfg)
	case schema.HeatmapEntity:
		cells, err := store.ListHeatmap(ctx)
		if err != nil {
			return err
		}
		return writer.WriteHeatmap(cells, cfg)
	case schema.AlertEntity:
		alerts, err := store.ListAlerts(ctx)
		if err != nil {
			return err
		}
		return writer.WriteAlerts(alerts, cfg)
	case schema.NewsEntity:
		news, err := store.ListNews(ctx)
		if err != nil {
			return err
		}
		return writer.WriteNews(news, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
}

// ExecuteGet prints one persisted entity by ID.
func ExecuteGet(ctx context.Context, cfg *contract.Config, store contract.EntityStore, kind schema.EntityKind, id string) error {
	switch kind {
	case schema.UnitEntity:
		u, err := store.GetUnit(ctx, id)
		if err != nil {
			return err
		}
		return writer.WriteUnits([]schema.Unit{u}, cfg)
	case schema.ScoreEntity:
		s, err := store.GetScore(ctx, id)
		if err != nil {
			return err
		}
		return writer.WriteScores([]schema.DimensionScore{s}, cfg)
	case schema.HeatmapEntity:
		c, err := store.GetHeatmapCell(ctx, id)
		if err != nil {
			return err
		}
		return writer.WriteHeatmap([]schema.HeatmapCell{c}, cfg)
	case schema.AlertEntity:
		a, err := store.GetAlert(ctx, id)
		if err != nil {
			return err
		}
		return writer.WriteAlerts([]schema.Alert{a}, cfg)
	case schema.NewsEntity:
		n, err := store.GetNewsItem(ctx, id)
		if err != nil {
			return err
		}
		return writer.WriteNews([]schema.NewsItem{n}, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
}

// ExecuteWeights displays the active component weights and relevance matrix.
// This is a static display that does not require loading the dataset.
func ExecuteWeights(_ context.Context, cfg *contract.Config) error {
	return writer.WriteWeights(cfg.ComputedWeights, cfg)
}

// ExecuteExport writes every persisted collection to one Parquet file per kind under cfg.OutputDir.
// It returns the written file paths in entity kind order.
func ExecuteExport(ctx context.Context, cfg *contract.Config, store contract.EntityStore) ([]string, error) {
	logger := logging.FromContext(ctx)
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	exporters := map[schema.EntityKind]func(path string) (int, error){
		schema.UnitEntity: func(path string) (int, error) {
			units, err := store.ListUnits(ctx)
			if err != nil {
				return 0, err
			}
			return len(units), parquet.WriteUnitsParquet(parquet.ConvertUnits(units), path)
		},
		schema.ScoreEntity: func(path string) (int, error) {
			scores, err := store.ListScores(ctx)
			if err != nil {
				return 0, err
			}
			return len(scores), parquet.WriteDimensionScoresParquet(parquet.ConvertDimensionScores(scores), path)
		},
		schema.HeatmapEntity: func(path string) (int, error) {
			cells, err := store.ListHeatmap(ctx)
			if err != nil {
				return 0, err
			}
			return len(cells), parquet.WriteHeatmapCellsParquet(parquet.ConvertHeatmapCells(cells), path)
		},
		schema.AlertEntity: func(path string) (int, error) {
			alerts, err := store.ListAlerts(ctx)
			if err != nil {
				return 0, err
			}
			return len(alerts), parquet.WriteAlertsParquet(parquet.ConvertAlerts(alerts), path)
		},
		schema.NewsEntity: func(path string) (int, error) {
			news, err := store.ListNews(ctx)
			if err != nil {
				return 0, err
			}
			return len(news), parquet.WriteNewsItemsParquet(parquet.ConvertNewsItems(news), path)
		},
	}

	paths := make([]string, 0, len(schema.AllEntityKinds))
	for _, kind := range schema.AllEntityKinds {
		path := filepath.Join(cfg.OutputDir, string(kind)+".parquet")
		n, err := exporters[kind](path)
		if err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", kind, err)
		}
		logger.Info("Exported collection", "kind", kind, "rows", n, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// ExecuteMigrate runs the embedded migrations of the configured SQL backend.
func ExecuteMigrate(ctx context.Context, cfg *contract.Config) (iocache.MigrationResult, error) {
	res, err := iocache.Migrate(cfg.Backend, cfg.DBConnect, cfg.TargetVersion)
	if err != nil {
		return res, err
	}
	logging.FromContext(ctx).Info("Migration finished",
		"backend", res.Backend,
		"from", res.FromVersion,
		"to", res.ToVersion,
		"changed", res.Changed,
	)
	return res, nil
}

// ExecuteStatus prints backend, connectivity, migration version and table sizes of the store.
func ExecuteStatus(ctx context.Context, cfg *contract.Config, store contract.EntityStore) error {
	status, err := store.GetStatus(ctx)
	if err != nil {
		return err
	}
	return writer.WriteStoreStatus(status, cfg)
}

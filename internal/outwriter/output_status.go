package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

var displaySeverities = []schema.Severity{
	schema.CriticalSeverity,
	schema.HighSeverity,
	schema.MediumSeverity,
	schema.LowSeverity,
}

// PrintSeedStats outputs the summary of a seeding run.
func PrintSeedStats(stats schema.SeedStats, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"kind", "count"}, func(cw *csv.Writer) error {
				return writeCSVRows(cw, [][]string{
					{string(schema.UnitEntity), strconv.Itoa(stats.Units)},
					{string(schema.ScoreEntity), strconv.Itoa(stats.Scores)},
					{string(schema.HeatmapEntity), strconv.Itoa(stats.HeatmapCells)},
					{string(schema.AlertEntity), strconv.Itoa(stats.Alerts)},
					{string(schema.NewsEntity), strconv.Itoa(stats.News)},
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeedText(w, stats, cfg)
		}, "Wrote text")
	}
}

func writeSeedText(w io.Writer, stats schema.SeedStats, cfg *contract.Config) error {
	duration := time.Duration(stats.DurationSeconds * float64(time.Second)).Round(time.Millisecond)
	if _, err := fmt.Fprintf(w, "🌱 Seeded %d units, %d scores, %d heatmap cells, %d alerts and %d news items in %v\n",
		stats.Units, stats.Scores, stats.HeatmapCells, stats.Alerts, stats.News, duration); err != nil {
		return err
	}

	rows := make([][]string, 0, len(displaySeverities))
	for _, sev := range displaySeverities {
		rows = append(rows, []string{
			severityLabel(sev, cfg.UseColors),
			strconv.Itoa(stats.UnitsBySeverity[sev]),
			strconv.Itoa(stats.AlertsBySeverity[sev]),
		})
	}
	if err := writeTable(w, []string{"Severity", "Units", "Alerts"}, rows, true); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Store backend: %s\n", cfg.Backend)
	return err
}

// PrintStoreStatus outputs backend, connectivity, migration version and table sizes.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"table", "rows"}, func(cw *csv.Writer) error {
				records := make([][]string, 0, len(tables))
				for _, table := range tables {
					records = append(records, []string{table, strconv.FormatInt(status.TableSizes[table], 10)})
				}
				return writeCSVRows(cw, records)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Store Backend: %s\nConnected: %t\n", status.Backend, status.Connected); err != nil {
				return err
			}
			if !status.Connected {
				return nil
			}
			if status.Backend != string(schema.MemoryBackend) {
				if _, err := fmt.Fprintf(w, "Schema Version: %d\n", status.Version); err != nil {
					return err
				}
			}
			rows := make([][]string, 0, len(tables))
			for _, table := range tables {
				rows = append(rows, []string{table, strconv.FormatInt(status.TableSizes[table], 10)})
			}
			return writeTable(w, []string{"Table", "Rows"}, rows, false)
		}, "Wrote text")
	}
}

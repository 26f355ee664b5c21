// Package metrics records Prometheus gauges for seeding runs and writes them
// in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "auditradar"

// Recorder holds seeding metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	seedRuns        prometheus.Counter
	entities        *prometheus.GaugeVec
	unitsBySeverity *prometheus.GaugeVec
	alertsBySev     *prometheus.GaugeVec
	unitAverage     *prometheus.GaugeVec
	seedDuration    prometheus.Gauge
	lastSeed        prometheus.Gauge
}

var _ contract.SeedObserver = &Recorder{} // Compile-time check

// NewRecorder creates a Recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		seedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "runs_total",
			Help:      "Total completed seeding runs.",
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "entities",
			Help:      "Entities written by the last seeding run by kind.",
		}, []string{"kind"}),
		unitsBySeverity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "units_by_severity",
			Help:      "Units per severity of their average score in the last seeding run.",
		}, []string{"severity"}),
		alertsBySev: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "alerts_by_severity",
			Help:      "Alerts per severity emitted by the last seeding run.",
		}, []string{"severity"}),
		unitAverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "unit",
			Name:      "average_score",
			Help:      "Average final score across dimensions per unit.",
		}, []string{"unit"}),
		seedDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "duration_seconds",
			Help:      "Wall time of the last seeding run in seconds.",
		}),
		lastSeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful seeding run.",
		}),
	}
	r.registry.MustRegister(
		r.seedRuns,
		r.entities,
		r.unitsBySeverity,
		r.alertsBySev,
		r.unitAverage,
		r.seedDuration,
		r.lastSeed,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSeed records the statistics of a completed seeding run.
func (r *Recorder) ObserveSeed(stats schema.SeedStats) {
	r.seedRuns.Inc()

	counts := map[schema.EntityKind]int{
		schema.UnitEntity:    stats.Units,
		schema.ScoreEntity:   stats.Scores,
		schema.HeatmapEntity: stats.HeatmapCells,
		schema.AlertEntity:   stats.Alerts,
		schema.NewsEntity:    stats.News,
	}
	for kind, n := range counts {
		r.entities.WithLabelValues(string(kind)).Set(float64(n))
	}

	// All four severity labels are always present
	for _, sev := range []schema.Severity{schema.CriticalSeverity, schema.HighSeverity, schema.MediumSeverity, schema.LowSeverity} {
		r.unitsBySeverity.WithLabelValues(string(sev)).Set(float64(stats.UnitsBySeverity[sev]))
		r.alertsBySev.WithLabelValues(string(sev)).Set(float64(stats.AlertsBySeverity[sev]))
	}

	r.unitAverage.Reset()
	for unit, avg := range stats.AverageByUnit {
		r.unitAverage.WithLabelValues(unit).Set(avg)
	}

	r.seedDuration.Set(stats.DurationSeconds)
	r.lastSeed.SetToCurrentTime()
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %q: %w", path, err)
	}
	return nil
}

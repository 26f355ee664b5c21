package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alvinmin/auditradar/core/algo"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// SeedResult holds every entity produced by one seeding run.
type SeedResult struct {
	Units   []schema.Unit
	Scores  []schema.DimensionScore
	Heatmap []schema.HeatmapCell
	Alerts  []schema.Alert
	News    []schema.NewsItem
	Stats   schema.SeedStats
}

// Seeder computes every unit and repopulates the entity store.
type Seeder struct {
	Scorer   *Scorer
	Store    contract.EntityStore
	Observer contract.SeedObserver // Optional
	Logger   *slog.Logger
	Now      func() time.Time // Defaults to time.Now
}

// Build computes all entities without touching the store. Every entity of one run
// carries the same timestamp.
func (sd *Seeder) Build() SeedResult {
	start := time.Now()
	now := time.Now().UTC()
	if sd.Now != nil {
		now = sd.Now()
	}
	weights := sd.Scorer.Weights()

	var res SeedResult
	res.Stats = schema.SeedStats{
		UnitsBySeverity:  make(map[schema.Severity]int),
		AlertsBySeverity: make(map[schema.Severity]int),
		AverageByUnit:    make(map[string]float64),
	}

	for _, ev := range sd.Scorer.EvaluateAll() {
		name := ev.Unit.Name
		unitID := UnitID(name)
		res.Units = append(res.Units, schema.Unit{
			ID:          unitID,
			Name:        name,
			Category:    ev.Unit.Category,
			Description: unitDescription(ev.Unit),
		})

		for _, r := range ev.Dimensions {
			p := Predict(ev, r.Dimension)
			res.Scores = append(res.Scores, schema.DimensionScore{
				ID:             ScoreID(name, r.Dimension),
				UnitID:         unitID,
				Dimension:      r.Dimension,
				Score:          r.Score,
				PreviousScore:  schema.Round1(ev.Baseline[r.Dimension]),
				PredictedScore: p.Score,
				Confidence:     p.Confidence,
				Timestamp:      now,
			})
			res.Heatmap = append(res.Heatmap, schema.HeatmapCell{
				ID:        HeatmapID(name, r.Dimension),
				UnitID:    unitID,
				Dimension: r.Dimension,
				Value:     r.Score,
				Trend:     Trend(ev, r.Dimension, weights),
				Timestamp: now,
			})
		}

		if a, ok := EvaluateAlert(ev); ok {
			res.Alerts = append(res.Alerts, schema.Alert{
				ID:                 AlertID(name),
				UnitID:             unitID,
				Severity:           a.Severity,
				Title:              a.Title,
				Description:        a.Description,
				Dimension:          a.Dimension,
				Timestamp:          now,
				AverageScore:       a.AverageScore,
				BaselineScore:      a.BaselineScore,
				Delta:              a.Delta,
				ComponentBreakdown: a.Breakdown,
				TopDimensions:      a.TopDimensions,
			})
			res.Stats.AlertsBySeverity[a.Severity]++
		}

		res.Stats.UnitsBySeverity[ev.Severity]++
		res.Stats.AverageByUnit[name] = ev.Average
	}

	res.News = BuildNews(sd.Scorer.Dataset().News)

	res.Stats.Units = len(res.Units)
	res.Stats.Scores = len(res.Scores)
	res.Stats.HeatmapCells = len(res.Heatmap)
	res.Stats.Alerts = len(res.Alerts)
	res.Stats.News = len(res.News)
	res.Stats.DurationSeconds = time.Since(start).Seconds()
	return res
}

// Run builds all entities, resets the store and saves them.
func (sd *Seeder) Run(ctx context.Context) (SeedResult, error) {
	start := time.Now()
	res := sd.Build()

	if err := sd.Store.Reset(ctx); err != nil {
		return res, fmt.Errorf("failed to reset store: %w", err)
	}
	if err := sd.Store.SaveUnits(ctx, res.Units); err != nil {
		return res, fmt.Errorf("failed to save units: %w", err)
	}
	if err := sd.Store.SaveScores(ctx, res.Scores); err != nil {
		return res, fmt.Errorf("failed to save scores: %w", err)
	}
	if err := sd.Store.SaveHeatmap(ctx, res.Heatmap); err != nil {
		return res, fmt.Errorf("failed to save heatmap: %w", err)
	}
	if err := sd.Store.SaveAlerts(ctx, res.Alerts); err != nil {
		return res, fmt.Errorf("failed to save alerts: %w", err)
	}
	if err := sd.Store.SaveNews(ctx, res.News); err != nil {
		return res, fmt.Errorf("failed to save news: %w", err)
	}

	res.Stats.DurationSeconds = time.Since(start).Seconds()
	if sd.Observer != nil {
		sd.Observer.ObserveSeed(res.Stats)
	}
	if sd.Logger != nil {
		sd.Logger.Info("Seeding complete",
			"units", res.Stats.Units,
			"scores", res.Stats.Scores,
			"heatmap", res.Stats.HeatmapCells,
			"alerts", res.Stats.Alerts,
			"news", res.Stats.News,
			"source", sd.Scorer.Source(),
			"duration", time.Since(start),
		)
	}
	return res, nil
}

// BuildNews derives sentiment, sector and risk type for every news record.
func BuildNews(records []schema.NewsRecord) []schema.NewsItem {
	out := make([]schema.NewsItem, 0, len(records))
	for i, n := range records {
		out = append(out, schema.NewsItem{
			ID:        NewsID(i, n.Title),
			Date:      n.Date,
			Source:    n.Source,
			Headline:  n.Title,
			FullText:  n.FullText,
			Summary:   n.Summary,
			Category:  n.Category,
			Sentiment: algo.DeriveSentiment(n.Title, n.Summary),
			Sector:    algo.SectorFor(n.Category),
			RiskType:  algo.RiskTypeFor(n.Category),
		})
	}
	return out
}

func unitDescription(u schema.UnitBaseline) string {
	if u.ProcessScope != "" {
		return u.ProcessScope
	}
	return u.SubCategory
}

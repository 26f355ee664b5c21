package core

import (
	"github.com/alvinmin/auditradar/core/algo"
	"github.com/alvinmin/auditradar/schema"
)

// Summarize builds the summary card of one evaluated unit.
func Summarize(ev UnitEvaluation) schema.UnitSummary {
	s := schema.UnitSummary{
		UnitName:        ev.Unit.Name,
		Category:        ev.Unit.Category,
		AverageScore:    ev.Average,
		Severity:        ev.Severity,
		ComponentScores: ev.Components,
	}
	if top := algo.TopDimensions(ev.DimensionValues(), 1); len(top) > 0 {
		s.TopDimension = top[0]
	}
	return s
}

// Summaries evaluates every unit and ranks the cards by average score, highest first.
// A limit of zero or less returns every unit.
func (s *Scorer) Summaries(limit int) []schema.UnitSummary {
	evals := s.EvaluateAll()
	cards := make([]schema.UnitSummary, 0, len(evals))
	for _, ev := range evals {
		cards = append(cards, Summarize(ev))
	}
	return algo.RankSummaries(cards, limit)
}

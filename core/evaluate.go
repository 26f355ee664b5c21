package core

import (
	"errors"
	"fmt"

	"github.com/alvinmin/auditradar/core/agg"
	"github.com/alvinmin/auditradar/schema"
)

// ErrUnitNotFound is returned when a unit is not present in the baseline table.
var ErrUnitNotFound = errors.New("unit not found")

// UnitEvaluation is the full forward computation for one unit: component results,
// aggregated dimension scores and the unit-level average and severity.
type UnitEvaluation struct {
	Unit        schema.UnitBaseline
	Baseline    map[schema.Dimension]float64 // Scaled baseline per dimension
	Components  schema.ComponentScores
	Controls    ComponentResult[schema.ControlDriver]
	Issues      ComponentResult[schema.IssueDriver]
	Business    BusinessExternalResult
	Operational OperationalResult
	Dimensions  []agg.Result // Ordered as schema.AllDimensions
	Average     float64
	Severity    schema.Severity
}

// Evaluate computes every component and dimension score of a unit.
func (s *Scorer) Evaluate(name string) (UnitEvaluation, error) {
	unit, ok := s.data.FindUnit(name)
	if !ok {
		return UnitEvaluation{}, fmt.Errorf("%w: %q", ErrUnitNotFound, name)
	}
	return s.evaluateUnit(unit), nil
}

// EvaluateAll evaluates every unit of the baseline table in input order.
func (s *Scorer) EvaluateAll() []UnitEvaluation {
	out := make([]UnitEvaluation, 0, len(s.data.Units))
	seen := make(map[string]struct{}, len(s.data.Units))
	for _, unit := range s.data.Units {
		key := schema.NormalizeKey(unit.Name)
		if _, dup := seen[key]; dup {
			s.logger.Warn("Skipping duplicate unit row", "unit", unit.Name)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s.evaluateUnit(unit))
	}
	return out
}

func (s *Scorer) evaluateUnit(unit schema.UnitBaseline) UnitEvaluation {
	ev := UnitEvaluation{
		Unit:        unit,
		Baseline:    s.Baseline(unit),
		Controls:    s.ControlHealth(unit.Name),
		Issues:      s.AuditIssueTrend(unit.Name),
		Business:    s.BusinessExternal(unit.Name),
		Operational: s.OperationalRisk(unit.Name),
	}

	baselineTotal := 0.0
	for _, d := range schema.AllDimensions {
		baselineTotal += ev.Baseline[d]
	}
	ev.Components = schema.ComponentScores{
		Baseline:         schema.Round1(baselineTotal / float64(len(schema.AllDimensions))),
		ControlHealth:    schema.Round1(ev.Controls.Score),
		AuditIssueTrend:  schema.Round1(ev.Issues.Score),
		BusinessExternal: schema.Round1(ev.Business.Score),
		OperationalRisk:  schema.Round1(ev.Operational.Score),
	}

	ev.Dimensions = agg.AggregateAll(func(d schema.Dimension) map[schema.Component]float64 {
		return ev.Components.ForDimension(ev.Baseline[d])
	}, s.weights)
	ev.Average = agg.Average(ev.Dimensions)
	ev.Severity = agg.Severity(ev.Average)
	return ev
}

// Dimension returns the aggregate result of one dimension.
func (ev UnitEvaluation) Dimension(d schema.Dimension) agg.Result {
	for _, r := range ev.Dimensions {
		if r.Dimension == d {
			return r
		}
	}
	return agg.Result{Dimension: d}
}

// DimensionValues returns the final score of every dimension in display order.
func (ev UnitEvaluation) DimensionValues() []schema.DimensionValue {
	out := make([]schema.DimensionValue, 0, len(ev.Dimensions))
	for _, r := range ev.Dimensions {
		out = append(out, schema.DimensionValue{Dimension: r.Dimension, Score: r.Score})
	}
	return out
}

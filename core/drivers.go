package core

import (
	"fmt"

	"github.com/alvinmin/auditradar/schema"
)

// Drivers builds the explainability response for one unit.
func (s *Scorer) Drivers(name string) (schema.DriversResponse, error) {
	ev, err := s.Evaluate(name)
	if err != nil {
		return schema.DriversResponse{}, fmt.Errorf("failed to build drivers: %w", err)
	}
	return BuildDrivers(ev), nil
}

// BuildDrivers turns an evaluation into the per-dimension driver breakdown.
// Driver lists are unit-level evidence and repeat for every dimension. Only the scores,
// contributions and action texts vary by dimension.
func BuildDrivers(ev UnitEvaluation) schema.DriversResponse {
	controls := controlGaps(ev.Controls.Drivers)
	issues := ev.Issues.Drivers
	if len(issues) > schema.MaxExportedIssues {
		issues = issues[:schema.MaxExportedIssues]
	}

	resp := schema.DriversResponse{
		UnitName:             ev.Unit.Name,
		Category:             ev.Unit.Category,
		AverageAdjustedScore: ev.Average,
		Severity:             ev.Severity,
		ComponentScores:      ev.Components,
		OperationalSource:    ev.Operational.Source,
		OperationalMetrics:   nonNil(ev.Operational.Metrics),
		Dimensions:           make([]schema.DimensionDriver, 0, len(ev.Dimensions)),
	}

	for _, r := range ev.Dimensions {
		resp.Dimensions = append(resp.Dimensions, schema.DimensionDriver{
			Dimension:     r.Dimension,
			BaseScore:     schema.Round1(ev.Baseline[r.Dimension]),
			AdjustedScore: r.Score,
			Contributions: schema.NewContributions(r.Contributions),
			Controls:      controls,
			Issues:        nonNil(issues),
			Incidents:     nonNil(ev.Operational.Incidents),
			Regulations:   nonNil(ev.Business.Regulations),
			News:          nonNil(ev.Business.News),
			Cyber:         nonNil(ev.Operational.Cyber),
			Actions:       actionsFor(ev, r.Dimension, len(controls) > 0),
		})
	}
	return resp
}

// controlGaps keeps the controls that are not fully effective.
func controlGaps(drivers []schema.ControlDriver) []schema.ControlDriver {
	out := make([]schema.ControlDriver, 0, len(drivers))
	for _, d := range drivers {
		if d.Score < schema.ControlBothEffective {
			out = append(out, d)
		}
	}
	return out
}

// actionsFor picks the recommended action of each evidence family that has drivers.
func actionsFor(ev UnitEvaluation, d schema.Dimension, hasControlGaps bool) schema.Actions {
	var a schema.Actions
	if hasControlGaps {
		a.Controls = schema.ActionTexts[schema.ControlAction][d]
	}
	if len(ev.Issues.Drivers) > 0 {
		a.Issues = schema.ActionTexts[schema.IssueAction][d]
	}
	if len(ev.Business.Regulations) > 0 {
		a.Regulations = schema.ActionTexts[schema.RegulationAction][d]
	}
	if len(ev.Business.News) > 0 {
		a.News = schema.ActionTexts[schema.NewsAction][d]
	}
	if len(ev.Operational.Incidents) > 0 || len(ev.Operational.Cyber) > 0 {
		a.Operational = schema.ActionTexts[schema.OperationalAction][d]
	}
	return a
}

// nonNil keeps JSON output as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

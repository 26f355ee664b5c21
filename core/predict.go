package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/alvinmin/auditradar/core/agg"
	"github.com/alvinmin/auditradar/core/algo"
	"github.com/alvinmin/auditradar/schema"
)

// Prediction is the forward-looking annotation of one dimension score.
type Prediction struct {
	Score      float64 // Final score plus momentum, rounded to an integer and clamped to 0-100
	Confidence float64
	Momentum   float64
}

// signals returns the deviation of each non-baseline component from neutral,
// ordered as schema.NonBaselineComponents. Audit issue trend has no midpoint and is used as is.
func signals(c schema.ComponentScores) map[schema.Component]float64 {
	return map[schema.Component]float64{
		schema.ControlHealthComponent:    c.ControlHealth - schema.NeutralMidpoint,
		schema.AuditIssueTrendComponent:  c.AuditIssueTrend,
		schema.BusinessExternalComponent: c.BusinessExternal - schema.NeutralMidpoint,
		schema.OperationalRiskComponent:  c.OperationalRisk,
	}
}

// Predict derives the predicted next-period score and its confidence for one dimension.
func Predict(ev UnitEvaluation, d schema.Dimension) Prediction {
	sig := signals(ev.Components)

	weighted := 0.0
	relevance := 0.0
	for _, c := range schema.NonBaselineComponents {
		weighted += sig[c] * schema.MomentumCoefficients[c]
		relevance += schema.Relevance[c][d]
	}
	relevance /= float64(len(schema.NonBaselineComponents))
	momentum := weighted * schema.MomentumDamping * relevance

	final := ev.Dimension(d).Score
	return Prediction{
		Score:      schema.Clamp(math.Round(final+momentum), 0, 100),
		Confidence: confidence(sig),
		Momentum:   momentum,
	}
}

// confidence is high when every meaningful signal points the same way and lower when they disagree.
func confidence(sig map[schema.Component]float64) float64 {
	var count, positive, negative int
	for _, c := range schema.NonBaselineComponents {
		v := sig[c]
		if math.Abs(v) <= schema.SignalNoiseFloor {
			continue
		}
		count++
		if v > 0 {
			positive++
		} else {
			negative++
		}
	}
	share := float64(count) / schema.ConfidenceSignalSlot
	if positive == 0 || negative == 0 {
		return schema.Clamp(schema.AgreeConfidenceBase+share*schema.AgreeConfidenceSpan,
			schema.AgreeConfidenceMin, schema.AgreeConfidenceMax)
	}
	return schema.Clamp(schema.MixedConfidenceBase+share*schema.MixedConfidenceSpan,
		schema.MixedConfidenceMin, schema.MixedConfidenceMax)
}

// Trend compares the final score with a reference that keeps the unit's baseline but
// pins every other component to its neutral value.
func Trend(ev UnitEvaluation, d schema.Dimension, weights map[schema.Component]float64) schema.Trend {
	reference := agg.Aggregate(map[schema.Component]float64{
		schema.BaselineComponent:         ev.Baseline[d],
		schema.ControlHealthComponent:    schema.NeutralMidpoint,
		schema.AuditIssueTrendComponent:  schema.DefaultAuditIssueTrend,
		schema.BusinessExternalComponent: schema.NeutralMidpoint,
		schema.OperationalRiskComponent:  0,
	}, weights, d).Score

	final := ev.Dimension(d).Score
	switch {
	case final > reference+schema.TrendBand:
		return schema.TrendUp
	case final < reference-schema.TrendBand:
		return schema.TrendDown
	default:
		return schema.TrendStable
	}
}

// AlertDetails is the structured content of an alert before identifiers and timestamps are attached.
type AlertDetails struct {
	Severity      schema.Severity
	Title         string
	Description   string
	Dimension     schema.Dimension
	AverageScore  float64
	BaselineScore float64
	Delta         float64
	Breakdown     []schema.ComponentContribution
	TopDimensions []schema.DimensionValue
}

// EvaluateAlert decides whether a unit warrants an alert. It fires when the average score
// reaches the high boundary or moves from the baseline average by the alert delta or more.
func EvaluateAlert(ev UnitEvaluation) (AlertDetails, bool) {
	avg := ev.Average
	baseline := ev.Components.Baseline
	delta := schema.Round1(avg - baseline)
	if avg < schema.HighThreshold && math.Abs(delta) < schema.AlertDeltaThreshold {
		return AlertDetails{}, false
	}

	severity := agg.Severity(avg)
	// Only a rise escalates; a falling score keeps its band.
	if delta >= schema.AlertEscalationDelta && agg.SeverityRank(severity) < agg.SeverityRank(schema.HighSeverity) {
		severity = schema.HighSeverity
	}
	if agg.SeverityRank(severity) < agg.SeverityRank(schema.MediumSeverity) {
		severity = schema.MediumSeverity
	}

	details := AlertDetails{
		Severity:      severity,
		AverageScore:  avg,
		BaselineScore: baseline,
		Delta:         delta,
		Breakdown:     averageContributions(ev),
		TopDimensions: algo.TopDimensions(ev.DimensionValues(), schema.AlertTopDimensionCount),
	}
	if len(details.TopDimensions) > 0 {
		details.Dimension = details.TopDimensions[0].Dimension
	}
	details.Title = alertTitle(ev.Unit.Name, severity, delta)
	details.Description = RenderAlertDescription(details)
	return details, true
}

// averageContributions averages each component's contribution across all dimensions.
func averageContributions(ev UnitEvaluation) []schema.ComponentContribution {
	out := make([]schema.ComponentContribution, 0, len(schema.AllComponents))
	if len(ev.Dimensions) == 0 {
		return out
	}
	for _, c := range schema.AllComponents {
		total := 0.0
		for _, r := range ev.Dimensions {
			total += r.Contributions[c]
		}
		out = append(out, schema.ComponentContribution{
			Component: c,
			Value:     schema.Round1(total / float64(len(ev.Dimensions))),
		})
	}
	return out
}

func alertTitle(unit string, severity schema.Severity, delta float64) string {
	switch {
	case delta >= schema.AlertDeltaThreshold:
		return fmt.Sprintf("%s risk rising for %s", cases(severity), unit)
	case delta <= -schema.AlertDeltaThreshold:
		return fmt.Sprintf("%s risk easing for %s", cases(severity), unit)
	default:
		return fmt.Sprintf("%s risk for %s", cases(severity), unit)
	}
}

func cases(s schema.Severity) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// RenderAlertDescription renders the structured alert content as display text.
// The structured fields remain the source of truth.
func RenderAlertDescription(a AlertDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Average score %.1f vs baseline %.1f (%+.1f).", a.AverageScore, a.BaselineScore, a.Delta)

	if len(a.Breakdown) > 0 {
		parts := make([]string, 0, len(a.Breakdown))
		for _, c := range a.Breakdown {
			parts = append(parts, fmt.Sprintf("%s %.1f", schema.ComponentLabel(c.Component), c.Value))
		}
		b.WriteString(" Contributions: ")
		b.WriteString(strings.Join(parts, " | "))
		b.WriteString(".")
	}

	if len(a.TopDimensions) > 0 {
		parts := make([]string, 0, len(a.TopDimensions))
		for _, d := range a.TopDimensions {
			parts = append(parts, fmt.Sprintf("%s %.1f", d.Dimension, d.Score))
		}
		b.WriteString(" Top dimensions: ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(".")
	}
	return b.String()
}

// Package agg has the dimension aggregation logic that turns component scores into final scores.
package agg

import (
	"math"
	"sort"

	"github.com/alvinmin/auditradar/schema"
)

// Result is the aggregated score of one unit for one dimension.
type Result struct {
	Dimension     schema.Dimension
	Score         float64                      // Final score rounded to one decimal (0-100)
	Contributions map[schema.Component]float64 // Share of Score per component, rounded to one decimal
	WeightedSum   float64
	MaxPossible   float64
}

// Aggregate combines component scores into the final score of dimension d.
//
//	weightedSum = sum(score_c * w_c * relevance[c][d])
//	maxPossible = sum(100 * w_c * relevance[c][d])
//	score       = weightedSum / maxPossible * 100
//
// Each contribution reports its term's share of maxPossible rounded to one decimal. The
// rounded shares stay within one tenth of Score; see apportion.
// Missing component scores count as 0 and missing weights drop the component.
func Aggregate(scores, weights map[schema.Component]float64, d schema.Dimension) Result {
	terms := make(map[schema.Component]float64, len(schema.AllComponents))
	var weightedSum, maxPossible float64
	for _, c := range schema.AllComponents {
		factor := weights[c] * schema.Relevance[c][d]
		terms[c] = scores[c] * factor
		weightedSum += terms[c]
		maxPossible += 100 * factor
	}

	res := Result{
		Dimension:     d,
		Contributions: make(map[schema.Component]float64, len(terms)),
		WeightedSum:   weightedSum,
		MaxPossible:   maxPossible,
	}
	if maxPossible <= 0 {
		for _, c := range schema.AllComponents {
			res.Contributions[c] = 0
		}
		return res
	}

	res.Score = schema.Round1(weightedSum / maxPossible * 100)

	shares := make(map[schema.Component]float64, len(terms))
	for c, term := range terms {
		shares[c] = term / maxPossible * 100
	}
	res.Contributions = apportion(shares, res.Score)
	return res
}

// apportion rounds each share to one decimal. When the rounded parts drift more than one
// tenth from total, tenths move to the parts that lost the most in rounding (or away from
// those that gained the most) until the sum is back within one tenth.
func apportion(shares map[schema.Component]float64, total float64) map[schema.Component]float64 {
	type part struct {
		c      schema.Component
		tenths int64
		loss   float64 // raw tenths minus rounded tenths
	}
	parts := make([]part, 0, len(shares))
	var sum int64
	for _, c := range schema.AllComponents {
		raw := shares[c] * 10
		rounded := int64(math.Round(raw))
		parts = append(parts, part{c: c, tenths: rounded, loss: raw - float64(rounded)})
		sum += rounded
	}

	residue := int64(math.Round(total*10)) - sum
	if residue > 1 {
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].loss > parts[j].loss })
		for i := 0; residue > 1; i = (i + 1) % len(parts) {
			parts[i].tenths++
			residue--
		}
	}
	if residue < -1 {
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].loss < parts[j].loss })
		for i, guard := 0, 0; residue < -1 && guard < len(parts); i = (i + 1) % len(parts) {
			if parts[i].tenths > 0 {
				parts[i].tenths--
				residue++
				guard = 0
				continue
			}
			guard++
		}
	}

	out := make(map[schema.Component]float64, len(parts))
	for _, p := range parts {
		out[p.c] = float64(p.tenths) / 10
	}
	return out
}

// AggregateAll aggregates every dimension in display order.
func AggregateAll(scores func(schema.Dimension) map[schema.Component]float64, weights map[schema.Component]float64) []Result {
	results := make([]Result, 0, len(schema.AllDimensions))
	for _, d := range schema.AllDimensions {
		results = append(results, Aggregate(scores(d), weights, d))
	}
	return results
}

// Average returns the mean final score of the results rounded to one decimal.
func Average(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range results {
		total += r.Score
	}
	return schema.Round1(total / float64(len(results)))
}

// Severity classifies an average score with the canonical thresholds.
func Severity(avg float64) schema.Severity {
	switch {
	case avg > schema.CriticalThreshold:
		return schema.CriticalSeverity
	case avg >= schema.HighThreshold:
		return schema.HighSeverity
	case avg >= schema.MediumThreshold:
		return schema.MediumSeverity
	default:
		return schema.LowSeverity
	}
}

// SeverityRank orders severities from low (0) to critical (3).
func SeverityRank(s schema.Severity) int {
	switch s {
	case schema.CriticalSeverity:
		return 3
	case schema.HighSeverity:
		return 2
	case schema.MediumSeverity:
		return 1
	default:
		return 0
	}
}

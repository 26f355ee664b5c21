package algo

import (
	"sort"

	"github.com/alvinmin/auditradar/schema"
)

// RankSummaries sorts unit summaries by their average score in descending order
// and returns the top 'limit' units. A limit of zero or less returns every unit.
// Ties are broken by unit name so the order is stable across runs.
func RankSummaries(summaries []schema.UnitSummary, limit int) []schema.UnitSummary {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].AverageScore != summaries[j].AverageScore {
			return summaries[i].AverageScore > summaries[j].AverageScore
		}
		return summaries[i].UnitName < summaries[j].UnitName
	})
	if limit > 0 && len(summaries) > limit {
		return summaries[:limit]
	}
	return summaries
}

// TopDimensions returns the 'limit' highest scoring dimensions, keeping display order on ties.
func TopDimensions(values []schema.DimensionValue, limit int) []schema.DimensionValue {
	ranked := make([]schema.DimensionValue, len(values))
	copy(ranked, values)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// RankControls sorts control drivers by ascending score so the weakest controls come first,
// and returns at most 'limit' of them.
func RankControls(controls []schema.ControlDriver, limit int) []schema.ControlDriver {
	sort.SliceStable(controls, func(i, j int) bool {
		return controls[i].Score < controls[j].Score
	})
	if len(controls) > limit {
		return controls[:limit]
	}
	return controls
}

// RankIssues sorts issue drivers by weighted score in descending order
// and returns at most 'limit' of them.
func RankIssues(issues []schema.IssueDriver, limit int) []schema.IssueDriver {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].WeightedScore > issues[j].WeightedScore
	})
	if len(issues) > limit {
		return issues[:limit]
	}
	return issues
}

// RankIncidents sorts incident drivers by impact in descending order
// and returns at most 'limit' of them.
func RankIncidents(incidents []schema.IncidentDriver, limit int) []schema.IncidentDriver {
	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].Impact > incidents[j].Impact
	})
	if len(incidents) > limit {
		return incidents[:limit]
	}
	return incidents
}

// RankCyber puts ransomware-linked vulnerabilities first and returns at most 'limit' of them.
func RankCyber(cyber []schema.CyberDriver, limit int) []schema.CyberDriver {
	sort.SliceStable(cyber, func(i, j int) bool {
		return cyber[i].RansomwareKnown && !cyber[j].RansomwareKnown
	})
	if len(cyber) > limit {
		return cyber[:limit]
	}
	return cyber
}

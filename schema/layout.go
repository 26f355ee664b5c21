package schema

import "fmt"

// Layout holds the fixed column offsets of the positional tables.
type Layout struct {
	UnitNameColumn     int // Unit name in the baseline table
	CategoryColumn     int
	SubCategoryColumn  int
	ProcessScopeColumn int
	RatingsOffset      int // First of seven ratings, ordered as AllDimensions

	OperationalUnitColumn  int
	OperationalScoreColumn int // Precomputed predictive score
	SubMetricsOffset       int // First of nine sub-metrics, ordered as OperationalSubMetrics
}

// DefaultLayout returns the column offsets of the reference input files.
func DefaultLayout() Layout {
	return Layout{
		UnitNameColumn:         0,
		CategoryColumn:         1,
		SubCategoryColumn:      2,
		ProcessScopeColumn:     3,
		RatingsOffset:          4,
		OperationalUnitColumn:  0,
		OperationalScoreColumn: 10,
		SubMetricsOffset:       1,
	}
}

// Validate checks that no offset is negative and that the ratings and sub-metric
// ranges do not overlap the columns they sit beside.
func (l Layout) Validate() error {
	offsets := map[string]int{
		"unit name column":          l.UnitNameColumn,
		"category column":           l.CategoryColumn,
		"sub-category column":       l.SubCategoryColumn,
		"process scope column":      l.ProcessScopeColumn,
		"ratings offset":            l.RatingsOffset,
		"operational unit column":   l.OperationalUnitColumn,
		"operational score column":  l.OperationalScoreColumn,
		"operational metric offset": l.SubMetricsOffset,
	}
	for name, v := range offsets {
		if v < 0 {
			return fmt.Errorf("%s must not be negative (received %d)", name, v)
		}
	}

	ratingsEnd := l.RatingsOffset + len(AllDimensions)
	if l.UnitNameColumn >= l.RatingsOffset && l.UnitNameColumn < ratingsEnd {
		return fmt.Errorf("unit name column %d overlaps the ratings range [%d,%d)", l.UnitNameColumn, l.RatingsOffset, ratingsEnd)
	}

	metricsEnd := l.SubMetricsOffset + len(OperationalSubMetrics)
	if l.OperationalScoreColumn >= l.SubMetricsOffset && l.OperationalScoreColumn < metricsEnd {
		return fmt.Errorf("operational score column %d overlaps the sub-metric range [%d,%d)", l.OperationalScoreColumn, l.SubMetricsOffset, metricsEnd)
	}
	if l.OperationalUnitColumn >= l.SubMetricsOffset && l.OperationalUnitColumn < metricsEnd {
		return fmt.Errorf("operational unit column %d overlaps the sub-metric range [%d,%d)", l.OperationalUnitColumn, l.SubMetricsOffset, metricsEnd)
	}
	return nil
}

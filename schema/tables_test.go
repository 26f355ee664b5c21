package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevanceRowsSumToOne(t *testing.T) {
	for _, c := range AllComponents {
		row, ok := Relevance[c]
		require.True(t, ok, "missing relevance row for %s", c)
		require.Len(t, row, len(AllDimensions))

		sum := 0.0
		for _, d := range AllDimensions {
			sum += row[d]
		}
		assert.InDelta(t, 1.0, sum, 0.001, "relevance row %s", c)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range GetDefaultWeights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, GetDefaultWeights(), len(AllComponents))
}

func TestMomentumCoefficientsCoverNonBaseline(t *testing.T) {
	for _, c := range NonBaselineComponents {
		_, ok := MomentumCoefficients[c]
		assert.True(t, ok, "missing momentum coefficient for %s", c)
	}
	_, ok := MomentumCoefficients[BaselineComponent]
	assert.False(t, ok)
}

func TestActionTextsCoverEveryDimension(t *testing.T) {
	for _, area := range AllActionAreas {
		texts, ok := ActionTexts[area]
		require.True(t, ok, "missing action texts for %s", area)
		for _, d := range AllDimensions {
			assert.NotEmpty(t, texts[d], "missing action text for %s/%s", area, d)
		}
	}
}

func TestLookupTablesReferenceKnownUnits(t *testing.T) {
	// Every unit named by a lookup table should be spelled consistently across tables.
	seen := make(map[string]int)
	for _, profile := range NewsCategories {
		for _, u := range profile.Units {
			seen[u]++
		}
	}
	for _, units := range BusinessAreaUnits {
		for _, u := range units {
			seen[u]++
		}
	}
	for _, kw := range RegulationKeywords {
		for _, u := range kw.Units {
			seen[u]++
		}
	}
	for u := range seen {
		assert.Equal(t, strings.TrimSpace(u), u, "unit name %q has stray whitespace", u)
	}
	assert.GreaterOrEqual(t, len(seen), 25)
}

func TestSubMetricCount(t *testing.T) {
	assert.Len(t, OperationalSubMetrics, 9)
}

//go:build basic

package integration

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummaryMatchesDrivers checks that every summary row agrees with the unit's drivers report.
func TestSummaryMatchesDrivers(t *testing.T) {
	out, err := runCommand(t, "summary", "--output", "json")
	require.NoError(t, err)

	var summaries []schema.UnitSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 18)

	assert.True(t, sort.SliceIsSorted(summaries, func(i, j int) bool {
		return summaries[i].AverageScore > summaries[j].AverageScore
	}), "summary must be ranked by average score")

	for _, s := range summaries {
		t.Run(s.UnitName, func(t *testing.T) {
			out, err := runCommand(t, "drivers", s.UnitName, "--output", "json")
			require.NoError(t, err)

			var resp schema.DriversResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, s.UnitName, resp.UnitName)
			assert.Equal(t, s.AverageScore, resp.AverageAdjustedScore)
			assert.Equal(t, s.Severity, resp.Severity)
			require.Len(t, resp.Dimensions, len(schema.AllDimensions))
			for _, d := range resp.Dimensions {
				assert.GreaterOrEqual(t, d.AdjustedScore, 0.0)
				assert.LessOrEqual(t, d.AdjustedScore, 100.0)
			}
		})
	}
}

// TestDriversUnknownUnit checks that an unknown unit fails the command.
func TestDriversUnknownUnit(t *testing.T) {
	_, err := runCommand(t, "drivers", "No Such Unit")
	assert.Error(t, err)
}

// TestSeedIsIdempotent seeds a SQLite store twice and compares the listed scores.
func TestSeedIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "auditradar.db")
	store := []string{"--backend", "sqlite", "--db-connect", dbPath}

	listScores := func() []schema.DimensionScore {
		_, err := runCommand(t, append([]string{"seed"}, store...)...)
		require.NoError(t, err)
		out, err := runCommand(t, append([]string{"list", "scores", "--output", "json"}, store...)...)
		require.NoError(t, err)
		var scores []schema.DimensionScore
		require.NoError(t, json.Unmarshal([]byte(out), &scores))
		return scores
	}

	first := listScores()
	second := listScores()
	require.Len(t, first, 18*len(schema.AllDimensions))
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].PredictedScore, second[i].PredictedScore)
	}
}

// TestWeightsText checks that the weights table renders every dimension.
func TestWeightsText(t *testing.T) {
	out, err := runCommand(t, "weights", "--color", "no")
	require.NoError(t, err)
	for _, d := range schema.AllDimensions {
		assert.True(t, strings.Contains(out, string(d)), "missing dimension %s", d)
	}
}

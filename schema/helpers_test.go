package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{73.8333, 73.8},
		{73.85, 73.9},
		{0, 0},
		{100, 100},
		{49.94, 49.9},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round1(tt.in), 1e-9, "Round1(%v)", tt.in)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(120, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"integer", "3", 3},
		{"decimal", " 4.5 ", 4.5},
		{"percent", "87%", 87},
		{"thousands", "1,250", 1250},
		{"empty", "", 0},
		{"text", "n/a", 0},
		{"nan", "NaN", 0},
		{"inf", "+Inf", 0},
		{"negative", "-2", -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Cybersecurity Program", " cybersecurity program "))
	assert.False(t, SameName("IT Operations", "IT Change Management"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Microsoft", "Cisco", "Oracle"}, SplitList("Microsoft, Cisco;Oracle ,"))
	assert.Nil(t, SplitList("  "))
}

func TestRowFieldAndAt(t *testing.T) {
	header := HeaderIndex([]string{"Control ID", "Business Area", "Design Effectiveness"})
	row := NewRow(header, []string{" C-1 ", "Retail Banking", "Effective"})

	assert.Equal(t, "C-1", row.Field("control_id"))
	assert.Equal(t, "Retail Banking", row.Field("Business Area"))
	assert.Equal(t, "Effective", row.Field("missing", "designeffectiveness"))
	assert.Equal(t, "", row.Field("Operating Effectiveness"))
	assert.Equal(t, "Retail Banking", row.At(1))
	assert.Equal(t, "", row.At(7))
	assert.Equal(t, "", row.At(-1))
	assert.Equal(t, 3, row.Len())
}

func TestHeaderIndexFirstOccurrenceWins(t *testing.T) {
	index := HeaderIndex([]string{"Unit", "unit", ""})
	assert.Equal(t, 0, index["unit"])
	assert.Len(t, index, 1)
}

func TestComponentScoresForDimension(t *testing.T) {
	cs := ComponentScores{Baseline: 55, ControlHealth: 100, AuditIssueTrend: 20, BusinessExternal: 50, OperationalRisk: 60}
	m := cs.ForDimension(80)

	assert.Equal(t, 80.0, m[BaselineComponent])
	assert.Equal(t, 100.0, m[ControlHealthComponent])
	assert.Equal(t, 60.0, cs.Get(OperationalRiskComponent))
	assert.Equal(t, 55.0, cs.Get(BaselineComponent))
	assert.Equal(t, 0.0, cs.Get(Component("unknown")))
}

func TestLayoutValidate(t *testing.T) {
	assert.NoError(t, DefaultLayout().Validate())

	bad := DefaultLayout()
	bad.RatingsOffset = -1
	assert.Error(t, bad.Validate())

	overlap := DefaultLayout()
	overlap.OperationalScoreColumn = 3
	assert.ErrorContains(t, overlap.Validate(), "overlaps")
}

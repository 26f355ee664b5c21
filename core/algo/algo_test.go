package algo

import (
	"testing"

	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
)

func TestDeriveSentiment(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		summary string
		want    schema.Sentiment
	}{
		{"negative outweighs positive", "Markets rattle as fraud concerns rise", "", schema.NegativeSentiment},
		{"positive", "Bank posts record profit", "Strong growth in deposits", schema.PositiveSentiment},
		{"balanced", "Outage resolved", "Systems recover quickly", schema.NeutralSentiment},
		{"no keywords", "Quarterly update", "Board meeting scheduled", schema.NeutralSentiment},
		{"empty", "", "", schema.NeutralSentiment},
		{"case insensitive", "BREACH DISCLOSED", "", schema.NegativeSentiment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSentiment(tt.title, tt.summary))
		})
	}
}

func TestDeriveSentimentDeterministic(t *testing.T) {
	first := DeriveSentiment("Regulators probe card fraud", "Losses expected to rise")
	for range 10 {
		assert.Equal(t, first, DeriveSentiment("Regulators probe card fraud", "Losses expected to rise"))
	}
}

func TestRiskTypeAndSector(t *testing.T) {
	assert.Equal(t, "Cyber Risk", RiskTypeFor("Cybersecurity"))
	assert.Equal(t, "Technology", SectorFor(" cybersecurity "))
	assert.Equal(t, schema.DefaultRiskType, RiskTypeFor("Sports"))
	assert.Equal(t, schema.DefaultSector, SectorFor(""))
}

func TestUnitsForBusinessArea(t *testing.T) {
	tests := []struct {
		name string
		area string
		want []string
	}{
		{"mapped area", "Cards", []string{"Card Operations"}},
		{"list of areas", "IT, Cards", []string{"IT Operations", "IT Change Management", "Card Operations"}},
		{"duplicate units collapse", "IT; Technology", []string{"IT Operations", "IT Change Management", "Cybersecurity Program"}},
		{"unit name fallback", "Cybersecurity Program", []string{"Cybersecurity Program"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitsForBusinessArea(tt.area))
		})
	}
}

func TestUnitsForNewsCategory(t *testing.T) {
	assert.Equal(t, []string{"Fraud Management", "Card Operations"}, UnitsForNewsCategory("FRAUD"))
	assert.Nil(t, UnitsForNewsCategory("weather"))
}

func TestUnitsForRegulation(t *testing.T) {
	reg := schema.Regulation{ImpactedAreas: "Consumer Lending", ImpactedProcesses: "Fair lending reviews"}
	assert.Equal(t,
		[]string{"Retail Banking", "Consumer Lending", "Regulatory Compliance", "Commercial Lending"},
		UnitsForRegulation(reg))

	assert.True(t, RegulationAffects(reg, "commercial lending"))
	assert.False(t, RegulationAffects(reg, "Tax"))
	assert.Empty(t, UnitsForRegulation(schema.Regulation{}))
}

func TestRegulationDirection(t *testing.T) {
	tests := []struct {
		name        string
		direction   string
		wantRaised  int
		wantLowered int
		wantRaises  bool
	}{
		{"glyph and phrase", "↑ Increased compliance risk", 2, 0, true},
		{"lowered", "↓ Reduced risk", 0, 2, false},
		{"mixed", "↑ then ↓ ↓", 1, 2, false},
		{"tie raises", "↑↓", 1, 1, true},
		{"empty raises", "", 0, 0, true},
		{"higher phrasing", "Higher operational risk expected", 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raised, lowered := RegulationDirection(tt.direction)
			assert.Equal(t, tt.wantRaised, raised)
			assert.Equal(t, tt.wantLowered, lowered)
			assert.Equal(t, tt.wantRaises, RegulationRaisesRisk(tt.direction))
		})
	}
}

func TestVendorMatches(t *testing.T) {
	tests := []struct {
		vendor string
		cve    string
		want   bool
	}{
		{"Microsoft", "Microsoft Corporation", true},
		{"microsoft corporation", "MICROSOFT", true},
		{"Palo Alto Networks", "Networks Inc", true},
		{"Red Hat", "Hat Works", false},
		{"Cisco", "Oracle", false},
		{"", "Oracle", false},
	}
	for _, tt := range tests {
		t.Run(tt.vendor+"/"+tt.cve, func(t *testing.T) {
			assert.Equal(t, tt.want, VendorMatches(tt.vendor, tt.cve))
		})
	}
}

func TestRankSummaries(t *testing.T) {
	summaries := []schema.UnitSummary{
		{UnitName: "B", AverageScore: 50},
		{UnitName: "A", AverageScore: 50},
		{UnitName: "C", AverageScore: 80},
	}
	ranked := RankSummaries(summaries, 2)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "C", ranked[0].UnitName)
	assert.Equal(t, "A", ranked[1].UnitName)

	assert.Len(t, RankSummaries(summaries, 0), 3)
}

func TestTopDimensions(t *testing.T) {
	values := []schema.DimensionValue{
		{Dimension: schema.Financial, Score: 40},
		{Dimension: schema.Regulatory, Score: 70},
		{Dimension: schema.Operational, Score: 70},
		{Dimension: schema.Change, Score: 10},
	}
	top := TopDimensions(values, 3)
	assert.Equal(t, []schema.Dimension{schema.Regulatory, schema.Operational, schema.Financial},
		[]schema.Dimension{top[0].Dimension, top[1].Dimension, top[2].Dimension})
	assert.Equal(t, schema.Financial, values[0].Dimension, "input must not be reordered")
}

func TestRankDrivers(t *testing.T) {
	controls := RankControls([]schema.ControlDriver{{ControlID: "a", Score: 100}, {ControlID: "b", Score: 0}, {ControlID: "c", Score: 50}}, 2)
	assert.Equal(t, "b", controls[0].ControlID)
	assert.Equal(t, "c", controls[1].ControlID)

	issues := RankIssues([]schema.IssueDriver{{Title: "low", WeightedScore: 0.4}, {Title: "severe", WeightedScore: 5}}, 10)
	assert.Equal(t, "severe", issues[0].Title)

	incidents := RankIncidents([]schema.IncidentDriver{{ID: "1", Impact: 2}, {ID: "2", Impact: 16}}, 1)
	assert.Len(t, incidents, 1)
	assert.Equal(t, "2", incidents[0].ID)

	cyber := RankCyber([]schema.CyberDriver{{CVEID: "x"}, {CVEID: "y", RansomwareKnown: true}}, 5)
	assert.Equal(t, "y", cyber[0].CVEID)
}

package core

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/alvinmin/auditradar/internal/source"
	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateWorkedExample(t *testing.T) {
	s := newTestScorer(t, workedExampleSource(), schema.MetricsSource)

	ev, err := s.Evaluate("cybersecurity program")
	require.NoError(t, err)

	assert.Equal(t, schema.ComponentScores{
		Baseline:         60,
		ControlHealth:    100,
		AuditIssueTrend:  100,
		BusinessExternal: 50,
		OperationalRisk:  60,
	}, ev.Components)

	dataTech := ev.Dimension(schema.DataTech)
	assert.Equal(t, 73.8, dataTech.Score)

	sum := 0.0
	for _, v := range dataTech.Contributions {
		sum += v
	}
	assert.InDelta(t, dataTech.Score, sum, 1e-9)
	assert.Equal(t, schema.HighSeverity, ev.Severity)
}

func TestEvaluateNeutralDefaults(t *testing.T) {
	s := newTestScorer(t, workedExampleSource(), schema.MetricsSource)

	ev, err := s.Evaluate(payrollUnit)
	require.NoError(t, err)

	assert.Equal(t, schema.DefaultControlHealth, ev.Components.ControlHealth)
	assert.Equal(t, schema.DefaultAuditIssueTrend, ev.Components.AuditIssueTrend)
	assert.Equal(t, schema.DefaultBusinessExternal, ev.Components.BusinessExternal)
	assert.Equal(t, schema.DefaultOperationalRisk, ev.Components.OperationalRisk)
	assert.Equal(t, 40.0, ev.Components.Baseline)
	assert.Empty(t, ev.Controls.Drivers)
	assert.Empty(t, ev.Issues.Drivers)
}

func TestEvaluateUnknownUnit(t *testing.T) {
	s := newTestScorer(t, workedExampleSource(), schema.MetricsSource)

	_, err := s.Evaluate("Nonexistent Unit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnitNotFound))

	_, err = s.Drivers("Nonexistent Unit")
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestEvaluateRangeAndDeterminism(t *testing.T) {
	s := newTestScorer(t, workedExampleSource(), schema.MetricsSource)

	first := s.EvaluateAll()
	second := s.EvaluateAll()
	require.Len(t, first, 2)
	assert.Equal(t, first, second)

	for _, ev := range first {
		require.Len(t, ev.Dimensions, len(schema.AllDimensions))
		for _, r := range ev.Dimensions {
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 100.0)
		}
	}
}

func TestEvaluateAllSkipsDuplicateUnits(t *testing.T) {
	src := workedExampleSource().Add(schema.UnitsTable, unitsHeader,
		[]string{payrollUnit, "Finance", "HR", "", "2", "2", "2", "2", "2", "2", "2"},
		[]string{"PAYROLL", "Finance", "HR", "", "5", "5", "5", "5", "5", "5", "5"},
	)
	s := newTestScorer(t, src, schema.MetricsSource)

	evals := s.EvaluateAll()
	require.Len(t, evals, 1)
	assert.Equal(t, 40.0, evals[0].Components.Baseline)
}

func TestControlHealthScores(t *testing.T) {
	tests := []struct {
		name      string
		design    string
		operating string
		expected  float64
	}{
		{"both effective", "Effective", "Effective", schema.ControlBothEffective},
		{"design only", "Effective", "Ineffective", schema.ControlDesignEffective},
		{"operating only", "Not Tested", "effective", schema.ControlOperatingEffective},
		{"neither", "Ineffective", "Ineffective", schema.ControlNeitherEffective},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source.NewMemorySource().
				Add(schema.UnitsTable, unitsHeader, []string{payrollUnit, "Finance", "", "", "1", "1", "1", "1", "1", "1", "1"}).
				Add(schema.ControlsTable, controlsHeader, []string{"C-1", payrollUnit, "Payroll reconciliation", tt.design, tt.operating, "Manual"})
			s := newTestScorer(t, src, schema.MetricsSource)

			got := s.ControlHealth(payrollUnit)
			assert.Equal(t, tt.expected, got.Score)
			require.Len(t, got.Drivers, 1)
			assert.Equal(t, "C-1", got.Drivers[0].ControlID)
		})
	}
}

func TestAuditIssueTrendNormalizesByWorstUnit(t *testing.T) {
	src := workedExampleSource().Add(schema.IssuesTable, issuesHeader,
		[]string{cyberUnit, "Stale firewall rules", "", "Severe", "Open", "", ""},
		[]string{payrollUnit, "Late reconciliation", "", "Low", "Closed", "", ""},
	)
	s := newTestScorer(t, src, schema.MetricsSource)

	assert.Equal(t, 100.0, s.AuditIssueTrend(cyberUnit).Score)

	payroll := s.AuditIssueTrend(payrollUnit)
	assert.InDelta(t, 2*0.2/5*100, payroll.Score, 1e-9)
	assert.Greater(t, payroll.Score, schema.DefaultAuditIssueTrend)
	require.Len(t, payroll.Drivers, 1)
	assert.InDelta(t, 0.4, payroll.Drivers[0].WeightedScore, 1e-9)
}

func TestOperationalRiskSources(t *testing.T) {
	src := workedExampleSource()

	metrics := newTestScorer(t, src, schema.MetricsSource).OperationalRisk(cyberUnit)
	assert.Equal(t, 60.0, metrics.Score)
	assert.Equal(t, schema.MetricsSource, metrics.Source)
	require.Len(t, metrics.Metrics, len(schema.OperationalSubMetrics))
	assert.Equal(t, "Incident Rate", metrics.Metrics[0].Name)
	assert.Equal(t, 1.0, metrics.Metrics[0].Value)

	signals := newTestScorer(t, src, schema.SignalsSource).OperationalRisk(cyberUnit)
	assert.Equal(t, schema.SignalsSource, signals.Source)
	assert.Equal(t, schema.DefaultOperationalRisk, signals.Score)
	assert.Len(t, signals.Metrics, len(schema.OperationalSubMetrics))
}

func TestEvaluateAllWarnsOnDuplicateUnits(t *testing.T) {
	var buf bytes.Buffer
	data := NewDataset(Dataset{Units: []schema.UnitBaseline{
		{Name: "Payroll", Category: "Operations"},
		{Name: "Tax", Category: "Finance"},
		{Name: " payroll ", Category: "Finance"},
	}})
	s := NewScorer(data, nil, "").WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	evals := s.EvaluateAll()
	require.Len(t, evals, 2)
	assert.Equal(t, "Payroll", evals[0].Unit.Name)
	assert.Equal(t, "Operations", evals[0].Unit.Category)
	assert.Contains(t, buf.String(), "Skipping duplicate unit row")
	assert.Contains(t, buf.String(), "unit=\" payroll \"")
}

func TestNewScorerDefaults(t *testing.T) {
	data := NewDataset(Dataset{})
	s := NewScorer(data, nil, "")

	assert.Equal(t, schema.GetDefaultWeights(), s.Weights())
	assert.Equal(t, schema.MetricsSource, s.Source())
	assert.Same(t, data, s.Dataset())
	assert.Empty(t, s.EvaluateAll())

	w := s.Weights()
	w[schema.BaselineComponent] = 1
	assert.Equal(t, schema.WeightBaseline, s.Weights()[schema.BaselineComponent])
}

func TestDriversWorkedExample(t *testing.T) {
	s := newTestScorer(t, workedExampleSource(), schema.MetricsSource)

	resp, err := s.Drivers(cyberUnit)
	require.NoError(t, err)

	assert.Equal(t, cyberUnit, resp.UnitName)
	assert.Equal(t, "Technology", resp.Category)
	assert.Equal(t, schema.MetricsSource, resp.OperationalSource)
	assert.Len(t, resp.OperationalMetrics, len(schema.OperationalSubMetrics))
	require.Len(t, resp.Dimensions, len(schema.AllDimensions))

	for _, d := range resp.Dimensions {
		assert.Equal(t, 60.0, d.BaseScore)
		assert.InDelta(t, d.AdjustedScore, d.Contributions.Sum(), 0.1+1e-9)

		// Fully effective controls are not gaps.
		assert.Empty(t, d.Controls)
		assert.Empty(t, d.Actions.Controls)

		require.Len(t, d.Issues, 1)
		assert.Equal(t, schema.ActionTexts[schema.IssueAction][d.Dimension], d.Actions.Issues)
		assert.Empty(t, d.Actions.Regulations)
		assert.Empty(t, d.Actions.News)
		assert.Empty(t, d.Actions.Operational)

		assert.NotNil(t, d.News)
		assert.NotNil(t, d.Cyber)
	}
}

func TestDriversControlGapsCarryAction(t *testing.T) {
	src := workedExampleSource().Add(schema.ControlsTable, controlsHeader,
		[]string{"C-1", cyberUnit, "Firewall review", "Effective", "Effective", "Preventive"},
		[]string{"C-3", cyberUnit, "Patch cadence", "Effective", "Ineffective", "Preventive"},
	)
	s := newTestScorer(t, src, schema.MetricsSource)

	resp, err := s.Drivers(cyberUnit)
	require.NoError(t, err)
	for _, d := range resp.Dimensions {
		require.Len(t, d.Controls, 1)
		assert.Equal(t, "C-3", d.Controls[0].ControlID)
		assert.Equal(t, schema.ActionTexts[schema.ControlAction][d.Dimension], d.Actions.Controls)
	}
}

func TestSummaries(t *testing.T) {
	s := newTestScorer(t, workedExampleSource(), schema.MetricsSource)

	all := s.Summaries(0)
	require.Len(t, all, 2)
	assert.Equal(t, cyberUnit, all[0].UnitName)
	assert.Equal(t, payrollUnit, all[1].UnitName)
	assert.GreaterOrEqual(t, all[0].AverageScore, all[1].AverageScore)
	assert.NotEmpty(t, all[0].TopDimension.Dimension)

	top := s.Summaries(1)
	require.Len(t, top, 1)
	assert.Equal(t, all[0], top[0])
}

func TestBusinessExternal(t *testing.T) {
	src := workedExampleSource().
		Add(schema.NewsTable, []string{"Date", "Title", "Summary", "Source", "Category"},
			[]string{"2024-06-01", "Ransomware attack threat", "", "Wire", "Cybersecurity"},
			[]string{"2024-06-02", "Security upgrade success", "", "Wire", "cybersecurity"},
			[]string{"2024-06-03", "Record growth", "", "Wire", "Unmapped"},
		).
		Add(schema.RegulationsTable, []string{"Regulator", "Rule", "Description",
			"Impacted Business Areas", "Impacted Processes", "Risk Direction"},
			[]string{"FFIEC", "Cyber Guidance", "", "Cyber", "Access management", "↑"},
			[]string{"FFIEC", "Cyber Relief", "", "Cyber", "", "↓ reduces cyber risk"},
		)
	s := newTestScorer(t, src, schema.MetricsSource)

	res := s.BusinessExternal(cyberUnit)
	assert.InDelta(t, (80.0+20+75+30)/4, res.Score, 1e-9)
	require.Len(t, res.News, 2)
	assert.Equal(t, schema.NegativeSentiment, res.News[0].Sentiment)
	assert.Equal(t, schema.PositiveSentiment, res.News[1].Sentiment)
	require.Len(t, res.Regulations, 2)
	assert.Equal(t, schema.RegulationRaisedScore, res.Regulations[0].Score)
	assert.Equal(t, schema.RegulationLoweredScore, res.Regulations[1].Score)

	none := s.BusinessExternal(payrollUnit)
	assert.Equal(t, schema.DefaultBusinessExternal, none.Score)
	assert.Empty(t, none.News)
	assert.Empty(t, none.Regulations)
}

package core

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/alvinmin/auditradar/internal/logging"
	"github.com/alvinmin/auditradar/internal/source"
	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/require"
)

var (
	unitsHeader = []string{"Unit", "Category", "Sub Category", "Process Scope",
		"Financial", "Regulatory", "Operational", "Change", "Fraud", "Data/Tech", "Reputation"}
	controlsHeader = []string{"Control ID", "Business Area", "Control Description",
		"Design Effectiveness", "Operating Effectiveness", "Control Type"}
	issuesHeader      = []string{"Audit Unit", "Issue Title", "Description", "Severity", "Status", "Source", "Engagement Name"}
	operationalHeader = []string{"Unit", "Incident Rate", "Mean Time To Resolve", "System Availability",
		"Change Failure Rate", "Vendor Risk", "Patch Compliance", "Capacity Utilization",
		"Backlog Ratio", "Key Person Dependency", "Predictive Score"}
)

const (
	cyberUnit   = "Cybersecurity Program"
	payrollUnit = "Payroll"
)

// workedExampleSource has one unit with fully effective controls, the worst open issue
// and a precomputed operational score of 60, plus one unit without any evidence.
func workedExampleSource() *source.MemorySource {
	return source.NewMemorySource().
		Add(schema.UnitsTable, unitsHeader,
			[]string{cyberUnit, "Technology", "Security", "Security operations", "3", "3", "3", "3", "3", "3", "3"},
			[]string{payrollUnit, "Finance", "HR", "Payroll processing", "2", "2", "2", "2", "2", "2", "2"},
		).
		Add(schema.ControlsTable, controlsHeader,
			[]string{"C-1", cyberUnit, "Firewall review", "Effective", "Effective", "Preventive"},
			[]string{"C-2", cyberUnit, "SIEM alert triage", "Effective", "Effective", "Detective"},
		).
		Add(schema.IssuesTable, issuesHeader,
			[]string{cyberUnit, "Stale firewall rules", "Rules not recertified", "Severe", "Open", "Internal Audit", "2024 Network Review"},
		).
		Add(schema.OperationalTable, operationalHeader,
			[]string{cyberUnit, "1", "2", "3", "4", "5", "6", "7", "8", "9", "60"},
		)
}

func newTestScorer(t *testing.T, src *source.MemorySource, opSource schema.OperationalSource) *Scorer {
	t.Helper()
	data, err := BuildDataset(context.Background(), src, schema.DefaultLayout(), logging.Discard())
	require.NoError(t, err)
	return NewScorer(data, schema.GetDefaultWeights(), opSource)
}

// countingSource counts how often the units table is read.
type countingSource struct {
	*source.MemorySource
	unitReads atomic.Int32
}

func (s *countingSource) Rows(ctx context.Context, kind schema.TableKind) ([]schema.Row, error) {
	if kind == schema.UnitsTable {
		s.unitReads.Add(1)
	}
	return s.MemorySource.Rows(ctx, kind)
}

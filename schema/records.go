package schema

import (
	"strings"
	"unicode"
)

// TableKind names one raw input table.
type TableKind string

// All input tables consumed by the scoring engine.
const (
	UnitsTable       TableKind = "units"
	ControlsTable    TableKind = "controls"
	IssuesTable      TableKind = "issues"
	IncidentsTable   TableKind = "incidents"
	RegulationsTable TableKind = "regulations"
	NewsTable        TableKind = "news"
	VendorsTable     TableKind = "vendors"
	CVEsTable        TableKind = "cves"
	OperationalTable TableKind = "operational"
)

// AllTableKinds lists every input table in load order.
var AllTableKinds = []TableKind{
	UnitsTable,
	ControlsTable,
	IssuesTable,
	IncidentsTable,
	RegulationsTable,
	NewsTable,
	VendorsTable,
	CVEsTable,
	OperationalTable,
}

// DefaultSourceFiles maps each table to its default file name under the data directory.
var DefaultSourceFiles = map[TableKind]string{
	UnitsTable:       "units.csv",
	ControlsTable:    "controls.csv",
	IssuesTable:      "issues.csv",
	IncidentsTable:   "incidents.csv",
	RegulationsTable: "regulations.csv",
	NewsTable:        "news.csv",
	VendorsTable:     "vendors.csv",
	CVEsTable:        "cves.csv",
	OperationalTable: "operational.csv",
}

// Row is one record of a tabular source: ordered values plus a header index shared by all rows.
type Row struct {
	values []string
	header map[string]int
}

// NewRow creates a row over values using the given normalized header index.
func NewRow(header map[string]int, values []string) Row {
	return Row{values: values, header: header}
}

// HeaderIndex builds a normalized header lookup from a header record.
// When a header repeats, the first occurrence wins.
func HeaderIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if _, exists := index[key]; !exists && key != "" {
			index[key] = i
		}
	}
	return index
}

// NormalizeHeader lower-cases a column name and drops everything but letters and digits,
// so "Impacted Business Area" and "impacted_business_area" resolve to the same column.
func NormalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.values)
}

// At returns the trimmed value at a fixed column offset, or "" when out of range.
func (r Row) At(i int) string {
	if i < 0 || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// Field returns the first non-missing named column among the given aliases.
func (r Row) Field(names ...string) string {
	for _, name := range names {
		if i, ok := r.header[NormalizeHeader(name)]; ok {
			return r.At(i)
		}
	}
	return ""
}

// UnitBaseline is one row of the baseline table.
type UnitBaseline struct {
	Name         string
	Category     string
	SubCategory  string
	ProcessScope string
	Ratings      map[Dimension]float64 // Raw 1-5 ratings
}

// Control is one control test result.
type Control struct {
	ControlID              string
	BusinessArea           string
	Description            string
	DesignEffectiveness    string
	OperatingEffectiveness string
	ControlType            string
}

// Issue is one audit issue.
type Issue struct {
	AuditUnit   string
	Title       string
	Description string
	Severity    string
	Status      string
	Source      string
	Engagement  string
}

// Incident is one IT incident log entry.
type Incident struct {
	ID              string
	Title           string
	Description     string
	BusinessArea    string
	Severity        string
	Priority        string
	ResolutionHours float64
}

// Regulation is one regulatory change record.
type Regulation struct {
	Regulator         string
	Rule              string
	Description       string
	ImpactedAreas     string
	ImpactedProcesses string
	RiskDirection     string
}

// NewsRecord is one raw news feed row.
type NewsRecord struct {
	Date     string
	Title    string
	Summary  string
	FullText string
	Source   string
	Category string
}

// VendorMapping lists the vendors a unit depends on.
type VendorMapping struct {
	Unit    string
	Vendors []string
}

// CVE is one known exploited vulnerability.
type CVE struct {
	ID            string
	VendorProject string
	Product       string
	Name          string
	Ransomware    string
}

// OperationalMetrics is one row of the precomputed operational metrics table.
type OperationalMetrics struct {
	Unit            string
	PredictiveScore float64
	SubMetrics      []float64 // Ordered as OperationalSubMetrics
}

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"golang.org/x/sync/singleflight"
)

// Dataset holds every raw input table in typed form. It is read-only once built
// and is injected into the scorer instead of living in a package-level cache.
type Dataset struct {
	Units       []schema.UnitBaseline
	Controls    []schema.Control
	Issues      []schema.Issue
	Incidents   []schema.Incident
	Regulations []schema.Regulation
	News        []schema.NewsRecord
	Vendors     []schema.VendorMapping
	CVEs        []schema.CVE
	Operational []schema.OperationalMetrics

	unitIndex        map[string]int
	operationalIndex map[string]int
	vendorIndex      map[string][]string
}

// NewDataset indexes the given tables. Later duplicates of a unit name are ignored by lookups.
func NewDataset(d Dataset) *Dataset {
	d.unitIndex = make(map[string]int, len(d.Units))
	for i, u := range d.Units {
		key := schema.NormalizeKey(u.Name)
		if _, exists := d.unitIndex[key]; !exists {
			d.unitIndex[key] = i
		}
	}
	d.operationalIndex = make(map[string]int, len(d.Operational))
	for i, m := range d.Operational {
		key := schema.NormalizeKey(m.Unit)
		if _, exists := d.operationalIndex[key]; !exists {
			d.operationalIndex[key] = i
		}
	}
	d.vendorIndex = make(map[string][]string, len(d.Vendors))
	for _, v := range d.Vendors {
		key := schema.NormalizeKey(v.Unit)
		d.vendorIndex[key] = append(d.vendorIndex[key], v.Vendors...)
	}
	return &d
}

// FindUnit looks up a unit of the baseline table by name, ignoring case.
func (d *Dataset) FindUnit(name string) (schema.UnitBaseline, bool) {
	i, ok := d.unitIndex[schema.NormalizeKey(name)]
	if !ok {
		return schema.UnitBaseline{}, false
	}
	return d.Units[i], true
}

// OperationalFor returns the operational metrics row of a unit.
func (d *Dataset) OperationalFor(name string) (schema.OperationalMetrics, bool) {
	i, ok := d.operationalIndex[schema.NormalizeKey(name)]
	if !ok {
		return schema.OperationalMetrics{}, false
	}
	return d.Operational[i], true
}

// VendorsFor returns the vendors a unit depends on, and whether the unit has a vendor mapping.
func (d *Dataset) VendorsFor(name string) ([]string, bool) {
	vendors, ok := d.vendorIndex[schema.NormalizeKey(name)]
	return vendors, ok
}

// BuildDataset reads and parses every input table from src.
// A missing units table is an error. Any other missing table is logged and treated as empty.
func BuildDataset(ctx context.Context, src contract.TableSource, layout schema.Layout, logger *slog.Logger) (*Dataset, error) {
	tables := make(map[schema.TableKind][]schema.Row, len(schema.AllTableKinds))
	for _, kind := range schema.AllTableKinds {
		rows, err := src.Rows(ctx, kind)
		switch {
		case err == nil:
			tables[kind] = rows
			logger.Debug("Loaded table", "table", kind, "rows", len(rows))
		case errors.Is(err, contract.ErrTableNotFound) && kind != schema.UnitsTable:
			logger.Warn("Input table missing; treating as empty", "table", kind, "error", err)
		default:
			return nil, fmt.Errorf("failed to load %s table: %w", kind, err)
		}
	}

	d := Dataset{
		Units:       parseUnits(tables[schema.UnitsTable], layout),
		Controls:    parseControls(tables[schema.ControlsTable]),
		Issues:      parseIssues(tables[schema.IssuesTable]),
		Incidents:   parseIncidents(tables[schema.IncidentsTable]),
		Regulations: parseRegulations(tables[schema.RegulationsTable]),
		News:        parseNews(tables[schema.NewsTable]),
		Vendors:     parseVendors(tables[schema.VendorsTable]),
		CVEs:        parseCVEs(tables[schema.CVEsTable]),
		Operational: parseOperational(tables[schema.OperationalTable], layout),
	}
	logger.Info("Dataset loaded",
		"units", len(d.Units),
		"controls", len(d.Controls),
		"issues", len(d.Issues),
		"incidents", len(d.Incidents),
		"regulations", len(d.Regulations),
		"news", len(d.News),
		"vendors", len(d.Vendors),
		"cves", len(d.CVEs),
		"operational", len(d.Operational),
	)
	return NewDataset(d), nil
}

func parseUnits(rows []schema.Row, layout schema.Layout) []schema.UnitBaseline {
	units := make([]schema.UnitBaseline, 0, len(rows))
	for _, r := range rows {
		name := r.At(layout.UnitNameColumn)
		if name == "" {
			continue
		}
		ratings := make(map[schema.Dimension]float64, len(schema.AllDimensions))
		for i, d := range schema.AllDimensions {
			ratings[d] = schema.ParseNumber(r.At(layout.RatingsOffset + i))
		}
		units = append(units, schema.UnitBaseline{
			Name:         name,
			Category:     r.At(layout.CategoryColumn),
			SubCategory:  r.At(layout.SubCategoryColumn),
			ProcessScope: r.At(layout.ProcessScopeColumn),
			Ratings:      ratings,
		})
	}
	return units
}

func parseControls(rows []schema.Row) []schema.Control {
	out := make([]schema.Control, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.Control{
			ControlID:              r.Field("Control ID", "controlId", "id"),
			BusinessArea:           r.Field("Business Area", "businessArea", "Auditable Unit"),
			Description:            r.Field("Control Description", "description"),
			DesignEffectiveness:    r.Field("Design Effectiveness", "designEffectiveness"),
			OperatingEffectiveness: r.Field("Operating Effectiveness", "operatingEffectiveness"),
			ControlType:            r.Field("Control Type", "controlType", "type"),
		})
	}
	return out
}

func parseIssues(rows []schema.Row) []schema.Issue {
	out := make([]schema.Issue, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.Issue{
			AuditUnit:   r.Field("Audit Unit", "auditUnit", "Auditable Unit"),
			Title:       r.Field("Issue Title", "issueTitle", "title"),
			Description: r.Field("Description", "Issue Description"),
			Severity:    r.Field("Severity"),
			Status:      r.Field("Status"),
			Source:      r.Field("Source", "Issue Source"),
			Engagement:  r.Field("Engagement Name", "engagementName", "engagement"),
		})
	}
	return out
}

func parseIncidents(rows []schema.Row) []schema.Incident {
	out := make([]schema.Incident, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.Incident{
			ID:              r.Field("Incident ID", "id"),
			Title:           r.Field("Title", "Incident Title"),
			Description:     r.Field("Description"),
			BusinessArea:    r.Field("Impacted Business Area", "impactedBusinessArea", "Business Area"),
			Severity:        r.Field("Severity"),
			Priority:        r.Field("Priority"),
			ResolutionHours: schema.ParseNumber(r.Field("Resolution Time Hrs", "resolutionTimeHrs", "Resolution Hours")),
		})
	}
	return out
}

func parseRegulations(rows []schema.Row) []schema.Regulation {
	out := make([]schema.Regulation, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.Regulation{
			Regulator:         r.Field("Regulator"),
			Rule:              r.Field("Rule", "Regulation"),
			Description:       r.Field("Description", "Change Description"),
			ImpactedAreas:     r.Field("Impacted Business Areas", "impactedBusinessAreas", "Impacted Areas"),
			ImpactedProcesses: r.Field("Impacted Processes", "impactedProcesses"),
			RiskDirection:     r.Field("Risk Direction", "riskDirection", "Risk Impact"),
		})
	}
	return out
}

func parseNews(rows []schema.Row) []schema.NewsRecord {
	out := make([]schema.NewsRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.NewsRecord{
			Date:     r.Field("Date", "Published"),
			Title:    r.Field("Title", "Headline"),
			Summary:  r.Field("Summary"),
			FullText: r.Field("Full Text", "fullText", "Content"),
			Source:   r.Field("Source"),
			Category: r.Field("Category"),
		})
	}
	return out
}

func parseVendors(rows []schema.Row) []schema.VendorMapping {
	out := make([]schema.VendorMapping, 0, len(rows))
	for _, r := range rows {
		unit := r.Field("Unit", "Unit Name", "Auditable Unit")
		if unit == "" {
			continue
		}
		out = append(out, schema.VendorMapping{
			Unit:    unit,
			Vendors: schema.SplitList(r.Field("Vendors", "Vendor List", "Vendor")),
		})
	}
	return out
}

func parseCVEs(rows []schema.Row) []schema.CVE {
	out := make([]schema.CVE, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.CVE{
			ID:            r.Field("cveID", "CVE ID"),
			VendorProject: r.Field("vendorProject", "Vendor Project", "Vendor"),
			Product:       r.Field("product"),
			Name:          r.Field("vulnerabilityName", "name"),
			Ransomware:    r.Field("knownRansomwareCampaignUse", "ransomware", "Ransomware Flag"),
		})
	}
	return out
}

func parseOperational(rows []schema.Row, layout schema.Layout) []schema.OperationalMetrics {
	out := make([]schema.OperationalMetrics, 0, len(rows))
	for _, r := range rows {
		unit := r.At(layout.OperationalUnitColumn)
		if unit == "" {
			continue
		}
		metrics := make([]float64, len(schema.OperationalSubMetrics))
		for i := range metrics {
			metrics[i] = schema.ParseNumber(r.At(layout.SubMetricsOffset + i))
		}
		out = append(out, schema.OperationalMetrics{
			Unit:            unit,
			PredictiveScore: schema.ParseNumber(r.At(layout.OperationalScoreColumn)),
			SubMetrics:      metrics,
		})
	}
	return out
}

// DatasetLoader builds the dataset on first use and serves the same value afterwards.
// Concurrent first callers share a single build. A failed build is not memoized.
type DatasetLoader struct {
	src    contract.TableSource
	layout schema.Layout
	logger *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	data  *Dataset
}

// NewDatasetLoader creates a loader over the given source.
func NewDatasetLoader(src contract.TableSource, layout schema.Layout, logger *slog.Logger) *DatasetLoader {
	return &DatasetLoader{src: src, layout: layout, logger: logger}
}

// Load returns the memoized dataset, building it if needed.
func (l *DatasetLoader) Load(ctx context.Context) (*Dataset, error) {
	l.mu.RLock()
	data := l.data
	l.mu.RUnlock()
	if data != nil {
		return data, nil
	}

	v, err, _ := l.group.Do("dataset", func() (any, error) {
		l.mu.RLock()
		cached := l.data
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		built, err := BuildDataset(ctx, l.src, l.layout, l.logger)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.data = built
		l.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

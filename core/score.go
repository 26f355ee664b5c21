package core

import (
	"log/slog"
	"maps"

	"github.com/alvinmin/auditradar/core/algo"
	"github.com/alvinmin/auditradar/schema"
)

// ComponentResult is the score of one component for one unit plus the records that justify it.
type ComponentResult[T any] struct {
	Score   float64
	Drivers []T
}

// BusinessExternalResult is the business/external score with its two evidence families.
type BusinessExternalResult struct {
	Score       float64
	News        []schema.NewsDriver
	Regulations []schema.RegulationDriver
}

// OperationalResult is the operational risk score with its evidence.
// Metrics come from the precomputed table. Incidents and Cyber are always derived from the raw signals.
type OperationalResult struct {
	Score     float64
	Source    schema.OperationalSource
	Metrics   []schema.OperationalMetricDriver
	Incidents []schema.IncidentDriver
	Cyber     []schema.CyberDriver
}

// Scorer computes every component score from one dataset.
// Seeding and explainability share the same Scorer so the two paths cannot diverge.
type Scorer struct {
	data    *Dataset
	weights map[schema.Component]float64
	source  schema.OperationalSource
	logger  *slog.Logger

	issueTotals    map[string]float64 // Weighted issue total per lower-cased unit
	maxIssueTotal  float64
	incidentImpact map[string]float64 // Incident impact per lower-cased unit
	maxIncident    float64
	cyberExposure  map[string]float64 // CVE exposure per lower-cased unit with a vendor mapping
	maxCyber       float64
}

// NewScorer precomputes the cross-unit maxima used for normalization.
// Nil weights fall back to the defaults and an empty source falls back to metrics.
func NewScorer(data *Dataset, weights map[schema.Component]float64, source schema.OperationalSource) *Scorer {
	w := schema.GetDefaultWeights()
	if weights != nil {
		w = make(map[schema.Component]float64, len(weights))
		maps.Copy(w, weights)
	}
	if source == "" {
		source = schema.MetricsSource
	}

	s := &Scorer{
		data:           data,
		weights:        w,
		source:         source,
		logger:         slog.Default(),
		issueTotals:    make(map[string]float64),
		incidentImpact: make(map[string]float64),
		cyberExposure:  make(map[string]float64),
	}

	for _, issue := range data.Issues {
		key := schema.NormalizeKey(issue.AuditUnit)
		if key == "" {
			continue
		}
		s.issueTotals[key] += issueWeight(issue)
	}
	for _, total := range s.issueTotals {
		s.maxIssueTotal = max(s.maxIssueTotal, total)
	}

	for _, inc := range data.Incidents {
		impact := incidentImpact(inc)
		for _, unit := range algo.UnitsForBusinessArea(inc.BusinessArea) {
			s.incidentImpact[schema.NormalizeKey(unit)] += impact
		}
	}
	for _, total := range s.incidentImpact {
		s.maxIncident = max(s.maxIncident, total)
	}

	for key, vendors := range data.vendorIndex {
		exposure := 0.0
		for _, cve := range data.CVEs {
			if matchesAnyVendor(vendors, cve.VendorProject) {
				exposure += cveWeight(cve)
			}
		}
		s.cyberExposure[key] = exposure
	}
	for _, total := range s.cyberExposure {
		s.maxCyber = max(s.maxCyber, total)
	}

	return s
}

// Weights returns a copy of the component weights in use.
func (s *Scorer) Weights() map[schema.Component]float64 {
	out := make(map[schema.Component]float64, len(s.weights))
	maps.Copy(out, s.weights)
	return out
}

// WithLogger sets the logger data-quality warnings go to and returns the scorer.
func (s *Scorer) WithLogger(logger *slog.Logger) *Scorer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Source returns the configured operational risk source.
func (s *Scorer) Source() schema.OperationalSource {
	return s.source
}

// Dataset returns the dataset the scorer reads from.
func (s *Scorer) Dataset() *Dataset {
	return s.data
}

// Baseline scales a unit's raw 1-5 ratings to 0-100 per dimension.
func (s *Scorer) Baseline(unit schema.UnitBaseline) map[schema.Dimension]float64 {
	out := make(map[schema.Dimension]float64, len(schema.AllDimensions))
	for _, d := range schema.AllDimensions {
		out[d] = schema.Clamp(unit.Ratings[d]/schema.MaxRawRating*100, 0, 100)
	}
	return out
}

// ControlHealth averages the effectiveness scores of the controls in the unit's business area.
// A unit with no controls scores the neutral default. Drivers are the weakest controls first.
func (s *Scorer) ControlHealth(unit string) ComponentResult[schema.ControlDriver] {
	var drivers []schema.ControlDriver
	total := 0.0
	for _, c := range s.data.Controls {
		if !schema.SameName(c.BusinessArea, unit) {
			continue
		}
		score := controlScore(c)
		total += score
		drivers = append(drivers, schema.ControlDriver{
			ControlID:              c.ControlID,
			Description:            c.Description,
			ControlType:            c.ControlType,
			DesignEffectiveness:    c.DesignEffectiveness,
			OperatingEffectiveness: c.OperatingEffectiveness,
			Score:                  score,
		})
	}
	if len(drivers) == 0 {
		return ComponentResult[schema.ControlDriver]{Score: schema.DefaultControlHealth}
	}
	score := total / float64(len(drivers))
	return ComponentResult[schema.ControlDriver]{
		Score:   schema.Clamp(score, 0, 100),
		Drivers: algo.RankControls(drivers, schema.MaxControlDrivers),
	}
}

// controlScore maps design and operating effectiveness to a control score.
func controlScore(c schema.Control) float64 {
	design := schema.NormalizeKey(c.DesignEffectiveness) == schema.EffectiveLabel
	operating := schema.NormalizeKey(c.OperatingEffectiveness) == schema.EffectiveLabel
	switch {
	case design && operating:
		return schema.ControlBothEffective
	case design:
		return schema.ControlDesignEffective
	case operating:
		return schema.ControlOperatingEffective
	default:
		return schema.ControlNeitherEffective
	}
}

// AuditIssueTrend normalizes the unit's weighted issue total by the worst unit's total.
// A unit with no issues scores 0. Any issue, however minor, scores above that.
func (s *Scorer) AuditIssueTrend(unit string) ComponentResult[schema.IssueDriver] {
	var drivers []schema.IssueDriver
	for _, issue := range s.data.Issues {
		if !schema.SameName(issue.AuditUnit, unit) {
			continue
		}
		drivers = append(drivers, schema.IssueDriver{
			Title:         issue.Title,
			Description:   issue.Description,
			Severity:      issue.Severity,
			Status:        issue.Status,
			Source:        issue.Source,
			Engagement:    issue.Engagement,
			WeightedScore: issueWeight(issue),
		})
	}
	score := schema.DefaultAuditIssueTrend
	if total := s.issueTotals[schema.NormalizeKey(unit)]; total > 0 && s.maxIssueTotal > 0 {
		score = schema.Clamp(total/s.maxIssueTotal*100, 0, 100)
	}
	return ComponentResult[schema.IssueDriver]{
		Score:   score,
		Drivers: algo.RankIssues(drivers, schema.MaxIssueDrivers),
	}
}

// issueWeight is the severity weight times the status multiplier.
// Unknown severities weigh as immaterial and unknown statuses count as open.
func issueWeight(issue schema.Issue) float64 {
	severity, ok := schema.IssueSeverityWeights[schema.NormalizeKey(issue.Severity)]
	if !ok {
		severity = schema.IssueSeverityWeights["immaterial"]
	}
	status, ok := schema.IssueStatusMultipliers[schema.NormalizeKey(issue.Status)]
	if !ok {
		status = schema.IssueStatusMultipliers["open"]
	}
	return severity * status
}

// BusinessExternal averages sentiment scores of mapped news and direction scores of matched
// regulations. With no matches the unit scores the neutral default.
func (s *Scorer) BusinessExternal(unit string) BusinessExternalResult {
	var scores []float64
	var news []schema.NewsDriver
	for _, n := range s.data.News {
		if !containsName(algo.UnitsForNewsCategory(n.Category), unit) {
			continue
		}
		sentiment := algo.DeriveSentiment(n.Title, n.Summary)
		score := schema.NewsSentimentScores[sentiment]
		scores = append(scores, score)
		news = append(news, schema.NewsDriver{
			Title:     n.Title,
			Summary:   n.Summary,
			Source:    n.Source,
			Category:  n.Category,
			Sentiment: sentiment,
			Score:     score,
		})
	}

	var regs []schema.RegulationDriver
	for _, r := range s.data.Regulations {
		if !algo.RegulationAffects(r, unit) {
			continue
		}
		score := schema.RegulationLoweredScore
		if algo.RegulationRaisesRisk(r.RiskDirection) {
			score = schema.RegulationRaisedScore
		}
		scores = append(scores, score)
		regs = append(regs, schema.RegulationDriver{
			Regulator:     r.Regulator,
			Rule:          r.Rule,
			Description:   r.Description,
			RiskDirection: r.RiskDirection,
			Score:         score,
		})
	}

	result := BusinessExternalResult{Score: schema.DefaultBusinessExternal, Regulations: regs}
	if len(news) > schema.MaxNewsDrivers {
		news = news[:schema.MaxNewsDrivers]
	}
	result.News = news
	if len(scores) > 0 {
		total := 0.0
		for _, v := range scores {
			total += v
		}
		result.Score = schema.Clamp(total/float64(len(scores)), 0, 100)
	}
	return result
}

// OperationalRisk scores the unit from the configured source. Incident and vulnerability
// drivers are reported for both sources.
func (s *Scorer) OperationalRisk(unit string) OperationalResult {
	var res OperationalResult
	if s.source == schema.SignalsSource {
		res = s.OperationalFromSignals(unit)
	} else {
		res = s.OperationalFromMetrics(unit)
		signals := s.OperationalFromSignals(unit)
		res.Incidents = signals.Incidents
		res.Cyber = signals.Cyber
	}
	if m, ok := s.data.OperationalFor(unit); ok && res.Metrics == nil {
		res.Metrics = metricDrivers(m)
	}
	return res
}

// OperationalFromMetrics reads the precomputed predictive score of the unit.
// A unit absent from the metrics table scores the neutral default.
func (s *Scorer) OperationalFromMetrics(unit string) OperationalResult {
	m, ok := s.data.OperationalFor(unit)
	if !ok {
		return OperationalResult{Score: schema.DefaultOperationalRisk, Source: schema.MetricsSource}
	}
	return OperationalResult{
		Score:   schema.Clamp(m.PredictiveScore, 0, 100),
		Source:  schema.MetricsSource,
		Metrics: metricDrivers(m),
	}
}

// metricDrivers names the nine sub-metrics of an operational row.
func metricDrivers(m schema.OperationalMetrics) []schema.OperationalMetricDriver {
	out := make([]schema.OperationalMetricDriver, 0, len(schema.OperationalSubMetrics))
	for i, name := range schema.OperationalSubMetrics {
		v := 0.0
		if i < len(m.SubMetrics) {
			v = m.SubMetrics[i]
		}
		out = append(out, schema.OperationalMetricDriver{Name: name, Value: v})
	}
	return out
}

// OperationalFromSignals blends normalized incident impact with vendor vulnerability exposure.
// A unit with neither mapped incidents nor a vendor mapping scores the neutral default.
func (s *Scorer) OperationalFromSignals(unit string) OperationalResult {
	key := schema.NormalizeKey(unit)
	res := OperationalResult{
		Source:    schema.SignalsSource,
		Incidents: s.incidentDrivers(unit),
		Cyber:     s.cyberDrivers(unit),
	}

	impact, hasIncidents := s.incidentImpact[key]
	exposure, hasVendors := s.cyberExposure[key]
	if !hasIncidents && !hasVendors {
		res.Score = schema.DefaultOperationalRisk
		return res
	}

	var incidentScore, cyberScore float64
	if s.maxIncident > 0 {
		incidentScore = impact / s.maxIncident * 100
	}
	if s.maxCyber > 0 {
		cyberScore = exposure / s.maxCyber * 100
	}
	res.Score = schema.Clamp(schema.IncidentImpactWeight*incidentScore+schema.CyberExposureWeight*cyberScore, 0, 100)
	return res
}

func (s *Scorer) incidentDrivers(unit string) []schema.IncidentDriver {
	var drivers []schema.IncidentDriver
	for _, inc := range s.data.Incidents {
		if !containsName(algo.UnitsForBusinessArea(inc.BusinessArea), unit) {
			continue
		}
		drivers = append(drivers, schema.IncidentDriver{
			ID:              inc.ID,
			Title:           inc.Title,
			Description:     inc.Description,
			BusinessArea:    inc.BusinessArea,
			Severity:        inc.Severity,
			Priority:        inc.Priority,
			ResolutionHours: inc.ResolutionHours,
			Impact:          incidentImpact(inc),
		})
	}
	return algo.RankIncidents(drivers, schema.MaxIncidentDrivers)
}

func (s *Scorer) cyberDrivers(unit string) []schema.CyberDriver {
	vendors, ok := s.data.VendorsFor(unit)
	if !ok {
		return nil
	}
	var drivers []schema.CyberDriver
	for _, cve := range s.data.CVEs {
		if !matchesAnyVendor(vendors, cve.VendorProject) {
			continue
		}
		drivers = append(drivers, schema.CyberDriver{
			CVEID:           cve.ID,
			Vendor:          cve.VendorProject,
			Product:         cve.Product,
			Name:            cve.Name,
			RansomwareKnown: isRansomwareKnown(cve),
			Weight:          cveWeight(cve),
		})
	}
	return algo.RankCyber(drivers, schema.MaxCyberDrivers)
}

// incidentImpact is the severity weight times the priority weight. Unknown labels weigh 1.
func incidentImpact(inc schema.Incident) float64 {
	severity, ok := schema.IncidentSeverityWeights[schema.NormalizeKey(inc.Severity)]
	if !ok {
		severity = 1
	}
	priority, ok := schema.IncidentPriorityWeights[schema.NormalizeKey(inc.Priority)]
	if !ok {
		priority = 1
	}
	return severity * priority
}

func isRansomwareKnown(cve schema.CVE) bool {
	return schema.NormalizeKey(cve.Ransomware) == schema.RansomwareKnownLabel
}

func cveWeight(cve schema.CVE) float64 {
	if isRansomwareKnown(cve) {
		return schema.RansomwareMultiplier
	}
	return 1
}

func matchesAnyVendor(vendors []string, cveVendor string) bool {
	for _, v := range vendors {
		if algo.VendorMatches(v, cveVendor) {
			return true
		}
	}
	return false
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if schema.SameName(n, name) {
			return true
		}
	}
	return false
}

package schema

// ControlDriver is a control cited as evidence for the control health component.
type ControlDriver struct {
	ControlID              string  `json:"controlId"`
	Description            string  `json:"description"`
	ControlType            string  `json:"controlType"`
	DesignEffectiveness    string  `json:"designEffectiveness"`
	OperatingEffectiveness string  `json:"operatingEffectiveness"`
	Score                  float64 `json:"score"`
}

// IssueDriver is an audit issue cited as evidence for the audit issue trend component.
type IssueDriver struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Severity      string  `json:"severity"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
	Engagement    string  `json:"engagement"`
	WeightedScore float64 `json:"weightedScore"`
}

// IncidentDriver is an IT incident mapped to the unit through its business area.
type IncidentDriver struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	BusinessArea    string  `json:"businessArea"`
	Severity        string  `json:"severity"`
	Priority        string  `json:"priority"`
	ResolutionHours float64 `json:"resolutionHours"`
	Impact          float64 `json:"impact"` // Severity weight x priority weight
}

// RegulationDriver is a regulatory change matched to the unit by keyword.
type RegulationDriver struct {
	Regulator     string  `json:"regulator"`
	Rule          string  `json:"rule"`
	Description   string  `json:"description"`
	RiskDirection string  `json:"riskDirection"`
	Score         float64 `json:"score"`
}

// NewsDriver is a news item matched to the unit by category.
type NewsDriver struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	Category  string    `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
	Score     float64   `json:"score"`
}

// CyberDriver is a known exploited vulnerability affecting one of the unit's vendors.
type CyberDriver struct {
	CVEID           string  `json:"cveId"`
	Vendor          string  `json:"vendor"`
	Product         string  `json:"product"`
	Name            string  `json:"name"`
	RansomwareKnown bool    `json:"ransomwareKnown"`
	Weight          float64 `json:"weight"`
}

// OperationalMetricDriver is one named sub-metric from the operational metrics table.
type OperationalMetricDriver struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ComponentScores holds the five component scores of a unit.
// Baseline is the average scaled baseline across all dimensions.
type ComponentScores struct {
	Baseline         float64 `json:"baseline"`
	ControlHealth    float64 `json:"controlHealth"`
	AuditIssueTrend  float64 `json:"auditIssueTrend"`
	BusinessExternal float64 `json:"businessExternal"`
	OperationalRisk  float64 `json:"operationalRisk"`
}

// Get returns the score of a single component.
func (cs ComponentScores) Get(c Component) float64 {
	switch c {
	case BaselineComponent:
		return cs.Baseline
	case ControlHealthComponent:
		return cs.ControlHealth
	case AuditIssueTrendComponent:
		return cs.AuditIssueTrend
	case BusinessExternalComponent:
		return cs.BusinessExternal
	case OperationalRiskComponent:
		return cs.OperationalRisk
	default:
		return 0
	}
}

// ForDimension returns the component map used by the aggregator, with the
// dimension-specific baseline in place of the averaged one.
func (cs ComponentScores) ForDimension(baseline float64) map[Component]float64 {
	return map[Component]float64{
		BaselineComponent:         baseline,
		ControlHealthComponent:    cs.ControlHealth,
		AuditIssueTrendComponent:  cs.AuditIssueTrend,
		BusinessExternalComponent: cs.BusinessExternal,
		OperationalRiskComponent:  cs.OperationalRisk,
	}
}

// Contributions holds the normalized contribution of each component to one dimension score.
type Contributions struct {
	Baseline         float64 `json:"baseline"`
	ControlHealth    float64 `json:"controlHealth"`
	AuditIssueTrend  float64 `json:"auditIssueTrend"`
	BusinessExternal float64 `json:"businessExternal"`
	OperationalRisk  float64 `json:"operationalRisk"`
}

// NewContributions converts a component map into a Contributions value.
func NewContributions(m map[Component]float64) Contributions {
	return Contributions{
		Baseline:         m[BaselineComponent],
		ControlHealth:    m[ControlHealthComponent],
		AuditIssueTrend:  m[AuditIssueTrendComponent],
		BusinessExternal: m[BusinessExternalComponent],
		OperationalRisk:  m[OperationalRiskComponent],
	}
}

// Sum returns the total of all five contributions.
func (c Contributions) Sum() float64 {
	return c.Baseline + c.ControlHealth + c.AuditIssueTrend + c.BusinessExternal + c.OperationalRisk
}

// Actions holds the recommended action per evidence family. Empty means no action.
type Actions struct {
	Controls    string `json:"controls,omitempty"`
	Issues      string `json:"issues,omitempty"`
	Regulations string `json:"regulations,omitempty"`
	News        string `json:"news,omitempty"`
	Operational string `json:"operational,omitempty"`
}

// DimensionDriver explains one dimension score of a unit.
type DimensionDriver struct {
	Dimension     Dimension          `json:"dimension"`
	BaseScore     float64            `json:"baseScore"`
	AdjustedScore float64            `json:"adjustedScore"`
	Contributions Contributions      `json:"contributions"`
	Controls      []ControlDriver    `json:"controls"`
	Issues        []IssueDriver      `json:"issues"`
	Incidents     []IncidentDriver   `json:"incidents"`
	Regulations   []RegulationDriver `json:"regulations"`
	News          []NewsDriver       `json:"news"`
	Cyber         []CyberDriver      `json:"cyber"`
	Actions       Actions            `json:"actions"`
}

// DriversResponse is the full explainability response for one unit.
type DriversResponse struct {
	UnitName             string                    `json:"unitName"`
	Category             string                    `json:"category"`
	AverageAdjustedScore float64                   `json:"averageAdjustedScore"`
	Severity             Severity                  `json:"severity"`
	ComponentScores      ComponentScores           `json:"componentScores"`
	OperationalSource    OperationalSource         `json:"operationalSource"`
	OperationalMetrics   []OperationalMetricDriver `json:"operationalMetrics"`
	Dimensions           []DimensionDriver         `json:"dimensions"`
}

// UnitSummary is the summary card of one unit.
type UnitSummary struct {
	UnitName        string          `json:"unitName"`
	Category        string          `json:"category"`
	AverageScore    float64         `json:"averageScore"`
	Severity        Severity        `json:"severity"`
	ComponentScores ComponentScores `json:"componentScores"`
	TopDimension    DimensionValue  `json:"topDimension"`
}

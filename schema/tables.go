package schema

// Static scoring configuration shared by the seeding run and the explainability path.
// Every table here is read-only after package initialization.

// Component weights (sum to 1.0).
const (
	WeightBaseline         = 0.30
	WeightControlHealth    = 0.25
	WeightAuditIssueTrend  = 0.20
	WeightBusinessExternal = 0.15
	WeightOperationalRisk  = 0.10
)

// Neutral defaults used when a component has no evidence for a unit.
const (
	DefaultControlHealth    = 50.0
	DefaultAuditIssueTrend  = 0.0
	DefaultBusinessExternal = 50.0
	DefaultOperationalRisk  = 50.0
	NeutralMidpoint         = 50.0
	MaxRawRating            = 5.0
)

// Canonical severity thresholds. Critical is strictly greater than its threshold.
const (
	CriticalThreshold = 90.0
	HighThreshold     = 71.0
	MediumThreshold   = 31.0
)

// Alert emission rules.
const (
	AlertDeltaThreshold    = 5.0
	AlertEscalationDelta   = 10.0
	AlertTopDimensionCount = 3
)

// Driver list caps.
const (
	MaxControlDrivers   = 5
	MaxIssueDrivers     = 10
	MaxExportedIssues   = 5
	MaxNewsDrivers      = 5
	MaxIncidentDrivers  = 5
	MaxCyberDrivers     = 5
	MinVendorTokenChars = 4
)

// Control effectiveness scores.
const (
	ControlBothEffective      = 100.0
	ControlDesignEffective    = 50.0
	ControlOperatingEffective = 40.0
	ControlNeitherEffective   = 0.0
	EffectiveLabel            = "effective"
)

// Business/external signal scores.
const (
	RegulationRaisedScore  = 75.0
	RegulationLoweredScore = 30.0
)

// Operational signals blend (incidents vs vendor CVE exposure).
const (
	IncidentImpactWeight = 0.4
	CyberExposureWeight  = 0.6
	RansomwareMultiplier = 2.0
	RansomwareKnownLabel = "known"
)

// Momentum and confidence coefficients for the predicted score.
const (
	MomentumControlHealth    = 1.2
	MomentumAuditIssueTrend  = 1.4
	MomentumBusinessExternal = 1.5
	MomentumOperationalRisk  = 1.3
	MomentumDamping          = 0.25
	SignalNoiseFloor         = 5.0
	TrendBand                = 2.0

	AgreeConfidenceBase  = 0.75
	AgreeConfidenceSpan  = 0.15
	AgreeConfidenceMin   = 0.70
	AgreeConfidenceMax   = 0.95
	MixedConfidenceBase  = 0.55
	MixedConfidenceSpan  = 0.10
	MixedConfidenceMin   = 0.45
	MixedConfidenceMax   = 0.70
	ConfidenceSignalSlot = 4.0
)

// Fallback labels for unmapped news categories.
const (
	DefaultRiskType = "Operational Risk"
	DefaultSector   = "General"
)

// GetDefaultWeights returns the default component weight map.
func GetDefaultWeights() map[Component]float64 {
	return map[Component]float64{
		BaselineComponent:         WeightBaseline,
		ControlHealthComponent:    WeightControlHealth,
		AuditIssueTrendComponent:  WeightAuditIssueTrend,
		BusinessExternalComponent: WeightBusinessExternal,
		OperationalRiskComponent:  WeightOperationalRisk,
	}
}

// Relevance expresses how much each component matters for each dimension.
// Each component row sums to 1.0 across the seven dimensions.
var Relevance = map[Component]map[Dimension]float64{
	BaselineComponent: {
		Financial: 0.15, Regulatory: 0.15, Operational: 0.15, Change: 0.10,
		Fraud: 0.15, DataTech: 0.15, Reputation: 0.15,
	},
	ControlHealthComponent: {
		Financial: 0.15, Regulatory: 0.15, Operational: 0.20, Change: 0.10,
		Fraud: 0.15, DataTech: 0.15, Reputation: 0.10,
	},
	AuditIssueTrendComponent: {
		Financial: 0.15, Regulatory: 0.20, Operational: 0.15, Change: 0.10,
		Fraud: 0.15, DataTech: 0.10, Reputation: 0.15,
	},
	BusinessExternalComponent: {
		Financial: 0.15, Regulatory: 0.20, Operational: 0.10, Change: 0.10,
		Fraud: 0.10, DataTech: 0.15, Reputation: 0.20,
	},
	OperationalRiskComponent: {
		Financial: 0.10, Regulatory: 0.05, Operational: 0.25, Change: 0.15,
		Fraud: 0.10, DataTech: 0.25, Reputation: 0.10,
	},
}

// MomentumCoefficients weights each non-baseline signal in the momentum term.
var MomentumCoefficients = map[Component]float64{
	ControlHealthComponent:    MomentumControlHealth,
	AuditIssueTrendComponent:  MomentumAuditIssueTrend,
	BusinessExternalComponent: MomentumBusinessExternal,
	OperationalRiskComponent:  MomentumOperationalRisk,
}

// IssueSeverityWeights maps lower-cased audit issue severities to weights.
var IssueSeverityWeights = map[string]float64{
	"severe":     5,
	"high":       4,
	"moderate":   3,
	"low":        2,
	"immaterial": 1,
}

// IssueStatusMultipliers maps lower-cased audit issue statuses to multipliers.
var IssueStatusMultipliers = map[string]float64{
	"open":        1.0,
	"in progress": 0.5,
	"closed":      0.2,
}

// IncidentSeverityWeights maps lower-cased incident severities to weights.
var IncidentSeverityWeights = map[string]float64{
	"critical": 4,
	"high":     3,
	"medium":   2,
	"moderate": 2,
	"low":      1,
}

// IncidentPriorityWeights maps lower-cased incident priorities to weights.
var IncidentPriorityWeights = map[string]float64{
	"p1": 4, "critical": 4,
	"p2": 3, "high": 3,
	"p3": 2, "medium": 2,
	"p4": 1, "low": 1,
}

// NewsSentimentScores maps a derived sentiment to its business/external score.
var NewsSentimentScores = map[Sentiment]float64{
	NegativeSentiment: 80,
	NeutralSentiment:  50,
	PositiveSentiment: 20,
}

// NegativeKeywords are matched by substring against lower-cased news text.
var NegativeKeywords = []string{
	"attack", "bankrupt", "breach", "concern", "crisis", "decline", "default",
	"downgrade", "drop", "fail", "fraud", "hack", "investigation",
	"lawsuit", "layoff", "loss", "outage", "penalty", "plunge", "probe", "rattle",
	"recession", "sanction", "scandal", "slump", "threat", "violation", "volatil", "warn",
}

// PositiveKeywords are matched by substring against lower-cased news text.
var PositiveKeywords = []string{
	"approval", "beat", "boost", "expand", "gains", "growth", "improve", "innovation",
	"milestone", "optimis", "profit", "rally", "record high", "recover", "resilien",
	"rise", "stabil", "strong", "success", "surge", "upgrade",
}

// Regulation direction indicators.
const (
	RaisedGlyph  = "↑"
	LoweredGlyph = "↓"
)

// RaisedRiskPattern and LoweredRiskPattern detect textual risk direction in regulation rows.
const (
	RaisedRiskPattern  = `(?i)\b(increas|heighten|elevat|rais|higher)\w*\s+(\w+\s+)?risk`
	LoweredRiskPattern = `(?i)\b(decreas|lower|reduc|diminish)\w*\s+(\w+\s+)?risk`
)

// NewsCategoryProfile is the static mapping for one news category.
type NewsCategoryProfile struct {
	RiskType string
	Sector   string
	Units    []string
}

// NewsCategories maps lower-cased news categories to their profile.
var NewsCategories = map[string]NewsCategoryProfile{
	"banking": {
		RiskType: "Credit Risk", Sector: "Financial Services",
		Units: []string{"Retail Banking", "Commercial Lending", "Consumer Lending"},
	},
	"regulation": {
		RiskType: "Regulatory Risk", Sector: "Government",
		Units: []string{"Regulatory Compliance", "AML/BSA Compliance"},
	},
	"cybersecurity": {
		RiskType: "Cyber Risk", Sector: "Technology",
		Units: []string{"Cybersecurity Program", "Identity & Access Management", "IT Operations"},
	},
	"technology": {
		RiskType: "Technology Risk", Sector: "Technology",
		Units: []string{"IT Operations", "IT Change Management", "Data Governance"},
	},
	"markets": {
		RiskType: "Market Risk", Sector: "Capital Markets",
		Units: []string{"Capital Markets", "Treasury Management", "Wealth Management"},
	},
	"economy": {
		RiskType: "Macroeconomic Risk", Sector: "Macroeconomy",
		Units: []string{"Capital & Liquidity Management", "Commercial Lending", "Finance & Accounting"},
	},
	"fraud": {
		RiskType: "Fraud Risk", Sector: "Financial Services",
		Units: []string{"Fraud Management", "Card Operations"},
	},
	"privacy": {
		RiskType: "Privacy Risk", Sector: "Technology",
		Units: []string{"Privacy Program", "Data Governance"},
	},
	"payments": {
		RiskType: "Payments Risk", Sector: "Financial Services",
		Units: []string{"Payments Operations", "Card Operations"},
	},
	"real estate": {
		RiskType: "Collateral Risk", Sector: "Real Estate",
		Units: []string{"Mortgage Servicing", "Commercial Lending"},
	},
	"workforce": {
		RiskType: "People Risk", Sector: "Labor",
		Units: []string{"Human Resources"},
	},
	"legal": {
		RiskType: "Legal Risk", Sector: "Legal",
		Units: []string{"Legal", "Regulatory Compliance"},
	},
	"third party": {
		RiskType: "Third-Party Risk", Sector: "Supply Chain",
		Units: []string{"Third-Party Risk Management", "Business Continuity"},
	},
	"esg": {
		RiskType: "Reputational Risk", Sector: "Energy & Environment",
		Units: []string{"Corporate Communications", "Enterprise Risk Management"},
	},
	"ai": {
		RiskType: "Model Risk", Sector: "Technology",
		Units: []string{"Model Risk Management", "Data Governance"},
	},
}

// BusinessAreaUnits maps lower-cased business areas (incident and control rows) to units.
var BusinessAreaUnits = map[string][]string{
	"technology":  {"IT Operations", "IT Change Management", "Cybersecurity Program"},
	"it":          {"IT Operations", "IT Change Management"},
	"security":    {"Cybersecurity Program", "Identity & Access Management"},
	"payments":    {"Payments Operations", "Treasury Management"},
	"cards":       {"Card Operations"},
	"lending":     {"Commercial Lending", "Consumer Lending", "Mortgage Servicing"},
	"retail":      {"Retail Banking"},
	"finance":     {"Finance & Accounting", "Tax"},
	"treasury":    {"Treasury Management", "Capital & Liquidity Management"},
	"compliance":  {"Regulatory Compliance", "AML/BSA Compliance"},
	"hr":          {"Human Resources"},
	"data":        {"Data Governance", "Privacy Program"},
	"vendor":      {"Third-Party Risk Management"},
	"operations":  {"Business Continuity", "Payments Operations"},
	"wealth":      {"Wealth Management"},
	"markets":     {"Capital Markets"},
	"risk":        {"Enterprise Risk Management", "Model Risk Management"},
	"legal":       {"Legal"},
	"marketing":   {"Corporate Communications"},
	"fraud":       {"Fraud Management"},
	"facilities":  {"Business Continuity"},
	"engineering": {"IT Change Management"},
}

// KeywordUnits is one entry of the regulation keyword table.
type KeywordUnits struct {
	Keyword string
	Units   []string
}

// RegulationKeywords is matched in order against impacted areas and processes.
var RegulationKeywords = []KeywordUnits{
	{"capital", []string{"Capital & Liquidity Management", "Treasury Management"}},
	{"liquidity", []string{"Capital & Liquidity Management", "Treasury Management"}},
	{"aml", []string{"AML/BSA Compliance"}},
	{"anti-money", []string{"AML/BSA Compliance"}},
	{"sanction", []string{"AML/BSA Compliance", "Regulatory Compliance"}},
	{"kyc", []string{"AML/BSA Compliance", "Retail Banking"}},
	{"consumer", []string{"Retail Banking", "Consumer Lending", "Regulatory Compliance"}},
	{"lending", []string{"Commercial Lending", "Consumer Lending"}},
	{"mortgage", []string{"Mortgage Servicing"}},
	{"privacy", []string{"Privacy Program", "Data Governance"}},
	{"data", []string{"Data Governance"}},
	{"cyber", []string{"Cybersecurity Program", "Identity & Access Management"}},
	{"resilience", []string{"Business Continuity", "IT Operations"}},
	{"third-party", []string{"Third-Party Risk Management"}},
	{"vendor", []string{"Third-Party Risk Management"}},
	{"outsourc", []string{"Third-Party Risk Management"}},
	{"payment", []string{"Payments Operations"}},
	{"card", []string{"Card Operations"}},
	{"fraud", []string{"Fraud Management"}},
	{"model", []string{"Model Risk Management"}},
	{"artificial intelligence", []string{"Model Risk Management", "Data Governance"}},
	{"climate", []string{"Enterprise Risk Management", "Corporate Communications"}},
	{"esg", []string{"Enterprise Risk Management", "Corporate Communications"}},
	{"tax", []string{"Tax"}},
	{"accounting", []string{"Finance & Accounting"}},
	{"reporting", []string{"Finance & Accounting", "Regulatory Compliance"}},
	{"employment", []string{"Human Resources"}},
	{"conduct", []string{"Wealth Management", "Capital Markets"}},
	{"market", []string{"Capital Markets"}},
	{"change management", []string{"IT Change Management"}},
}

// OperationalSubMetrics names the nine sub-metric columns of the operational metrics table.
var OperationalSubMetrics = []string{
	"Incident Rate",
	"Mean Time To Resolve",
	"System Availability",
	"Change Failure Rate",
	"Vendor Risk",
	"Patch Compliance",
	"Capacity Utilization",
	"Backlog Ratio",
	"Key Person Dependency",
}

// ActionArea names an evidence family that carries recommended actions.
type ActionArea string

// All action areas reported per dimension.
const (
	ControlAction     ActionArea = "controls"
	IssueAction       ActionArea = "issues"
	RegulationAction  ActionArea = "regulations"
	NewsAction        ActionArea = "news"
	OperationalAction ActionArea = "operational"
)

// AllActionAreas lists the action areas in display order.
var AllActionAreas = []ActionArea{ControlAction, IssueAction, RegulationAction, NewsAction, OperationalAction}

// ActionTexts holds the recommended action per evidence family and dimension.
var ActionTexts = map[ActionArea]map[Dimension]string{
	ControlAction: {
		Financial:   "Retest financial reporting controls with design or operating gaps.",
		Regulatory:  "Prioritize remediation of compliance controls rated ineffective.",
		Operational: "Strengthen process controls and evidence their operating effectiveness.",
		Change:      "Add change-approval and post-implementation review controls.",
		Fraud:       "Tighten preventive fraud controls and segregation of duties.",
		DataTech:    "Remediate access, logging and configuration control gaps.",
		Reputation:  "Validate customer-facing controls before the next review cycle.",
	},
	IssueAction: {
		Financial:   "Accelerate closure of open financial audit issues.",
		Regulatory:  "Escalate overdue regulatory issues to the compliance committee.",
		Operational: "Track open operational issues against agreed remediation dates.",
		Change:      "Confirm change-related findings are closed before new releases.",
		Fraud:       "Validate fraud-related remediation with targeted testing.",
		DataTech:    "Re-verify technology issue closure with evidence review.",
		Reputation:  "Report severe open issues to senior management.",
	},
	RegulationAction: {
		Financial:   "Assess capital and reporting impact of new rules.",
		Regulatory:  "Map new regulatory requirements to owners and controls.",
		Operational: "Update procedures for changed regulatory expectations.",
		Change:      "Plan implementation milestones for upcoming rule changes.",
		Fraud:       "Align fraud monitoring with updated regulatory guidance.",
		DataTech:    "Review data and cyber obligations introduced by new rules.",
		Reputation:  "Prepare stakeholder communications for regulatory changes.",
	},
	NewsAction: {
		Financial:   "Monitor market developments for exposure to the unit.",
		Regulatory:  "Watch enforcement news for peer findings relevant to the unit.",
		Operational: "Review external incidents for lessons applicable to operations.",
		Change:      "Factor external developments into change planning.",
		Fraud:       "Check emerging fraud typologies against current detection rules.",
		DataTech:    "Validate defenses against threats reported in the news.",
		Reputation:  "Coordinate with communications on negative coverage.",
	},
	OperationalAction: {
		Financial:   "Quantify financial loss exposure from recent incidents.",
		Regulatory:  "Assess whether incidents or vulnerabilities are reportable.",
		Operational: "Perform root-cause analysis on high-impact incidents.",
		Change:      "Review failed changes linked to recent incidents.",
		Fraud:       "Investigate incidents with potential fraud indicators.",
		DataTech:    "Patch vendor vulnerabilities and verify compensating controls.",
		Reputation:  "Evaluate customer impact of service disruptions.",
	},
}

package schema

// Custom string types for type safety.
type (
	// Dimension is one of the seven fixed risk categories.
	Dimension string

	// Component is one of the five weighted signal sources.
	Component string

	// Severity is the categorical risk level of a unit or alert.
	Severity string

	// Sentiment is the derived tone of a news item.
	Sentiment string

	// Trend is the direction label of a heatmap cell.
	Trend string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for entity storage.
	DatabaseBackend string

	// OperationalSource selects how the operational risk component is computed.
	OperationalSource string

	// EntityKind names a persisted entity collection.
	EntityKind string
)

// All dimensions supported. The set is closed.
const (
	Financial   Dimension = "Financial"
	Regulatory  Dimension = "Regulatory"
	Operational Dimension = "Operational"
	Change      Dimension = "Change"
	Fraud       Dimension = "Fraud"
	DataTech    Dimension = "Data/Tech"
	Reputation  Dimension = "Reputation"
)

// All components supported.
const (
	BaselineComponent         Component = "baseline"
	ControlHealthComponent    Component = "control_health"
	AuditIssueTrendComponent  Component = "audit_issue_trend"
	BusinessExternalComponent Component = "business_external"
	OperationalRiskComponent  Component = "operational_risk"
)

// All severities supported.
const (
	CriticalSeverity Severity = "critical"
	HighSeverity     Severity = "high"
	MediumSeverity   Severity = "medium"
	LowSeverity      Severity = "low"
)

// All sentiments supported.
const (
	NegativeSentiment Sentiment = "Negative"
	NeutralSentiment  Sentiment = "Neutral"
	PositiveSentiment Sentiment = "Positive"
)

// All trends supported.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	MemoryBackend     DatabaseBackend = "memory"
)

// All operational risk sources supported.
const (
	MetricsSource OperationalSource = "metrics" // default
	SignalsSource OperationalSource = "signals"
)

// All persisted entity kinds.
const (
	UnitEntity    EntityKind = "units"
	ScoreEntity   EntityKind = "scores"
	HeatmapEntity EntityKind = "heatmap"
	AlertEntity   EntityKind = "alerts"
	NewsEntity    EntityKind = "news"
)

// AllDimensions lists the dimensions in display order.
var AllDimensions = []Dimension{Financial, Regulatory, Operational, Change, Fraud, DataTech, Reputation}

// AllComponents lists the components in weighting order.
var AllComponents = []Component{
	BaselineComponent,
	ControlHealthComponent,
	AuditIssueTrendComponent,
	BusinessExternalComponent,
	OperationalRiskComponent,
}

// NonBaselineComponents lists the four components that feed the momentum term.
var NonBaselineComponents = []Component{
	ControlHealthComponent,
	AuditIssueTrendComponent,
	BusinessExternalComponent,
	OperationalRiskComponent,
}

// AllEntityKinds lists every persisted entity kind.
var AllEntityKinds = []EntityKind{UnitEntity, ScoreEntity, HeatmapEntity, AlertEntity, NewsEntity}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MemoryBackend:     {},
}

// ValidOperationalSources lists all valid operational risk sources.
var ValidOperationalSources = map[OperationalSource]struct{}{
	MetricsSource: {},
	SignalsSource: {},
}

// ValidEntityKinds lists all valid entity kinds.
var ValidEntityKinds = map[EntityKind]struct{}{
	UnitEntity:    {},
	ScoreEntity:   {},
	HeatmapEntity: {},
	AlertEntity:   {},
	NewsEntity:    {},
}

// ComponentLabel returns the human-readable name of a component.
func ComponentLabel(c Component) string {
	switch c {
	case BaselineComponent:
		return "Baseline"
	case ControlHealthComponent:
		return "Control Health"
	case AuditIssueTrendComponent:
		return "Audit Issue Trend"
	case BusinessExternalComponent:
		return "Business/External"
	case OperationalRiskComponent:
		return "Operational Risk"
	default:
		return string(c)
	}
}

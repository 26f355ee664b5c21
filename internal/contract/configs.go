package contract

import (
	"fmt"
	"maps"
	"math"
	"path/filepath"
	"strings"

	"github.com/alvinmin/auditradar/schema"
)

// Default values for configuration.
const (
	DefaultDataDir    = "data"
	DefaultPrecision  = 1
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultOutputDir  = "."
	DefaultListLimit  = 0 // 0 means no limit
	MaxResultLimit    = 1000
	WeightSumEpsilon  = 0.001
	LatestMigration   = -1
	RollbackMigration = 0
)

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	DataDir string
	Sources map[schema.TableKind]string // Resolved file path per input table
	Layout  schema.Layout

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	OutputDir  string // Parquet export directory
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	Limit      int // Summary row limit (0 = all units)
	UseColors  bool

	OperationalSource schema.OperationalSource

	LogLevel    string
	LogFormat   string
	MetricsFile string // Prometheus textfile written after seeding (empty = disabled)

	TargetVersion int // Migration target (-1 latest, 0 rollback)

	// CustomWeights holds only the component weights overridden by the user.
	CustomWeights map[schema.Component]float64

	// ComputedWeights is the final weight map, computed from defaults + custom overrides.
	ComputedWeights map[schema.Component]float64
}

// SourcesRawInput holds optional per-table file overrides.
type SourcesRawInput struct {
	Units       string `mapstructure:"units"`
	Controls    string `mapstructure:"controls"`
	Issues      string `mapstructure:"issues"`
	Incidents   string `mapstructure:"incidents"`
	Regulations string `mapstructure:"regulations"`
	News        string `mapstructure:"news"`
	Vendors     string `mapstructure:"vendors"`
	CVEs        string `mapstructure:"cves"`
	Operational string `mapstructure:"operational"`
}

// LayoutRawInput holds optional column offset overrides for positional tables.
// Use int pointers for optional fields.
type LayoutRawInput struct {
	UnitNameColumn         *int `mapstructure:"unit_name_column"`
	CategoryColumn         *int `mapstructure:"category_column"`
	SubCategoryColumn      *int `mapstructure:"sub_category_column"`
	ProcessScopeColumn     *int `mapstructure:"process_scope_column"`
	RatingsOffset          *int `mapstructure:"ratings_offset"`
	OperationalUnitColumn  *int `mapstructure:"operational_unit_column"`
	OperationalScoreColumn *int `mapstructure:"operational_score_column"`
	SubMetricsOffset       *int `mapstructure:"sub_metrics_offset"`
}

// WeightsRawInput holds custom component weights from the YAML config file.
// Use float64 pointers for optional fields.
type WeightsRawInput struct {
	Baseline         *float64 `mapstructure:"baseline"`
	ControlHealth    *float64 `mapstructure:"control_health"`
	AuditIssueTrend  *float64 `mapstructure:"audit_issue_trend"`
	BusinessExternal *float64 `mapstructure:"business_external"`
	OperationalRisk  *float64 `mapstructure:"operational_risk"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataDir           string `mapstructure:"data-dir"`
	Backend           string `mapstructure:"backend"`
	DBConnect         string `mapstructure:"db-connect"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	OperationalSource string `mapstructure:"operational-source"`
	LogLevel          string `mapstructure:"log-level"`
	LogFormat         string `mapstructure:"log-format"`

	// --- Fields from seedCmd.Flags() ---
	MetricsFile string `mapstructure:"metrics-file"`

	// --- Fields from summaryCmd.Flags() ---
	Limit int `mapstructure:"limit"`

	// --- Fields from exportCmd.Flags() ---
	OutputDir string `mapstructure:"output-dir"`

	// --- Fields from migrateCmd.Flags() ---
	TargetVersion int `mapstructure:"target-version"`

	// --- Nested sections from the config file ---
	Sources SourcesRawInput `mapstructure:"sources"`
	Layout  LayoutRawInput  `mapstructure:"layout"`
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Sources != nil {
		clone.Sources = make(map[schema.TableKind]string, len(c.Sources))
		maps.Copy(clone.Sources, c.Sources)
	}
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[schema.Component]float64, len(c.CustomWeights))
		maps.Copy(clone.CustomWeights, c.CustomWeights)
	}
	if c.ComputedWeights != nil {
		clone.ComputedWeights = make(map[schema.Component]float64, len(c.ComputedWeights))
		maps.Copy(clone.ComputedWeights, c.ComputedWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processSources(cfg, input); err != nil {
		return err
	}
	if err := processLayout(cfg, input); err != nil {
		return err
	}
	return processCustomWeights(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.TargetVersion = input.TargetVersion

	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Limit Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 3. Operational Source Validation ---
	cfg.OperationalSource = schema.OperationalSource(strings.ToLower(input.OperationalSource))
	if cfg.OperationalSource == "" {
		cfg.OperationalSource = schema.MetricsSource
	}
	if _, ok := schema.ValidOperationalSources[cfg.OperationalSource]; !ok {
		return fmt.Errorf("invalid operational source '%s'. must be metrics, signals", input.OperationalSource)
	}

	// --- 4. Logging Validation ---
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}

	return nil
}

// validateBackendConfig validates the entity store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if cfg.Backend == "" {
		cfg.Backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, memory", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// processSources resolves the input file of every table relative to the data directory.
func processSources(cfg *Config, input *ConfigRawInput) error {
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	overrides := map[schema.TableKind]string{
		schema.UnitsTable:       input.Sources.Units,
		schema.ControlsTable:    input.Sources.Controls,
		schema.IssuesTable:      input.Sources.Issues,
		schema.IncidentsTable:   input.Sources.Incidents,
		schema.RegulationsTable: input.Sources.Regulations,
		schema.NewsTable:        input.Sources.News,
		schema.VendorsTable:     input.Sources.Vendors,
		schema.CVEsTable:        input.Sources.CVEs,
		schema.OperationalTable: input.Sources.Operational,
	}

	cfg.Sources = make(map[schema.TableKind]string, len(schema.AllTableKinds))
	for _, kind := range schema.AllTableKinds {
		file := strings.TrimSpace(overrides[kind])
		if file == "" {
			file = schema.DefaultSourceFiles[kind]
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(cfg.DataDir, file)
		}
		cfg.Sources[kind] = file
	}
	return nil
}

// processLayout applies column offset overrides on top of the default layout.
func processLayout(cfg *Config, input *ConfigRawInput) error {
	layout := schema.DefaultLayout()
	apply := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&layout.UnitNameColumn, input.Layout.UnitNameColumn)
	apply(&layout.CategoryColumn, input.Layout.CategoryColumn)
	apply(&layout.SubCategoryColumn, input.Layout.SubCategoryColumn)
	apply(&layout.ProcessScopeColumn, input.Layout.ProcessScopeColumn)
	apply(&layout.RatingsOffset, input.Layout.RatingsOffset)
	apply(&layout.OperationalUnitColumn, input.Layout.OperationalUnitColumn)
	apply(&layout.OperationalScoreColumn, input.Layout.OperationalScoreColumn)
	apply(&layout.SubMetricsOffset, input.Layout.SubMetricsOffset)

	if err := layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	cfg.Layout = layout
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into a map of the weights that were provided.
// Negative weights are rejected.
func ProcessWeightsRawInput(weights WeightsRawInput) (map[schema.Component]float64, error) {
	raw := map[schema.Component]*float64{
		schema.BaselineComponent:         weights.Baseline,
		schema.ControlHealthComponent:    weights.ControlHealth,
		schema.AuditIssueTrendComponent:  weights.AuditIssueTrend,
		schema.BusinessExternalComponent: weights.BusinessExternal,
		schema.OperationalRiskComponent:  weights.OperationalRisk,
	}

	result := make(map[schema.Component]float64)
	for _, c := range schema.AllComponents {
		w := raw[c]
		if w == nil {
			continue
		}
		if *w < 0 || math.IsNaN(*w) {
			return nil, fmt.Errorf("weight for %s must not be negative (received %.3f)", c, *w)
		}
		result[c] = *w
	}
	return result, nil
}

// MergeWeights overlays custom weights on the defaults and validates that the result sums to 1.0.
func MergeWeights(custom map[schema.Component]float64) (map[schema.Component]float64, error) {
	merged := schema.GetDefaultWeights()
	maps.Copy(merged, custom)

	sum := 0.0
	for _, w := range merged {
		sum += w
	}
	if math.Abs(sum-1.0) > WeightSumEpsilon {
		return nil, fmt.Errorf("component weights must sum to 1.0, got %.3f", sum)
	}
	return merged, nil
}

// processCustomWeights converts the raw input into cfg.CustomWeights
// and computes the final ComputedWeights.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	custom, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.CustomWeights = custom

	merged, err := MergeWeights(custom)
	if err != nil {
		return err
	}
	cfg.ComputedWeights = merged
	return nil
}

package contract

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/macrodash/schema"
)

// Default values for configuration.
const (
	DefaultAPIURL    = "https://data360api.worldbank.org"
	DefaultFromYear  = 1960
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultTimeout   = 30 * time.Second
	DefaultMaxPages  = 50
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// DefaultWorkers is the default number of concurrent fetches.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	Indicator schema.Indicator
	Country   string
	Countries []string
	Unit      string
	Window    schema.Window
	FromYear  int
	ToYear    int

	APIURL   string
	Timeout  time.Duration
	MaxPages int
	Workers  int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int  // Terminal width override (0 = auto-detect)
	UseColors  bool // Enable colored labels in table output

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	IndicatorKey string

	// --- Fields from rootCmd.PersistentFlags() ---
	Country           string `mapstructure:"country"`
	Countries         string `mapstructure:"countries"`
	Unit              string `mapstructure:"unit"`
	Window            string `mapstructure:"window"`
	From              int    `mapstructure:"from"`
	To                int    `mapstructure:"to"`
	APIURL            string `mapstructure:"api-url"`
	Timeout           string `mapstructure:"timeout"`
	MaxPages          int    `mapstructure:"max-pages"`
	Workers           int    `mapstructure:"workers"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	LogLevel          string `mapstructure:"log-level"`
	LogFormat         string `mapstructure:"log-format"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Countries = slices.Clone(c.Countries)
	clone.Indicator.Units = slices.Clone(c.Indicator.Units)
	return &clone
}

// Query builds the immutable selection handed to the pipeline.
func (c *Config) Query() schema.Query {
	return schema.NewQuery(c.Country, c.Unit, c.Window, c.Countries)
}

// FetchRequest builds the data source request for one country.
func (c *Config) FetchRequest(country string) schema.FetchRequest {
	return schema.FetchRequest{
		Indicator: c.Indicator,
		Country:   country,
		Unit:      c.Unit,
		From:      c.FromYear,
		To:        c.ToYear,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processIndicator(cfg, input); err != nil {
		return err
	}
	if err := processEntities(cfg, input); err != nil {
		return err
	}
	if err := processYearRange(cfg, input, time.Now()); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
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

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("analysis-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation and transport fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(input.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.MaxPages <= 0 {
		return fmt.Errorf("max-pages must be greater than 0 (received %d)", input.MaxPages)
	}
	cfg.MaxPages = input.MaxPages

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid timeout '%s'. expected a positive duration such as 30s", input.Timeout)
		}
		cfg.Timeout = timeout
	}

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	window, err := schema.ParseWindow(input.Window)
	if err != nil {
		return err
	}
	cfg.Window = window

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(input.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}
	return nil
}

// processIndicator resolves the indicator key and checks the unit against it.
// Commands without an indicator argument skip the unit check.
func processIndicator(cfg *Config, input *ConfigRawInput) error {
	cfg.Unit = strings.ToUpper(strings.TrimSpace(input.Unit))
	if strings.TrimSpace(input.IndicatorKey) == "" {
		cfg.Indicator = schema.Indicator{}
		return nil
	}
	ind, err := schema.LookupIndicator(input.IndicatorKey)
	if err != nil {
		return err
	}
	if err := ind.ValidateUnit(cfg.Unit); err != nil {
		return err
	}
	cfg.Indicator = ind
	return nil
}

// processEntities normalizes the focus country and the comparison set.
func processEntities(cfg *Config, input *ConfigRawInput) error {
	cfg.Country = strings.ToUpper(strings.TrimSpace(input.Country))
	if cfg.Country == "" {
		cfg.Country = schema.DefaultCountry
	}
	if !isCountryCode(cfg.Country) {
		return fmt.Errorf("invalid country '%s'. expected an ISO 3166 alpha-3 code such as MYS", input.Country)
	}

	cfg.Countries = nil
	for part := range strings.SplitSeq(input.Countries, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" || slices.Contains(cfg.Countries, code) {
			continue
		}
		if !isCountryCode(code) {
			return fmt.Errorf("invalid country '%s' in --countries. expected ISO 3166 alpha-3 codes", part)
		}
		cfg.Countries = append(cfg.Countries, code)
	}
	if len(cfg.Countries) == 0 {
		cfg.Countries = slices.Clone(schema.ASEANCountries)
	}
	return nil
}

// processYearRange validates the requested period bounds.
func processYearRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.FromYear = input.From
	if cfg.FromYear == 0 {
		cfg.FromYear = DefaultFromYear
	}
	cfg.ToYear = input.To
	if cfg.ToYear == 0 {
		cfg.ToYear = now.Year()
	}
	if cfg.FromYear < 0 || cfg.ToYear < 0 {
		return fmt.Errorf("years must be positive (received from=%d to=%d)", cfg.FromYear, cfg.ToYear)
	}
	if cfg.FromYear > cfg.ToYear {
		return fmt.Errorf("from year (%d) cannot be after to year (%d)", cfg.FromYear, cfg.ToYear)
	}
	return nil
}

// isCountryCode reports whether s looks like an ISO 3166 alpha-3 code.
func isCountryCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// QueryOverrides holds per-request selections that replace the base config,
// such as the arguments of an MCP tool call. Empty fields keep the base value.
type QueryOverrides struct {
	Indicator string
	Country   string
	Countries string
	Unit      string
	Window    string
}

// RevalidateQuery applies overrides to cfg and validates the resulting selection.
// The indicator is required, either from the base config or the overrides.
func RevalidateQuery(cfg *Config, o QueryOverrides) error {
	input := &ConfigRawInput{
		IndicatorKey: o.Indicator,
		Country:      o.Country,
		Countries:    o.Countries,
		Unit:         o.Unit,
	}
	if input.IndicatorKey == "" {
		input.IndicatorKey = cfg.Indicator.Key
	}
	if input.IndicatorKey == "" {
		return fmt.Errorf("indicator is required. must be one of %s", strings.Join(schema.IndicatorKeys(), ", "))
	}
	if input.Country == "" {
		input.Country = cfg.Country
	}
	if input.Countries == "" {
		input.Countries = strings.Join(cfg.Countries, ",")
	}
	if o.Indicator == "" && o.Unit == "" {
		input.Unit = cfg.Unit
	}

	if err := processIndicator(cfg, input); err != nil {
		return err
	}
	if err := processEntities(cfg, input); err != nil {
		return err
	}
	if o.Window != "" {
		window, err := schema.ParseWindow(o.Window)
		if err != nil {
			return err
		}
		cfg.Window = window
	}
	return nil
}

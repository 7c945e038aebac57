package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/osscompass/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit   = 20
	MaxResultLimit       = 100
	DefaultPrecision     = 1
	DefaultCacheCapacity = 50
	DefaultCacheEvict    = 10
	DefaultGitHubAPIURL  = "https://api.github.com"
	DefaultHTTPTimeout   = 15 * time.Second
	DefaultMaxRetries    = 3
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Languages  []string
	Frameworks []string
	Experience schema.ExperienceLevel

	ResultLimit int
	Filter      schema.FilterMode
	MinScore    float64 // 0 means the per-command default
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Explain     bool
	UseColors   bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheCapacity  int
	CacheEvict     int

	GitHubToken  string // Please use env var as this is plaintext
	GitHubAPIURL string
	HTTPTimeout  time.Duration
	MaxRetries   int

	Debug    bool
	JSONLogs bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Profile ---
	Languages  []string `mapstructure:"languages"`
	Frameworks []string `mapstructure:"frameworks"`
	Experience string   `mapstructure:"experience"`

	// --- Output ---
	Limit      int     `mapstructure:"limit"`
	Filter     string  `mapstructure:"filter"`
	MinScore   float64 `mapstructure:"min-score"`
	Precision  int     `mapstructure:"precision"`
	Output     string  `mapstructure:"output"`
	OutputFile string  `mapstructure:"output-file"`
	Width      int     `mapstructure:"width"`
	Explain    bool    `mapstructure:"explain"`
	Color      string  `mapstructure:"color"`

	// --- Cache ---
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheCapacity  int    `mapstructure:"cache-capacity"`
	CacheEvict     int    `mapstructure:"cache-evict"`

	// --- Upstream ---
	GitHubToken  string `mapstructure:"github-token"`
	GitHubAPIURL string `mapstructure:"github-api-url"`
	HTTPTimeout  string `mapstructure:"http-timeout"`
	MaxRetries   int    `mapstructure:"max-retries"`

	// --- Logging ---
	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

var _ ProfileProvider = &Config{} // Compile-time check

// Profile returns the developer profile described by the config.
func (c *Config) Profile() schema.Profile {
	return schema.Profile{
		Languages:  slices.Clone(c.Languages),
		Frameworks: slices.Clone(c.Frameworks),
		Experience: c.Experience,
	}
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Languages = slices.Clone(c.Languages)
	clone.Frameworks = slices.Clone(c.Frameworks)
	return &clone
}

// ProcessAndValidate populates cfg from input after validating every field.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processProfile(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processUpstream(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString performs basic validation on database connection strings.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, memory, none", backend)
	}
	return nil
}

// processProfile normalizes the skill lists and the experience level.
func processProfile(cfg *Config, input *ConfigRawInput) error {
	cfg.Languages = normalizeSkills(input.Languages)
	cfg.Frameworks = normalizeSkills(input.Frameworks)

	cfg.Experience = schema.ExperienceLevel(strings.ToLower(strings.TrimSpace(input.Experience)))
	if cfg.Experience == "" {
		cfg.Experience = schema.Beginner
	}
	if _, ok := schema.ValidExperienceLevels[cfg.Experience]; !ok {
		return fmt.Errorf("invalid experience '%s'. must be beginner, intermediate, advanced", input.Experience)
	}
	return nil
}

// normalizeSkills trims entries, splits comma lists and drops blanks.
// A blank skill would otherwise match every topic as a substring.
func normalizeSkills(raw []string) []string {
	var out []string
	for _, s := range raw {
		out = append(out, schema.SplitList(s)...)
	}
	return out
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Explain = input.Explain
	cfg.Debug = input.Debug
	cfg.JSONLogs = input.JSON

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Filter = schema.FilterMode(strings.ToLower(input.Filter))
	if cfg.Filter == "" {
		cfg.Filter = schema.AllFilter
	}
	if _, ok := schema.ValidFilterModes[cfg.Filter]; !ok {
		return fmt.Errorf("invalid filter '%s'. must be all, beginner, gsoc, hacktoberfest", input.Filter)
	}

	if input.MinScore < 0 {
		return fmt.Errorf("min-score cannot be negative (received %v)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// validateBackendConfigs validates the cache backend and its sizing.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, memory, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheCapacity = input.CacheCapacity
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	cfg.CacheEvict = input.CacheEvict
	if cfg.CacheEvict <= 0 {
		cfg.CacheEvict = DefaultCacheEvict
	}
	if cfg.CacheEvict > cfg.CacheCapacity {
		return fmt.Errorf("cache-evict (%d) cannot exceed cache-capacity (%d)", cfg.CacheEvict, cfg.CacheCapacity)
	}
	return nil
}

// processUpstream validates the GitHub client settings.
func processUpstream(cfg *Config, input *ConfigRawInput) error {
	cfg.GitHubToken = strings.TrimSpace(input.GitHubToken)

	cfg.GitHubAPIURL = strings.TrimRight(input.GitHubAPIURL, "/")
	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = DefaultGitHubAPIURL
	}
	if !strings.HasPrefix(cfg.GitHubAPIURL, "http://") && !strings.HasPrefix(cfg.GitHubAPIURL, "https://") {
		return fmt.Errorf("github-api-url must start with http:// or https:// (received %q)", input.GitHubAPIURL)
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if input.HTTPTimeout != "" {
		d, err := time.ParseDuration(input.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid http-timeout %q: %w", input.HTTPTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("http-timeout must be positive (received %s)", d)
		}
		cfg.HTTPTimeout = d
	}

	if input.MaxRetries < 0 {
		return fmt.Errorf("max-retries cannot be negative (received %d)", input.MaxRetries)
	}
	cfg.MaxRetries = input.MaxRetries
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return nil
}

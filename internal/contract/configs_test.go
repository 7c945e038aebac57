package contract

import (
	"testing"
	"time"

	"github.com/huangsam/osscompass/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation, as the root command defaults would produce.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Languages:    []string{"Go", "Python"},
		Frameworks:   []string{"React"},
		Experience:   "beginner",
		Limit:        DefaultResultLimit,
		Filter:       "all",
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
		CacheBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "invalid experience", mutate: func(in *ConfigRawInput) { in.Experience = "guru" }, expectError: true},
		{name: "empty experience defaults", mutate: func(in *ConfigRawInput) { in.Experience = "" }},
		{name: "uppercase experience", mutate: func(in *ConfigRawInput) { in.Experience = "ADVANCED" }},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "invalid filter", mutate: func(in *ConfigRawInput) { in.Filter = "everything" }, expectError: true},
		{name: "gsoc filter", mutate: func(in *ConfigRawInput) { in.Filter = "GSOC" }},
		{name: "negative min score", mutate: func(in *ConfigRawInput) { in.MinScore = -1 }, expectError: true},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "memory backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "memory" }},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{name: "evict exceeds capacity", mutate: func(in *ConfigRawInput) { in.CacheCapacity = 5; in.CacheEvict = 6 }, expectError: true},
		{name: "invalid api url", mutate: func(in *ConfigRawInput) { in.GitHubAPIURL = "ftp://example.com" }, expectError: true},
		{name: "invalid timeout", mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "soon" }, expectError: true},
		{name: "negative timeout", mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "-1s" }, expectError: true},
		{name: "negative retries", mutate: func(in *ConfigRawInput) { in.MaxRetries = -2 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Languages = []string{" Go ", "", "rust,  zig"}
	input.Experience = ""
	input.Filter = ""
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"Go", "rust", "zig"}, cfg.Languages)
	assert.Equal(t, schema.Beginner, cfg.Experience)
	assert.Equal(t, schema.AllFilter, cfg.Filter)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, DefaultCacheCapacity, cfg.CacheCapacity)
	assert.Equal(t, DefaultCacheEvict, cfg.CacheEvict)
	assert.Equal(t, DefaultGitHubAPIURL, cfg.GitHubAPIURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateUpstream(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.GitHubAPIURL = "https://ghe.example.com/api/v3/"
	input.HTTPTimeout = "3s"
	input.MaxRetries = 5
	input.GitHubToken = "  tok  "
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHubAPIURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "tok", cfg.GitHubToken)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"memory empty", schema.MemoryBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/osscompass", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql no tcp", schema.MySQLBackend, "root:pw@localhost/osscompass", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=osscompass", false},
		{"postgres no host", schema.PostgreSQLBackend, "port=5432 dbname=osscompass", true},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"unknown", schema.DatabaseBackend("redis"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigCloneAndProfile(t *testing.T) {
	cfg := &Config{
		Languages:  []string{"Go"},
		Frameworks: []string{"Gin"},
		Experience: schema.Advanced,
	}
	clone := cfg.Clone()
	clone.Languages[0] = "Rust"
	assert.Equal(t, "Go", cfg.Languages[0])

	p := cfg.Profile()
	p.Frameworks[0] = "Echo"
	assert.Equal(t, "Gin", cfg.Frameworks[0])
	assert.Equal(t, schema.Advanced, p.Experience)

	assert.Equal(t, cfg.Profile(), StaticProfile(cfg.Profile()).Profile())
}

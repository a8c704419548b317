// Package config handles configuration loading for envirorank.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ENVIRORANK_API_PORT.
const EnvPrefix = "ENVIRORANK"

// Renderer names accepted by dashboard.renderer.
const (
	RendererECharts = "echarts"
	RendererSVG     = "svg"
)

// Config represents the complete application configuration.
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"   yaml:"dataset"   json:"dataset"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard" json:"dashboard"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"       json:"api"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"   json:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"   json:"logging"`
}

// DatasetConfig locates the district metric table.
type DatasetConfig struct {
	Path       string `mapstructure:"path"        yaml:"path"        json:"path"`        // .csv, .tsv or .xlsx
	KeyColumn  string `mapstructure:"key_column"  yaml:"key_column"  json:"key_column"`
	SchemaFile string `mapstructure:"schema_file" yaml:"schema_file" json:"schema_file"` // optional YAML expectations
	Sheet      string `mapstructure:"sheet"       yaml:"sheet"       json:"sheet"`       // XLSX only
}

// DashboardConfig holds presentation settings.
type DashboardConfig struct {
	Title            string `mapstructure:"title"             yaml:"title"             json:"title"`
	MaxSelections    int    `mapstructure:"max_selections"    yaml:"max_selections"    json:"max_selections"`
	DefaultMetric    string `mapstructure:"default_metric"    yaml:"default_metric"    json:"default_metric"`
	Renderer         string `mapstructure:"renderer"          yaml:"renderer"          json:"renderer"` // "echarts" or "svg"
	ValuePrecision   int    `mapstructure:"value_precision"   yaml:"value_precision"   json:"value_precision"`
	ComparePrecision int    `mapstructure:"compare_precision" yaml:"compare_precision" json:"compare_precision"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host         string   `mapstructure:"host"            yaml:"host"            json:"host"`
	Port         int      `mapstructure:"port"            yaml:"port"            json:"port"`
	CORSOrigins  []string `mapstructure:"cors_origins"    yaml:"cors_origins"    json:"cors_origins"`
	CacheTTL     int      `mapstructure:"cache_ttl"       yaml:"cache_ttl"       json:"cache_ttl"`       // seconds
	WSRatePerSec int      `mapstructure:"ws_rate_per_sec" yaml:"ws_rate_per_sec" json:"ws_rate_per_sec"` // messages per client
}

// Addr returns host:port.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"    json:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.envirorank/config.yaml (home directory)
//  3. /etc/envirorank/config.yaml (system)
//
// Environment variables override config file values.
// Format: ENVIRORANK_<SECTION>_<KEY>, e.g., ENVIRORANK_DATASET_PATH
func Load() (*Config, error) {
	v := newViper()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".envirorank"))
	v.AddConfigPath("/etc/envirorank")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults + env vars apply
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the built-in configuration without reading files or
// the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("dataset.path", "District_Data_Modified.csv")
	v.SetDefault("dataset.key_column", "ADM2_EN")
	v.SetDefault("dataset.schema_file", "")
	v.SetDefault("dataset.sheet", "")

	// Dashboard defaults
	v.SetDefault("dashboard.title", "Sri Lanka Environmental Ranking Dashboard")
	v.SetDefault("dashboard.max_selections", 3)
	v.SetDefault("dashboard.default_metric", "")
	v.SetDefault("dashboard.renderer", RendererECharts)
	v.SetDefault("dashboard.value_precision", 3)
	v.SetDefault("dashboard.compare_precision", 2)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8501)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.cache_ttl", 300) // 5 minutes
	v.SetDefault("api.ws_rate_per_sec", 10)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv applies the short ENVIRORANK_DATA alias for the table path.
// The fully qualified ENVIRORANK_DATASET_PATH wins when both are set.
func overrideFromEnv(cfg *Config) {
	if os.Getenv(EnvPrefix+"_DATASET_PATH") != "" {
		return
	}
	if path := os.Getenv(EnvPrefix + "_DATA"); path != "" {
		cfg.Dataset.Path = path
	}
}

// Validate checks the configuration and clamps out-of-range presentation
// settings to their defaults. Every problem found is reported.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Dataset.Path) == "" {
		errs = append(errs, errors.New("dataset.path must not be empty"))
	}
	if strings.TrimSpace(c.Dataset.KeyColumn) == "" {
		errs = append(errs, errors.New("dataset.key_column must not be empty"))
	}

	if c.Dashboard.MaxSelections < 1 || c.Dashboard.MaxSelections > 3 {
		c.Dashboard.MaxSelections = 3
	}
	if c.Dashboard.ValuePrecision < 0 || c.Dashboard.ValuePrecision > 10 {
		c.Dashboard.ValuePrecision = 3
	}
	if c.Dashboard.ComparePrecision < 0 || c.Dashboard.ComparePrecision > 10 {
		c.Dashboard.ComparePrecision = 2
	}
	switch strings.ToLower(c.Dashboard.Renderer) {
	case RendererECharts, RendererSVG:
		c.Dashboard.Renderer = strings.ToLower(c.Dashboard.Renderer)
	default:
		errs = append(errs, fmt.Errorf("dashboard.renderer: unknown renderer %q (want %s or %s)", c.Dashboard.Renderer, RendererECharts, RendererSVG))
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port: %d is not a valid port", c.API.Port))
	}
	if c.API.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("api.cache_ttl: must not be negative, got %d", c.API.CacheTTL))
	}
	if c.API.WSRatePerSec < 1 {
		c.API.WSRatePerSec = 10
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path: %q must start with /", c.Metrics.Path))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

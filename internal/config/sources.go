package config

import (
	"os"
	"strings"
)

// SettingSource represents where a setting's value comes from.
type SettingSource string

const (
	SourceEnv     SettingSource = "env"
	SourceConfig  SettingSource = "config"
	SourceDefault SettingSource = "default"
)

// SettingStatus describes one user-facing setting for the status command.
type SettingStatus struct {
	Name   string        `json:"name"`
	Key    string        `json:"key"`
	Value  string        `json:"value"`
	Source SettingSource `json:"source"`
}

// CheckSettings reports the effective value and origin of the settings an
// operator most often overrides.
func CheckSettings(cfg *Config) []SettingStatus {
	def := Default()
	return []SettingStatus{
		checkSetting("Data table", "dataset.path", cfg.Dataset.Path, def.Dataset.Path),
		checkSetting("Key column", "dataset.key_column", cfg.Dataset.KeyColumn, def.Dataset.KeyColumn),
		checkSetting("Schema file", "dataset.schema_file", cfg.Dataset.SchemaFile, def.Dataset.SchemaFile),
		checkSetting("Renderer", "dashboard.renderer", cfg.Dashboard.Renderer, def.Dashboard.Renderer),
		checkSetting("Listen address", "api.port", cfg.API.Addr(), def.API.Addr()),
		checkSetting("Log level", "logging.level", cfg.Logging.Level, def.Logging.Level),
	}
}

// checkSetting checks whether a value came from the environment, a config
// file or the defaults.
func checkSetting(name, key, value, defaultValue string) SettingStatus {
	status := SettingStatus{Name: name, Key: key, Value: value}

	switch {
	case os.Getenv(EnvVar(key)) != "":
		status.Source = SourceEnv
	case value != defaultValue:
		status.Source = SourceConfig
	default:
		status.Source = SourceDefault
	}
	if status.Value == "" {
		status.Value = "(none)"
	}
	return status
}

// EnvVar returns the environment variable overriding a config key.
// e.g., "dataset.path" → "ENVIRORANK_DATASET_PATH"
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

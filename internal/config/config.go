// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load() layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the organization's reporting timezone; adapters
	// convert source timestamps to it before deriving calendar dates.
	Timezone string `koanf:"timezone"`

	// FetchTimeoutMS bounds each source adapter's fetch individually.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// PrimarySplit is the default fraction of mold-change task points
	// credited to the primary operator.
	PrimarySplit float64 `koanf:"primary_split"`

	// OvertimeRate is the points credited per overtime hour.
	OvertimeRate float64 `koanf:"overtime_rate"`

	// AbsencePenalty is the points deducted per absence hour.
	AbsencePenalty float64 `koanf:"absence_penalty"`

	// MaxRangeDays caps the requested date range length.
	MaxRangeDays int `koanf:"max_range_days"`

	// SQLiteDSN, when set, backs the source stores with a SQLite
	// snapshot instead of in-memory stores.
	SQLiteDSN string `koanf:"sqlite_dsn"`

	// Demo seeds the in-memory stores with synthetic records at startup.
	Demo bool `koanf:"demo"`
}

// New creates a Config with service defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		Timezone:       "Europe/Istanbul",
		FetchTimeoutMS: 5_000,
		PrimarySplit:   0.5,
		OvertimeRate:   2.0,
		AbsencePenalty: 3.0,
		MaxRangeDays:   92,
	}
}

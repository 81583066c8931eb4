package viewpulse

import (
	"github.com/ghalamif/ViewPulse/internal/adapters/csvfile"
	"github.com/ghalamif/ViewPulse/internal/adapters/youtube"
	"github.com/ghalamif/ViewPulse/internal/app/config"
	"github.com/ghalamif/ViewPulse/internal/app/milestone"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// MilestonesConfig selects the reference zone, selection policy and offsets.
	MilestonesConfig = config.MilestonesConfig
	// SourceConfig points at the statistics the report is computed from.
	SourceConfig = config.SourceConfig
	// ReportConfig names where the report is written.
	ReportConfig = config.ReportConfig
	// PostgresConfig configures the Postgres store and report tables.
	PostgresConfig = config.PostgresConfig
	// CollectorConfig configures the YouTube Data API collector.
	CollectorConfig = youtube.Config
	// ComputeConfig tunes report assembly.
	ComputeConfig = config.ComputeConfig
	// MetricsConfig configures the Prometheus textfile export.
	MetricsConfig = config.MetricsConfig
	// LoggingConfig configures the zerolog logger.
	LoggingConfig = config.LoggingConfig
	// Columns maps CSV header names onto series fields.
	Columns = csvfile.Columns
	// Offset is a fixed-duration milestone.
	Offset = milestone.Offset
	// SelectionPolicy decides which snapshot answers a milestone.
	SelectionPolicy = ports.SelectionPolicy
	// SelectionMode names a selection policy.
	SelectionMode = ports.SelectionMode
)

const (
	ModeBracketing = ports.ModeBracketing
	ModeTolerance  = ports.ModeTolerance
	ModeFirstAfter = ports.ModeFirstAfter
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the configuration an empty YAML file produces.
func DefaultConfig() *Config {
	return config.Default()
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ghalamif/ViewPulse/internal/adapters/csvfile"
	"github.com/ghalamif/ViewPulse/internal/adapters/postgres"
	"github.com/ghalamif/ViewPulse/internal/adapters/youtube"
	"github.com/ghalamif/ViewPulse/internal/app/milestone"
	"github.com/ghalamif/ViewPulse/internal/ports"
	"gopkg.in/yaml.v3"
)

const (
	KindCSV      = "csv"
	KindPostgres = "postgres"
	KindTable    = "table"
)

type Config struct {
	Milestones MilestonesConfig `yaml:"milestones"`
	Source     SourceConfig     `yaml:"source"`
	Report     ReportConfig     `yaml:"report"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Collector  youtube.Config   `yaml:"collector"`
	Compute    ComputeConfig    `yaml:"compute"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type MilestonesConfig struct {
	Timezone              string `yaml:"timezone"`
	ports.SelectionPolicy `yaml:",inline"`
	EndOfDay              *bool              `yaml:"end_of_day"`
	Offsets               []milestone.Offset `yaml:"offsets"`
}

type SourceConfig struct {
	Kind    string          `yaml:"kind"`
	Path    string          `yaml:"path"`
	Columns csvfile.Columns `yaml:"columns"`
}

type ReportConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	ConnString  string `yaml:"conn_string"`
	StatsTable  string `yaml:"stats_table"`
	ReportTable string `yaml:"report_table"`
	BatchSize   int    `yaml:"batch_size"`
}

type ComputeConfig struct {
	Workers int `yaml:"workers"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(raw []byte) (*Config, error) {
	cfg := seeded()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default is the configuration of an empty file.
func Default() *Config {
	cfg := seeded()
	cfg.applyDefaults()
	return cfg
}

// seeded presets the fields whose zero value is a valid setting, so only an
// absent key picks up the default.
func seeded() *Config {
	var cfg Config
	cfg.Milestones.Tolerance = ports.DefaultTolerance
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Milestones.Timezone == "" {
		c.Milestones.Timezone = milestone.DefaultTimezone
	}
	if c.Milestones.Mode == "" {
		c.Milestones.Mode = ports.ModeBracketing
	}
	if c.Milestones.EndOfDay == nil {
		on := true
		c.Milestones.EndOfDay = &on
	}
	if len(c.Milestones.Offsets) == 0 {
		c.Milestones.Offsets = milestone.DefaultOffsets()
	}

	if c.Source.Kind == "" {
		c.Source.Kind = KindCSV
	}
	if c.Source.Path == "" {
		c.Source.Path = "data/daily_stats.csv"
	}
	c.Source.Columns.ApplyDefaults()

	if c.Report.Kind == "" {
		c.Report.Kind = KindCSV
	}
	if c.Report.Path == "" {
		c.Report.Path = "data/milestones.csv"
	}

	if c.Postgres.ConnString == "" {
		c.Postgres.ConnString = os.Getenv("DATABASE_URL")
	}
	if c.Postgres.StatsTable == "" {
		c.Postgres.StatsTable = "daily_stats"
	}
	if c.Postgres.ReportTable == "" {
		c.Postgres.ReportTable = "milestones"
	}
	if c.Postgres.BatchSize <= 0 {
		c.Postgres.BatchSize = 1000
	}

	c.Collector.ApplyDefaults()
	if c.Collector.Watchlist == "" {
		c.Collector.Watchlist = "video_ids.csv"
	}

	if c.Compute.Workers <= 0 {
		c.Compute.Workers = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) validate() error {
	if _, err := c.Milestones.Location(); err != nil {
		return fmt.Errorf("milestones.timezone: %w", err)
	}
	if err := c.Milestones.SelectionPolicy.Validate(); err != nil {
		return fmt.Errorf("milestones.policy: %w", err)
	}
	if _, err := c.Milestones.Calculator(); err != nil {
		return fmt.Errorf("milestones.offsets: %w", err)
	}

	switch c.Source.Kind {
	case KindCSV, KindPostgres:
	default:
		return fmt.Errorf("source.kind must be csv or postgres, got %q", c.Source.Kind)
	}
	switch c.Report.Kind {
	case KindCSV, KindPostgres, KindTable:
	default:
		return fmt.Errorf("report.kind must be csv, postgres or table, got %q", c.Report.Kind)
	}
	if c.UsesPostgres() && c.Postgres.ConnString == "" {
		return fmt.Errorf("postgres.conn_string (or DATABASE_URL) is required")
	}
	if c.Postgres.BatchSize > postgres.MaxBatchSize {
		return fmt.Errorf("postgres.batch_size must be <= %d, got %d", postgres.MaxBatchSize, c.Postgres.BatchSize)
	}
	if err := c.Collector.Validate(); err != nil {
		return fmt.Errorf("collector config: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// UsesPostgres reports whether the source or the report lives in Postgres.
func (c *Config) UsesPostgres() bool {
	return c.Source.Kind == KindPostgres || c.Report.Kind == KindPostgres
}

func (m MilestonesConfig) Location() (*time.Location, error) {
	return time.LoadLocation(m.Timezone)
}

func (m MilestonesConfig) Calculator() (*milestone.Calculator, error) {
	loc, err := m.Location()
	if err != nil {
		return nil, err
	}
	return milestone.NewCalculator(loc, m.Offsets, m.EndOfDay == nil || *m.EndOfDay)
}

// Assembler builds the report assembler for these settings.
func (m MilestonesConfig) Assembler() (*milestone.Assembler, error) {
	calc, err := m.Calculator()
	if err != nil {
		return nil, err
	}
	return milestone.NewAssembler(calc, m.SelectionPolicy), nil
}

// Package config provides configuration management for i-CON.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceSheets = "sheets"
	SourceSQLite = "sqlite"
)

// Config represents the i-CON configuration.
type Config struct {
	ICON ICONConfig `yaml:"icon"`
}

// ICONConfig contains the main settings.
type ICONConfig struct {
	// Source describes where the monitoring sheet is read from.
	Source SourceConfig `yaml:"source"`

	// Columns names the sheet's non-stage columns.
	Columns database.Columns `yaml:"columns"`

	// Stages is the SOP schedule in processing order.
	Stages []StageConfig `yaml:"stages"`

	// Placeholders are the "not applicable" markers.
	Placeholders []string `yaml:"placeholders"`

	// ThresholdDays is checked against the schedule budget; 0 derives it.
	ThresholdDays int `yaml:"threshold_days"`

	// CacheTTL is how long a loaded snapshot is served before reloading.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Server configuration for the HTTP API.
	Server ServerConfig `yaml:"server"`
}

// SourceConfig selects and configures the data source.
type SourceConfig struct {
	Kind string `yaml:"kind"`

	// File source
	Path  string `yaml:"path,omitempty"`
	Sheet string `yaml:"sheet,omitempty"`

	// Sheets source: either a full CSV URL or a spreadsheet id and gid.
	URL           string `yaml:"url,omitempty"`
	SpreadsheetID string `yaml:"spreadsheet_id,omitempty"`
	GID           string `yaml:"gid,omitempty"`
	TokenEnv      string `yaml:"token_env,omitempty"`

	// SQLite source; Path is the database file.
	Table string `yaml:"table,omitempty"`
}

// StageConfig is one schedule entry.
type StageConfig struct {
	Name    string `yaml:"name"`
	Column  string `yaml:"column,omitempty"`
	SOPDays int    `yaml:"sop_days"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cols := database.DefaultColumns()
	stages := make([]StageConfig, 0, len(sop.DefaultStages()))
	for _, st := range sop.DefaultStages() {
		stages = append(stages, StageConfig{
			Name:    st.Name,
			Column:  cols.StageColumn(st.Name),
			SOPDays: st.SOPDays,
		})
	}
	cols.Stages = nil

	return &Config{
		ICON: ICONConfig{
			Source: SourceConfig{
				Kind:     SourceFile,
				Path:     "data/permohonan.csv",
				TokenEnv: "ICON_SHEETS_TOKEN",
				Table:    "applications",
			},
			Columns:      cols,
			Stages:       stages,
			Placeholders: append([]string(nil), sop.DefaultPlaceholders...),
			CacheTTL:     300 * time.Second,
			Server: ServerConfig{
				Addr:     "127.0.0.1:8080",
				BasePath: "/v0",
			},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	// Check common locations
	candidates := []string{
		".icon/config.yaml",
		"icon.yaml",
		"icon.yml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no i-CON configuration found")
}

// LoadFromDir loads configuration from the given directory.
func LoadFromDir(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		// Return default config if no config file found
		return DefaultConfig(), nil
	}

	return Load(path)
}

// SourcePath returns the resolved file or SQLite path.
func (c *Config) SourcePath(baseDir string) string {
	if c.ICON.Source.Path == "" || filepath.IsAbs(c.ICON.Source.Path) {
		return c.ICON.Source.Path
	}
	return filepath.Join(baseDir, c.ICON.Source.Path)
}

// Schedule builds the SOP schedule.
func (c *Config) Schedule() (*sop.Schedule, error) {
	stages := make([]sop.Stage, len(c.ICON.Stages))
	for i, st := range c.ICON.Stages {
		stages[i] = sop.Stage{Name: st.Name, SOPDays: st.SOPDays}
	}
	return sop.NewSchedule(stages...)
}

// Budget returns the configured threshold, or the sum of the stage SOP
// days when no threshold is set.
func (c *Config) Budget() int {
	if c.ICON.ThresholdDays > 0 {
		return c.ICON.ThresholdDays
	}
	total := 0
	for _, st := range c.ICON.Stages {
		total += st.SOPDays
	}
	return total
}

// Engine builds the engine for the configured schedule.
func (c *Config) Engine() (*sop.Engine, error) {
	schedule, err := c.Schedule()
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	opts := []sop.Option{sop.WithThreshold(c.ICON.ThresholdDays)}
	if len(c.ICON.Placeholders) > 0 {
		opts = append(opts, sop.WithPlaceholders(c.ICON.Placeholders...))
	}
	return sop.NewEngine(schedule, opts...)
}

// ColumnSet returns the column names with each stage's sheet column filled in.
func (c *Config) ColumnSet() database.Columns {
	cols := c.ICON.Columns
	cols.Stages = make(map[string]string, len(c.ICON.Stages))
	for _, st := range c.ICON.Stages {
		name := strings.TrimSpace(st.Name)
		if st.Column != "" {
			cols.Stages[name] = st.Column
		}
	}
	return cols
}

// LoadOptions builds the loader options for the configured sheet.
func (c *Config) LoadOptions(recompute bool) (database.LoadOptions, error) {
	engine, err := c.Engine()
	if err != nil {
		return database.LoadOptions{}, err
	}
	return database.LoadOptions{
		Engine:    engine,
		Columns:   c.ColumnSet(),
		Recompute: recompute,
	}, nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Engine(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.ICON.Columns.RegistrationDate) == "" {
		errs = append(errs, fmt.Errorf("columns.registration_date is required"))
	}
	if c.ICON.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative"))
	}

	src := c.ICON.Source
	switch src.Kind {
	case SourceFile:
		if src.Path == "" {
			errs = append(errs, fmt.Errorf("source.path is required for file sources"))
		}
	case SourceSheets:
		if src.URL == "" && src.SpreadsheetID == "" {
			errs = append(errs, fmt.Errorf("source.url or source.spreadsheet_id is required for sheets sources"))
		}
	case SourceSQLite:
		if src.Path == "" || src.Table == "" {
			errs = append(errs, fmt.Errorf("source.path and source.table are required for sqlite sources"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.kind %q (want file, sheets or sqlite)", src.Kind))
	}

	return errors.Join(errs...)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/icon-pbg/icon-go/internal/adapters"
	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/database"
)

// project is the resolved configuration of one invocation.
type project struct {
	cfg        *config.Config
	configPath string // empty when running on defaults
	baseDir    string // relative source paths resolve against this
}

// loadProject finds and loads the configuration, applying --config and
// --source.
func loadProject() (*project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	p := &project{baseDir: cwd}
	path := viper.GetString("config")
	if path == "" {
		if found, err := config.FindConfig(cwd); err == nil {
			path = found
		}
	}

	if path == "" {
		p.cfg = config.DefaultConfig()
	} else {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		p.cfg = cfg
		p.configPath = path
		p.baseDir = projectDir(path)
	}

	if src := viper.GetString("source"); src != "" {
		overrideSource(&p.cfg.ICON.Source, src)
		// Paths given on the command line are relative to the caller.
		p.baseDir = cwd
	}
	return p, nil
}

// projectDir returns the directory a config file belongs to: the parent of
// .icon/ or the file's own directory.
func projectDir(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ".icon" {
		return filepath.Dir(dir)
	}
	return dir
}

// overrideSource points src at value, picking the kind from its shape.
func overrideSource(src *config.SourceConfig, value string) {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		src.Kind = config.SourceSheets
		src.URL = value
		src.SpreadsheetID = ""
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		src.Kind = config.SourceSQLite
		src.Path = value
	default:
		src.Kind = config.SourceFile
		src.Path = value
	}
}

// source builds the configured data source.
func (p *project) source() (adapters.Source, error) {
	return adapters.NewSource(p.cfg, p.baseDir)
}

// loadOptions builds the engine and column mapping, honoring --recompute.
func (p *project) loadOptions() (database.LoadOptions, error) {
	opts, err := p.cfg.LoadOptions(viper.GetBool("recompute"))
	if err != nil {
		return database.LoadOptions{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

// load reads the current snapshot from the configured source.
func (p *project) load(ctx context.Context) (*database.Database, error) {
	src, err := p.source()
	if err != nil {
		return nil, err
	}
	opts, err := p.loadOptions()
	if err != nil {
		return nil, err
	}
	return adapters.Load(ctx, src, opts)
}

// loadSnapshot is the common prologue of the read-only commands.
func loadSnapshot(ctx context.Context) (*database.Database, *project, error) {
	applyColor()
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := loadProject()
	if err != nil {
		return nil, nil, err
	}
	db, err := p.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return db, p, nil
}

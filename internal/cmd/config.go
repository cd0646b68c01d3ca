package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/icon-pbg/icon-go/internal/adapters"
	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/output"
)

var (
	configValidate bool
	configFormat   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or validate i-CON configuration",
	Long: `Display the effective configuration after merging defaults with icon.yaml.

Examples:
    icon config                     # Show current config
    icon config --validate          # Check config validity and the source
    icon config --format yaml       # Output as YAML`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configValidate, "validate", false, "validate configuration and test the source")
	configCmd.Flags().StringVar(&configFormat, "format", "terminal", "output format: terminal, yaml, json")
}

func runConfig(cmd *cobra.Command, args []string) error {
	applyColor()

	p, err := loadProject()
	if err != nil {
		return err
	}

	if configValidate {
		return validateConfig(cmd, p)
	}

	return displayConfig(cmd, p)
}

func validateConfig(cmd *cobra.Command, p *project) error {
	width := 80
	cmd.Println(output.Header("Configuration Validation", width))
	cmd.Println()

	errs := []string{}
	warnings := []string{}

	if p.configPath == "" {
		warnings = append(warnings, "Config file not found (using defaults)")
	} else {
		cmd.Printf("  %s Config file: %s\n", output.Color("[PASS]", output.Green), p.configPath)
	}

	if err := p.cfg.Validate(); err != nil {
		errs = append(errs, strings.Split(err.Error(), "\n")...)
	} else {
		cmd.Printf("  %s Schedule: %d stages, %d days\n", output.Color("[PASS]", output.Green),
			len(p.cfg.ICON.Stages), p.cfg.Budget())
	}

	if len(errs) == 0 {
		src, err := p.source()
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if ok, msg := adapters.TestConnection(ctx, src); ok {
				cmd.Printf("  %s Source: %s\n", output.Color("[PASS]", output.Green), msg)
			} else {
				errs = append(errs, msg)
			}
		}
	}

	cmd.Println()

	for _, e := range errs {
		cmd.Printf("  %s %s\n", output.Color("[FAIL]", output.Red), e)
	}
	for _, w := range warnings {
		cmd.Printf("  %s %s\n", output.Color("[WARN]", output.Yellow), w)
	}

	cmd.Println()

	if len(errs) > 0 {
		cmd.Printf("Status: %s\n", output.Color("INVALID", output.Red))
		return NewExitError(1, "configuration validation failed")
	} else if len(warnings) > 0 {
		cmd.Printf("Status: %s\n", output.Color("VALID (with warnings)", output.Yellow))
	} else {
		cmd.Printf("Status: %s\n", output.Color("VALID", output.Green))
	}

	return nil
}

func displayConfig(cmd *cobra.Command, p *project) error {
	switch configFormat {
	case "json":
		return displayConfigJSON(cmd, p.cfg)
	case "yaml":
		return displayConfigYAML(cmd, p.cfg)
	case "terminal", "":
		return displayConfigTerminal(cmd, p)
	default:
		return fmt.Errorf("invalid format: %q (want terminal, yaml or json)", configFormat)
	}
}

func displayConfigJSON(cmd *cobra.Command, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg.ICON, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func displayConfigYAML(cmd *cobra.Command, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func displayConfigTerminal(cmd *cobra.Command, p *project) error {
	cfg := p.cfg
	width := 80
	cmd.Println(output.Header("i-CON Configuration", width))
	cmd.Println()

	configPath := p.configPath
	if configPath == "" {
		configPath = "(defaults)"
	}

	src := cfg.ICON.Source
	cmd.Println("Source:")
	cmd.Printf("  Config file: %s\n", configPath)
	cmd.Printf("  Kind:        %s\n", src.Kind)
	switch src.Kind {
	case config.SourceSheets:
		if url, err := adapters.SheetsExportURL(src); err == nil {
			cmd.Printf("  URL:         %s\n", url)
		}
		if src.TokenEnv != "" {
			cmd.Printf("  Token env:   %s\n", src.TokenEnv)
		}
	case config.SourceSQLite:
		cmd.Printf("  Database:    %s\n", cfg.SourcePath(p.baseDir))
		cmd.Printf("  Table:       %s\n", src.Table)
	default:
		cmd.Printf("  Path:        %s\n", cfg.SourcePath(p.baseDir))
		if src.Sheet != "" {
			cmd.Printf("  Sheet:       %s\n", src.Sheet)
		}
	}
	cmd.Printf("  Cache TTL:   %s\n", cfg.ICON.CacheTTL)
	cmd.Println()

	cmd.Println("Stages:")
	for i, st := range cfg.ICON.Stages {
		cmd.Printf("  %2d. %-40s %2d days  [%s]\n", i+1, st.Name, st.SOPDays, cfg.ColumnSet().StageColumn(st.Name))
	}
	cmd.Printf("  Threshold: %d days\n", cfg.Budget())
	cmd.Println()

	cmd.Println("Server:")
	cmd.Printf("  Address:   %s\n", cfg.ICON.Server.Addr)
	cmd.Printf("  Base path: %s\n", cfg.ICON.Server.BasePath)

	return nil
}

// Package cmd provides the CLI commands for i-CON.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/icon-pbg/icon-go/internal/output"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "icon",
	Short: "PBG building-permit SOP compliance monitor",
	Long: `i-CON checks building-permit (PBG) applications against the standard
operating procedure: ten processing stages with a 23 day budget.

It reads the monitoring sheet (CSV, Excel, a Google Sheets export or a SQLite
table), classifies every application as on time, in progress or late, and
locates the stages that exceeded their allowance.

Configuration is read from .icon/config.yaml or icon.yaml. Every global flag
can also be set through the environment with the ICON_ prefix, for example
ICON_SOURCE=data/permohonan.xlsx.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: .icon/config.yaml or icon.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("source", "", "override the data source: file path, sheet URL or SQLite database")
	flags.Bool("recompute", false, "classify every row, ignoring the sheet's STATUS column")
	for _, name := range []string{"config", "no-color", "source", "recompute"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	viper.SetEnvPrefix("ICON")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// applyColor honors --no-color.
func applyColor() {
	if viper.GetBool("no-color") {
		output.DisableColor()
	}
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// NewExitError returns an error that makes main exit with code.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

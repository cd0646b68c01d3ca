package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/testutil"
)

func TestConfigCommand(t *testing.T) {
	dir := sampleProject(t)

	out, err := executeCommand(rootCmd, "config")
	if err != nil {
		t.Fatalf("config failed: %v\n%s", err, out)
	}
	for _, want := range []string{
		"i-CON Configuration",
		filepath.Join(dir, ".icon", "config.yaml"),
		filepath.Join(dir, "data", "permohonan.csv"),
		"Threshold: 23 days",
		"Base path: /v0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigFormats(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "config", "--format", "json")
	if err != nil {
		t.Fatalf("config --format json failed: %v", err)
	}
	var icon config.ICONConfig
	if err := json.Unmarshal([]byte(out), &icon); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(icon.Stages) != 10 {
		t.Errorf("stages = %d, want 10", len(icon.Stages))
	}

	out, err = executeCommand(rootCmd, "config", "--format", "yaml")
	if err != nil {
		t.Fatalf("config --format yaml failed: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if cfg.ICON.Source.Kind != config.SourceFile {
		t.Errorf("source kind = %q", cfg.ICON.Source.Kind)
	}

	if _, err := executeCommand(rootCmd, "config", "--format", "toml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigValidate(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "config", "--validate")
	if err != nil {
		t.Fatalf("config --validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Status: VALID") || strings.Contains(out, "with warnings") {
		t.Errorf("expected VALID:\n%s", out)
	}
}

func TestConfigValidateFailures(t *testing.T) {
	t.Run("threshold mismatch", func(t *testing.T) {
		dir := testutil.TempProjectWithSheet(t, testutil.NewTestConfig(t, testutil.WithThreshold(20)))
		chdir(t, dir)

		out, err := executeCommand(rootCmd, "config", "--validate")
		if exitCode(err) != 1 {
			t.Fatalf("exit code = %d, want 1\n%s", exitCode(err), out)
		}
		if !strings.Contains(out, "INVALID") || !strings.Contains(out, "threshold 20") {
			t.Errorf("expected threshold failure:\n%s", out)
		}
	})

	t.Run("unreachable source", func(t *testing.T) {
		chdir(t, t.TempDir())

		out, err := executeCommand(rootCmd, "config", "--validate")
		if exitCode(err) != 1 {
			t.Fatalf("exit code = %d, want 1\n%s", exitCode(err), out)
		}
		if !strings.Contains(out, "Config file not found") {
			t.Errorf("expected defaults warning:\n%s", out)
		}
	})
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := executeCommand(rootCmd, "init")
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	configPath := filepath.Join(dir, ".icon", "config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated config is invalid: %v", err)
	}

	sheet, err := os.ReadFile(filepath.Join(dir, "data", "permohonan.csv"))
	if err != nil {
		t.Fatalf("sheet not written: %v", err)
	}
	if !strings.HasPrefix(string(sheet), "NO. REGISTRASI,") {
		t.Errorf("sheet header = %q", sheet)
	}

	// The empty project is immediately usable.
	out, err = executeCommand(rootCmd, "health")
	if err != nil {
		t.Errorf("health on a fresh project: %v\n%s", err, out)
	}
}

func TestInitExisting(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := executeCommand(rootCmd, "init"); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	out, err := executeCommand(rootCmd, "init")
	if exitCode(err) != 1 {
		t.Fatalf("exit code = %d, want 1\n%s", exitCode(err), out)
	}
	if !strings.Contains(out, "Use --force to overwrite") {
		t.Errorf("expected force hint:\n%s", out)
	}

	if out, err := executeCommand(rootCmd, "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v\n%s", err, out)
	}
}

func TestDocsCommands(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "docs", "sheet")
	if err != nil {
		t.Fatalf("docs sheet failed: %v\n%s", err, out)
	}
	for _, want := range []string{"# PBG Monitoring Sheet", "TGL REGISTRASI", "VERIFIKASI BERKAS", "TOTAL HARI"} {
		if !strings.Contains(out, want) {
			t.Errorf("sheet doc missing %q", want)
		}
	}

	out, err = executeCommand(rootCmd, "docs", "sop")
	if err != nil {
		t.Fatalf("docs sop failed: %v\n%s", err, out)
	}
	for _, want := range []string{"10 stages, 23 days in total.", "within 23 days", "## Stage Breaches"} {
		if !strings.Contains(out, want) {
			t.Errorf("sop doc missing %q", want)
		}
	}
}

func TestDocsOutputDir(t *testing.T) {
	dir := sampleProject(t)
	docsDir := filepath.Join(dir, "docs")
	if err := os.Mkdir(docsDir, 0755); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "docs", "sop", "-o", docsDir)
	if err != nil {
		t.Fatalf("docs sop failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(filepath.Join(docsDir, "sop.md"))
	if err != nil {
		t.Fatalf("sop.md not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# PBG Standard Operating Procedure") {
		t.Errorf("sop.md = %q", data[:40])
	}
}

func TestQuoteList(t *testing.T) {
	if got := quoteList([]string{"-", "n/a"}); got != "`-`, `n/a`" {
		t.Errorf("quoteList = %q", got)
	}
}

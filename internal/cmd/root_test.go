package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/testutil"
)

// executeCommand executes a cobra command and returns the output and error.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

// sampleProject creates a project holding the sample sheet and enters it.
func sampleProject(t *testing.T) string {
	t.Helper()
	dir := testutil.TempProjectWithSheet(t, testutil.NewTestConfig(t), testutil.SampleRows()...)
	chdir(t, dir)
	return dir
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestRootCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	for _, want := range []string{"icon", "--no-color", "--source", "--recompute", "status", "inspect", "serve"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "icon version dev") || !strings.Contains(out, runtime.Version()) {
		t.Errorf("unexpected version output:\n%s", out)
	}
}

func TestExitError(t *testing.T) {
	err := NewExitError(2, "broken")
	if err.Error() != "broken" || err.Code != 2 {
		t.Errorf("ExitError = %+v", err)
	}
	if exitCode(err) != 2 {
		t.Errorf("exitCode = %d", exitCode(err))
	}
}

func TestProjectDir(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join("proj", ".icon", "config.yaml"), "proj"},
		{filepath.Join("proj", "icon.yaml"), "proj"},
	}
	for _, tt := range tests {
		if got := projectDir(tt.path); got != tt.want {
			t.Errorf("projectDir(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOverrideSource(t *testing.T) {
	tests := []struct {
		value string
		kind  string
	}{
		{"https://docs.google.com/spreadsheets/d/abc/export?format=csv", config.SourceSheets},
		{"data/pbg.sqlite", config.SourceSQLite},
		{"data/pbg.DB", config.SourceSQLite},
		{"data/permohonan.xlsx", config.SourceFile},
		{"sheet.csv", config.SourceFile},
	}
	for _, tt := range tests {
		src := config.DefaultConfig().ICON.Source
		overrideSource(&src, tt.value)
		if src.Kind != tt.kind {
			t.Errorf("overrideSource(%q) kind = %q, want %q", tt.value, src.Kind, tt.kind)
		}
		if tt.kind == config.SourceSheets && src.URL != tt.value {
			t.Errorf("URL = %q", src.URL)
		}
		if tt.kind != config.SourceSheets && src.Path != tt.value {
			t.Errorf("Path = %q", src.Path)
		}
	}
}

func TestSourceFlag(t *testing.T) {
	sampleProject(t)
	other := testutil.SheetCSV(t, testutil.SampleRows()[0])
	if err := os.WriteFile("other.csv", []byte(other), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "--source", "other.csv", "status")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "(1 applications)") {
		t.Errorf("--source not applied:\n%s", out)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := testutil.NewTestConfig(t, testutil.WithSourcePath("sheet.csv"))
	project := filepath.Join(dir, "elsewhere")
	if err := cfg.Save(filepath.Join(project, "icon.yaml")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, "sheet.csv"), []byte(testutil.SheetCSV(t, testutil.SampleRows()...)), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "--config", filepath.Join(project, "icon.yaml"), "status")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "(6 applications)") {
		t.Errorf("relative source path should resolve against the config's directory:\n%s", out)
	}
}

func TestMissingSource(t *testing.T) {
	chdir(t, testutil.TempProject(t))

	_, err := executeCommand(rootCmd, "status")
	if err == nil || !strings.Contains(err.Error(), "failed to fetch") {
		t.Errorf("expected fetch error, got %v", err)
	}
}

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootHasSubcommands(t *testing.T) {
	root := NewRootCommand()

	expected := []string{"init", "validate", "new", "answer", "path", "kickstart", "analyze", "serve"}
	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, want := range expected {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestValidateEmbeddedDefaults(t *testing.T) {
	out, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Question bank:")
	assert.Contains(t, out, "Scenario catalog:")
	assert.Contains(t, out, "Validation passed")
}

func TestValidateBadBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: [not: valid"), 0644))

	_, err := runCLI(t, "validate", "--bank", path)
	assert.Error(t, err)
}

func TestInitCreatesWorkspace(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	for _, name := range []string{"config.yaml", "bank.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, ".axial", name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	// Second run must not clobber.
	out, err = runCLI(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped")
}

func newTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "axial.db")
}

func createTestAssessment(t *testing.T, db string) string {
	t.Helper()
	out, err := runCLI(t, "new", "Acme Corp", "--db", db, "--tag", "finance")
	require.NoError(t, err)

	// Output: "Created assessment <id> (Acme Corp)"
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3)
	return fields[2]
}

func TestNewAndAnswerAndAnalyze(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	out, err := runCLI(t, "answer", id, "GOV-01", "3", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded GOV-01")

	out, err = runCLI(t, "analyze", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Archetype:")
	assert.Contains(t, out, "Axes:")
}

func TestAnswerRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	tests := []struct {
		name string
		args []string
	}{
		{"score out of range", []string{"answer", id, "GOV-01", "9", "--db", db}},
		{"non-numeric score", []string{"answer", id, "GOV-01", "high", "--db", db}},
		{"unknown question", []string{"answer", id, "NOPE-99", "2", "--db", db}},
		{"unknown assessment", []string{"answer", "missing", "GOV-01", "2", "--db", db}},
		{"bad confidence", []string{"answer", id, "GOV-01", "2", "--confidence", "1.5", "--db", db}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeWithoutResponses(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	out, err := runCLI(t, "analyze", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Insufficient data")
}

func TestAnalyzeJSONOutput(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	_, err := runCLI(t, "answer", id, "GOV-01", "4", "--db", db)
	require.NoError(t, err)

	out, err := runCLI(t, "analyze", id, "--json", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `"archetype"`)
	assert.Contains(t, out, `"risk_heatmap"`)
}

func TestPathCommand(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	out, err := runCLI(t, "path", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "reachable")

	_, err = runCLI(t, "path", "missing", "--db", db)
	assert.Error(t, err)
}

func TestPathIgnoresDeferredAnswers(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	_, err := runCLI(t, "answer", id, "GOV-01", "4", "--defer", "--db", db)
	require.NoError(t, err)

	out, err := runCLI(t, "path", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "0 answered", "deferred answers must not resolve the gate")
	assert.NotContains(t, out, "[x]")
}

func TestValidateWarningsPrintOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	content := `
questions:
  - id: Q1
    domain: core
    tier: T1
    next_default: MISSING
    points:
      G: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := runCLI(t, "validate", "--bank", path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `unknown target "MISSING"`),
		"each data-quality warning must appear exactly once")
}

func TestKickstartCommand(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	_, err := runCLI(t, "answer", id, "GOV-01", "2", "--db", db)
	require.NoError(t, err)

	out, err := runCLI(t, "kickstart", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Kickstart diagnostic")
	assert.Contains(t, out, "Overall:")

	out, err = runCLI(t, "kickstart", id, "--soft", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Soft vector")
}

func TestAnalyzeWritesReport(t *testing.T) {
	db := newTestDB(t)
	id := createTestAssessment(t, db)

	_, err := runCLI(t, "answer", id, "GOV-01", "3", "--db", db)
	require.NoError(t, err)

	reportDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf("db_path: %s\nreport_dir: %s\n", db, reportDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, err := runCLI(t, "analyze", id, "--report", "--html", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	entries, err := os.ReadDir(reportDir)
	require.NoError(t, err)

	var haveMD, haveHTML bool
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".md":
			haveMD = true
		case ".html":
			haveHTML = true
		}
	}
	assert.True(t, haveMD, "expected a Markdown report")
	assert.True(t, haveHTML, "expected an HTML report")
}

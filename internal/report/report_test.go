package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/calder/axial/internal/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Archetype: "Resilient Optimiser",
		ArchetypeDetails: models.ArchetypeDetails{
			ArchetypeDefinition: models.ArchetypeDefinition{
				Name:           "Resilient Optimiser",
				Description:    "Balanced posture with steady investment.",
				Strengths:      []string{"Consistent governance"},
				Weaknesses:     []string{"Change friction"},
				PeerComparison: "above median",
			},
			Rationale:  "Weakest axes: Friction, Control Lag.",
			Confidence: 0.8,
		},
		Summary: models.AnalysisSummary{
			TrustIndex:            62.5,
			FrictionScore:         40.0,
			AlphaPenaltyCount:     1,
			EvidenceConfidenceAvg: 0.85,
		},
		Axes: []models.AxisScore{
			{Axis: "Governance", Code: "G", Score: 62.5},
			{Axis: "Resilience", Code: "R", Score: 70.0},
		},
		DeclaredVector: []models.AxisScore{
			{Axis: "Governance", Code: "G", Score: 75.0},
			{Axis: "Resilience", Code: "R", Score: 70.0},
		},
		VerifiedVector: []models.AxisScore{
			{Axis: "Governance", Code: "G", Score: 50.0},
			{Axis: "Resilience", Code: "R", Score: 70.0},
		},
		GapVector: []models.AxisScore{
			{Axis: "Governance", Code: "G", Score: 25.0},
			{Axis: "Resilience", Code: "R", Score: 0.0},
		},
		CapsApplied: []models.CapEvent{
			{Type: "fatigue_cap", Axis: "R", CapTo: 70, Reason: "human axis below support floor"},
		},
		TopRisks: []models.ScenarioRisk{
			{ScenarioID: "ransomware-outage", Name: "Ransomware Outage", Category: "availability",
				Mitigation: 0.42, Likelihood: 5, Impact: 6, RiskScore: 30, Level: "AMBER",
				KeyGaps: []string{"Resilience: 3.1/6"}},
		},
		RiskHeatmap: []models.ScenarioRisk{
			{ScenarioID: "ransomware-outage", Name: "Ransomware Outage", Category: "availability",
				Mitigation: 0.42, Likelihood: 5, Impact: 6, RiskScore: 30, Level: "AMBER"},
		},
	}
}

func sampleAssessment() *models.Assessment {
	return &models.Assessment{
		ID:         "a-1",
		Name:       "Acme Corp",
		IntakeTags: []string{"finance", "cloud"},
	}
}

func fixedBuilder() *Builder {
	b := NewBuilder()
	b.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return b
}

func TestMarkdownContainsAllSections(t *testing.T) {
	md := fixedBuilder().Markdown(sampleAssessment(), sampleResult())

	wanted := []string{
		"# Maturity Assessment Report: Acme Corp",
		"Generated: 2026-03-14 09:00 UTC",
		"Intake tags: finance, cloud",
		"## Archetype: Resilient Optimiser",
		"Classification confidence: 80% question coverage",
		"## Summary",
		"| Trust index | 62.5 |",
		"## Maturity Profile",
		"| Governance | G | 62.5 |",
		"## Declared vs Verified",
		"| Governance | 75.0 | 50.0 | 25.0 |",
		"## Cross-Axis Caps",
		"fatigue_cap",
		"## Top Risks",
		"| Ransomware Outage | availability | 5 | 6 | 30 | AMBER |",
		"Resilience: 3.1/6",
		"## Full Risk Heatmap",
	}
	for _, w := range wanted {
		if !strings.Contains(md, w) {
			t.Errorf("Markdown missing %q", w)
		}
	}
}

func TestMarkdownInsufficientData(t *testing.T) {
	result := &models.AnalysisResult{InsufficientData: true}
	md := fixedBuilder().Markdown(sampleAssessment(), result)

	if !strings.Contains(md, "## Insufficient Data") {
		t.Error("Expected insufficient data section")
	}
	if strings.Contains(md, "## Top Risks") {
		t.Error("Insufficient data report must not include risk sections")
	}
}

func TestHTMLRendersTables(t *testing.T) {
	html, err := fixedBuilder().HTML(sampleAssessment(), sampleResult())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("Expected standalone HTML document")
	}
	if !strings.Contains(html, "<table>") {
		t.Error("Expected Markdown tables converted to HTML tables")
	}
	if !strings.Contains(html, "Ransomware Outage") {
		t.Error("Expected scenario content in HTML output")
	}
}

func TestWriteMarkdownAndHTML(t *testing.T) {
	dir := t.TempDir()
	b := fixedBuilder()

	mdPath, err := b.WriteMarkdown(dir, sampleAssessment(), sampleResult())
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if filepath.Base(mdPath) != "acme-corp-report.md" {
		t.Errorf("Unexpected report name %s", mdPath)
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Errorf("Expected markdown report on disk: %v", err)
	}

	htmlPath, err := b.WriteHTML(dir, sampleAssessment(), sampleResult())
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if filepath.Base(htmlPath) != "acme-corp-report.html" {
		t.Errorf("Unexpected report name %s", htmlPath)
	}
}

func TestReportNameFallsBackToID(t *testing.T) {
	a := &models.Assessment{ID: "abc-123", Name: "!!!"}
	if got := reportName(a, "md"); got != "abc-123-report.md" {
		t.Errorf("Expected ID fallback, got %s", got)
	}
}

// Package report renders analysis results as Markdown and HTML documents.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/calder/axial/internal/filelock"
	"github.com/calder/axial/internal/models"
)

// Builder renders assessment reports.
type Builder struct {
	markdown goldmark.Markdown
	now      func() time.Time
}

// NewBuilder creates a report builder. Tables are the backbone of the report,
// so the GFM table extension is always on.
func NewBuilder() *Builder {
	return &Builder{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
		now:      time.Now,
	}
}

// Markdown renders the full maturity report for one assessment.
func (b *Builder) Markdown(assessment *models.Assessment, result *models.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Maturity Assessment Report: %s\n\n", assessment.Name)
	fmt.Fprintf(&sb, "Generated: %s\n\n", b.now().UTC().Format("2006-01-02 15:04 UTC"))
	if len(assessment.IntakeTags) > 0 {
		fmt.Fprintf(&sb, "Intake tags: %s\n\n", strings.Join(assessment.IntakeTags, ", "))
	}

	if result.InsufficientData {
		sb.WriteString("## Insufficient Data\n\n")
		sb.WriteString("No scorable responses were recorded for this assessment. ")
		sb.WriteString("Answer at least one question and re-run the analysis.\n")
		return sb.String()
	}

	writeArchetype(&sb, result)
	writeSummary(&sb, &result.Summary)
	writeAxisTable(&sb, "Maturity Profile", result.Axes)
	writeGapSection(&sb, result)
	writeCaps(&sb, result.CapsApplied)
	writeRisks(&sb, result)

	return sb.String()
}

// HTML renders the report as a standalone HTML document.
func (b *Builder) HTML(assessment *models.Assessment, result *models.AnalysisResult) (string, error) {
	md := b.Markdown(assessment, result)

	var buf bytes.Buffer
	if err := b.markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to convert report to HTML: %w", err)
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>Maturity Assessment Report: %s</title>\n", assessment.Name)
	doc.WriteString("<style>\nbody { font-family: sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; }\n")
	doc.WriteString("table { border-collapse: collapse; }\ntd, th { border: 1px solid #ccc; padding: 4px 10px; }\n</style>\n")
	doc.WriteString("</head>\n<body>\n")
	doc.Write(buf.Bytes())
	doc.WriteString("</body>\n</html>\n")

	return doc.String(), nil
}

// WriteMarkdown renders and atomically writes the Markdown report, returning
// the written path.
func (b *Builder) WriteMarkdown(dir string, assessment *models.Assessment, result *models.AnalysisResult) (string, error) {
	path := filepath.Join(dir, reportName(assessment, "md"))
	content := b.Markdown(assessment, result)
	if err := filelock.LockAndWrite(path, []byte(content)); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// WriteHTML renders and atomically writes the HTML report, returning the
// written path.
func (b *Builder) WriteHTML(dir string, assessment *models.Assessment, result *models.AnalysisResult) (string, error) {
	content, err := b.HTML(assessment, result)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, reportName(assessment, "html"))
	if err := filelock.LockAndWrite(path, []byte(content)); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func reportName(assessment *models.Assessment, ext string) string {
	slug := strings.ToLower(strings.TrimSpace(assessment.Name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = assessment.ID
	}
	return fmt.Sprintf("%s-report.%s", slug, ext)
}

func writeArchetype(sb *strings.Builder, result *models.AnalysisResult) {
	d := result.ArchetypeDetails
	fmt.Fprintf(sb, "## Archetype: %s\n\n", result.Archetype)
	if d.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", d.Description)
	}
	if d.Rationale != "" {
		fmt.Fprintf(sb, "%s\n\n", d.Rationale)
	}
	fmt.Fprintf(sb, "Classification confidence: %.0f%% question coverage\n\n", d.Confidence*100)

	if len(d.Strengths) > 0 {
		sb.WriteString("**Strengths**\n\n")
		for _, s := range d.Strengths {
			fmt.Fprintf(sb, "- %s\n", s)
		}
		sb.WriteString("\n")
	}
	if len(d.Weaknesses) > 0 {
		sb.WriteString("**Weaknesses**\n\n")
		for _, w := range d.Weaknesses {
			fmt.Fprintf(sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}
	if d.PeerComparison != "" {
		fmt.Fprintf(sb, "Peer comparison: %s\n\n", d.PeerComparison)
	}
}

func writeSummary(sb *strings.Builder, s *models.AnalysisSummary) {
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(sb, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(sb, "| Trust index | %.1f |\n", s.TrustIndex)
	fmt.Fprintf(sb, "| Friction score | %.1f |\n", s.FrictionScore)
	fmt.Fprintf(sb, "| Critical-control penalties | %d |\n", s.AlphaPenaltyCount)
	fmt.Fprintf(sb, "| Average evidence confidence | %.2f |\n", s.EvidenceConfidenceAvg)
	sb.WriteString("\n")
}

func writeAxisTable(sb *strings.Builder, title string, axes []models.AxisScore) {
	if len(axes) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", title)
	sb.WriteString("| Axis | Code | Score |\n|---|---|---|\n")
	for _, a := range axes {
		fmt.Fprintf(sb, "| %s | %s | %.1f |\n", a.Axis, a.Code, a.Score)
	}
	sb.WriteString("\n")
}

func writeGapSection(sb *strings.Builder, result *models.AnalysisResult) {
	if len(result.GapVector) == 0 {
		return
	}
	sb.WriteString("## Declared vs Verified\n\n")
	sb.WriteString("| Axis | Declared | Verified | Gap |\n|---|---|---|---|\n")
	for i, g := range result.GapVector {
		declared, verified := 0.0, 0.0
		if i < len(result.DeclaredVector) {
			declared = result.DeclaredVector[i].Score
		}
		if i < len(result.VerifiedVector) {
			verified = result.VerifiedVector[i].Score
		}
		fmt.Fprintf(sb, "| %s | %.1f | %.1f | %.1f |\n", g.Axis, declared, verified, g.Score)
	}
	sb.WriteString("\nPositive gaps flag axes where self-reported maturity exceeds what evidence supports.\n\n")
}

func writeCaps(sb *strings.Builder, caps []models.CapEvent) {
	if len(caps) == 0 {
		return
	}
	sb.WriteString("## Cross-Axis Caps\n\n")
	for _, c := range caps {
		fmt.Fprintf(sb, "- **%s** limited axis %s to %.0f: %s\n", c.Type, c.Axis, c.CapTo, c.Reason)
	}
	sb.WriteString("\n")
}

func writeRisks(sb *strings.Builder, result *models.AnalysisResult) {
	if len(result.TopRisks) > 0 {
		sb.WriteString("## Top Risks\n\n")
		sb.WriteString("| Scenario | Category | Likelihood | Impact | Score | Level |\n|---|---|---|---|---|---|\n")
		for _, r := range result.TopRisks {
			fmt.Fprintf(sb, "| %s | %s | %d | %d | %d | %s |\n",
				r.Name, r.Category, r.Likelihood, r.Impact, r.RiskScore, r.Level)
		}
		sb.WriteString("\n")

		for _, r := range result.TopRisks {
			if len(r.KeyGaps) == 0 {
				continue
			}
			fmt.Fprintf(sb, "**%s** key gaps:\n\n", r.Name)
			for _, g := range r.KeyGaps {
				fmt.Fprintf(sb, "- %s\n", g)
			}
			sb.WriteString("\n")
		}
	}

	if len(result.RiskHeatmap) > 0 {
		sb.WriteString("## Full Risk Heatmap\n\n")
		sb.WriteString("| Scenario | Category | Mitigation | Likelihood | Impact | Score | Level |\n|---|---|---|---|---|---|---|\n")
		for _, r := range result.RiskHeatmap {
			fmt.Fprintf(sb, "| %s | %s | %.3f | %d | %d | %d | %s |\n",
				r.Name, r.Category, r.Mitigation, r.Likelihood, r.Impact, r.RiskScore, r.Level)
		}
		sb.WriteString("\n")
	}
}

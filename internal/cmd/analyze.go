package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/calder/axial/internal/models"
	"github.com/calder/axial/internal/report"
	"github.com/calder/axial/internal/risk"
	"github.com/calder/axial/internal/scoring"
	"github.com/calder/axial/internal/store"
)

// NewAnalyzeCommand creates the analyze subcommand
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <assessment-id>",
		Short: "Run the full scoring pipeline for an assessment",
		Long: `Score the recorded answers onto the nine maturity axes, classify the
organization into a posture archetype, and evaluate the risk scenario
catalog against the resulting profile.

Examples:
  axial analyze 4f7c...
  axial analyze 4f7c... --json
  axial analyze 4f7c... --report            # write a Markdown report
  axial analyze 4f7c... --report --html     # also write an HTML report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			s, err := env.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			assessment, err := s.GetAssessment(args[0])
			if err != nil {
				return fmt.Errorf("assessment %s not found: %w", args[0], err)
			}

			if alpha, _ := cmd.Flags().GetFloat64("alpha"); alpha > 0 {
				if alpha > 1 {
					return fmt.Errorf("alpha must be between 0 and 1, got %v", alpha)
				}
				env.cfg.HybridAlpha = alpha
			}

			result, err := runAnalysis(env, s, assessment)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
			} else {
				printAnalysis(out, assessment, result)
			}

			if wantReport, _ := cmd.Flags().GetBool("report"); wantReport {
				if err := writeReports(cmd, env, assessment, result); err != nil {
					return err
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	addCommonFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the full result as JSON")
	cmd.Flags().Bool("report", false, "Write a Markdown report to the report directory")
	cmd.Flags().Bool("html", false, "Also write an HTML report (with --report)")
	cmd.Flags().Float64("alpha", 0, "Override the arithmetic/harmonic scoring blend (0-1)")

	return cmd
}

func runAnalysis(env *environment, s *store.Store, assessment models.Assessment) (*models.AnalysisResult, error) {
	responses, err := s.ListResponses(assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	evidence, err := s.ListEvidence(assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence: %w", err)
	}

	analyzer := scoring.NewAnalyzer(env.questions, responses, evidence,
		s, risk.NewEngine(env.catalog), env.log)
	if env.cfg.HybridAlpha > 0 {
		analyzer.SetAlpha(env.cfg.HybridAlpha)
	}

	return analyzer.Compute(assessment.IntakeTags), nil
}

func printAnalysis(out io.Writer, assessment models.Assessment, result *models.AnalysisResult) {
	fmt.Fprintf(out, "Analysis for %s\n\n", assessment.Name)

	if result.InsufficientData {
		fmt.Fprintln(out, "Insufficient data: no scorable responses recorded.")
		return
	}

	fmt.Fprintf(out, "Archetype: %s (%.0f%% coverage)\n", result.Archetype, result.ArchetypeDetails.Confidence*100)
	fmt.Fprintf(out, "Trust index: %.1f   Friction: %.1f\n\n",
		result.Summary.TrustIndex, result.Summary.FrictionScore)

	fmt.Fprintln(out, "Axes:")
	for _, axis := range result.Axes {
		fmt.Fprintf(out, "  %-12s %5.1f\n", axis.Axis, axis.Score)
	}

	if len(result.CapsApplied) > 0 {
		fmt.Fprintln(out, "\nCaps applied:")
		for _, event := range result.CapsApplied {
			fmt.Fprintf(out, "  %s on %s: %s\n", event.Type, event.Axis, event.Reason)
		}
	}

	if len(result.TopRisks) > 0 {
		fmt.Fprintln(out, "\nTop risks:")
		for _, r := range result.TopRisks {
			fmt.Fprintf(out, "  %-6s %3d  %s\n", r.Level, r.RiskScore, r.Name)
		}
	}
}

func writeReports(cmd *cobra.Command, env *environment, assessment models.Assessment, result *models.AnalysisResult) error {
	builder := report.NewBuilder()

	path, err := builder.WriteMarkdown(env.cfg.ReportDir, &assessment, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", path)

	if html, _ := cmd.Flags().GetBool("html"); html {
		path, err = builder.WriteHTML(env.cfg.ReportDir, &assessment, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calder/axial/internal/models"
	"github.com/calder/axial/internal/scoring"
)

// NewKickstartCommand creates the kickstart subcommand
func NewKickstartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kickstart <assessment-id>",
		Short: "Run the cheap tier-1 gatekeeper diagnostic",
		Long: `Score only the tier-1 gatekeeper questions with simple percent-of-maximum
aggregation. This gives an early readiness signal before enough answers
exist for a full analysis.

Use --soft to score every recorded answer instead of only the gatekeepers.`,
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
			responses, err := s.ListResponses(assessment.ID)
			if err != nil {
				return fmt.Errorf("failed to load responses: %w", err)
			}

			var result *models.DiagnosticResult
			label := "Kickstart diagnostic"
			if soft, _ := cmd.Flags().GetBool("soft"); soft {
				result = scoring.SoftVector(env.questions, responses)
				label = "Soft vector"
			} else {
				result = scoring.KickstartDiagnostic(env.questions, responses)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s for %s\n", label, assessment.Name)
			fmt.Fprintf(out, "  Overall: %.1f (answered %d of %d)\n", result.Overall, result.Answered, result.Questions)
			for _, axis := range result.Axes {
				fmt.Fprintf(out, "  %-12s %5.1f\n", axis.Axis, axis.Score)
			}
			return nil
		},
		SilenceUsage: true,
	}

	addCommonFlags(cmd)
	cmd.Flags().Bool("soft", false, "Score all recorded answers, not just tier-1 gatekeepers")

	return cmd
}

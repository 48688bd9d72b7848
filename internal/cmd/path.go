package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calder/axial/internal/traversal"
)

// NewPathCommand creates the path subcommand
func NewPathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path <assessment-id>",
		Short: "Show the reachable question path for an assessment",
		Long: `Walk the question bank from the recorded answers and print every question
currently reachable, in traversal order. Unanswered gatekeepers bound the
lookahead: questions behind them stay hidden until the gate is answered.`,
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
			// Deferred responses do not count as answered: an unresolved
			// gatekeeper must keep blocking lookahead.
			answered := make(map[string]float64, len(responses))
			for _, resp := range responses {
				if resp.Deferred {
					continue
				}
				answered[resp.QuestionID] = resp.Score
			}

			engine := traversal.NewEngine(env.log)
			path := engine.ReachablePath(env.questions, answered)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Assessment %s (%s): %d reachable, %d answered\n\n",
				assessment.ID, assessment.Name, len(path), len(answered))
			for _, id := range path {
				marker := " "
				if _, ok := answered[id]; ok {
					marker = "x"
				}
				fmt.Fprintf(out, "  [%s] %s\n", marker, id)
			}
			return nil
		},
		SilenceUsage: true,
	}

	addCommonFlags(cmd)

	return cmd
}

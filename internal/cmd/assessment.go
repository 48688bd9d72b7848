package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/calder/axial/internal/models"
)

// NewNewCommand creates the new subcommand
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new assessment",
		Long: `Create a new assessment record in the database and print its ID.

Intake tags describe the organization (sector, data sensitivity, scale)
and feed the impact rules of the risk scenario catalog.

Examples:
  axial new "Acme Corp"
  axial new "Acme Corp" --tag finance --tag pii`,
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

			tags, _ := cmd.Flags().GetStringArray("tag")
			assessment, err := s.CreateAssessment(args[0], tags)
			if err != nil {
				return fmt.Errorf("failed to create assessment: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created assessment %s (%s)\n", assessment.ID, assessment.Name)
			return nil
		},
		SilenceUsage: true,
	}

	addCommonFlags(cmd)
	cmd.Flags().StringArray("tag", nil, "Intake tag (repeatable)")

	return cmd
}

// NewAnswerCommand creates the answer subcommand
func NewAnswerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer <assessment-id> <question-id> <score>",
		Short: "Record an answer for an assessment question",
		Long: `Record a 0-4 answer score for one question. Re-answering a question
replaces the previous response.

Examples:
  axial answer 4f7c... GOV-01 3
  axial answer 4f7c... GOV-01 0 --defer       # exclude from scoring
  axial answer 4f7c... OPS-02 4 --confidence 0.8`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[2], 64)
			if err != nil || score < 0 || score > 4 {
				return fmt.Errorf("score must be a number between 0 and 4, got %q", args[2])
			}

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

			questionID := args[1]
			if !hasQuestion(env.questions, questionID) {
				return fmt.Errorf("unknown question %q", questionID)
			}

			resp := models.Response{
				AssessmentID: assessment.ID,
				QuestionID:   questionID,
				Score:        score,
				Origin:       models.OriginAdaptive,
			}
			resp.Deferred, _ = cmd.Flags().GetBool("defer")
			if override, _ := cmd.Flags().GetBool("override"); override {
				resp.Origin = models.OriginOverride
			}
			if cmd.Flags().Changed("confidence") {
				confidence, _ := cmd.Flags().GetFloat64("confidence")
				if confidence < 0 || confidence > 1 {
					return fmt.Errorf("confidence must be between 0 and 1, got %v", confidence)
				}
				resp.EvidenceConfidence = &confidence
			}

			if err := s.SaveResponse(resp); err != nil {
				return fmt.Errorf("failed to save response: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s = %.1f\n", questionID, score)
			return nil
		},
		SilenceUsage: true,
	}

	addCommonFlags(cmd)
	cmd.Flags().Bool("defer", false, "Record the answer but exclude it from scoring")
	cmd.Flags().Bool("override", false, "Mark the answer as recorded outside the adaptive path")
	cmd.Flags().Float64("confidence", 0, "Evidence confidence for the answer (0-1)")

	return cmd
}

func hasQuestion(questions []models.Question, id string) bool {
	for i := range questions {
		if questions[i].ID == id {
			return true
		}
	}
	return false
}

package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for axial
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "axial",
		Short: "Adaptive maturity assessment and risk scoring engine",
		Long: `Axial runs adaptive organizational maturity assessments.

It walks a branching question bank, scores answers onto nine maturity
axes with evidence-weighted hybrid means, classifies the organization
into a posture archetype, and evaluates a catalog of risk scenarios
against the resulting profile.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewNewCommand())
	cmd.AddCommand(NewAnswerCommand())
	cmd.AddCommand(NewPathCommand())
	cmd.AddCommand(NewKickstartCommand())
	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}

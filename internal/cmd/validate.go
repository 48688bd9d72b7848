package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the question bank and scenario catalog",
		Long: `Parse and validate the configured question bank and scenario catalog,
checking for:
  - Malformed YAML, duplicate or empty question IDs, unknown axes
  - Gatekeepers without branch targets and dangling branch edges
  - Scenario axis weights that do not sum to 1.0
  - Impact rules without exactly one default

Structural problems are errors; data-quality findings are reported as
warnings. Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bankFlag, _ := cmd.Flags().GetString("bank")
			catalogFlag, _ := cmd.Flags().GetString("catalog")
			return validateInputs(cmd.OutOrStdout(), bankFlag, catalogFlag)
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("bank", "", "Path to question bank YAML (default: embedded starter bank)")
	cmd.Flags().String("catalog", "", "Path to risk scenario catalog YAML (default: embedded catalog)")

	return cmd
}

func validateInputs(output io.Writer, bankPath, catalogPath string) error {
	questions, warnings, err := loadBank(bankPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Question bank: %d questions\n", len(questions))
	for _, w := range warnings {
		fmt.Fprintf(output, "  warning: %s\n", w)
	}

	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Scenario catalog: %d scenarios\n", len(cat.Scenarios))

	fmt.Fprintln(output, "Validation passed")
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/calder/axial/internal/bank"
	"github.com/calder/axial/internal/config"
	"github.com/calder/axial/internal/filelock"
)

// NewInitCommand creates the init subcommand
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a workspace with a config file and starter question bank",
		Long: `Create the .axial workspace layout in the target directory (default: current
directory):

  .axial/config.yaml   configuration with default values
  .axial/bank.yaml     copy of the embedded starter question bank

Existing files are left untouched unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			return initWorkspace(cmd, dir, force)
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite existing config and bank files")

	return cmd
}

func initWorkspace(cmd *cobra.Command, dir string, force bool) error {
	workspaceDir := filepath.Join(dir, ".axial")
	if err := os.MkdirAll(workspaceDir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.BankPath = filepath.Join(workspaceDir, "bank.yaml")
	cfgData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}

	written, err := writeIfAbsent(filepath.Join(workspaceDir, "config.yaml"), cfgData, force)
	if err != nil {
		return err
	}
	reportFile(cmd, filepath.Join(workspaceDir, "config.yaml"), written)

	written, err = writeIfAbsent(cfg.BankPath, bank.StarterYAML(), force)
	if err != nil {
		return err
	}
	reportFile(cmd, cfg.BankPath, written)

	return nil
}

func writeIfAbsent(path string, data []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := filelock.AtomicWrite(path, data); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

func reportFile(cmd *cobra.Command, path string, written bool) {
	if written {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s (already exists)\n", path)
	}
}

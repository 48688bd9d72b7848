package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder/axial/internal/bank"
	"github.com/calder/axial/internal/catalog"
	"github.com/calder/axial/internal/config"
	"github.com/calder/axial/internal/logger"
	"github.com/calder/axial/internal/models"
	"github.com/calder/axial/internal/store"
)

// environment bundles the loaded runtime dependencies shared by subcommands.
type environment struct {
	cfg       *config.Config
	log       logger.Logger
	questions []models.Question
	catalog   *catalog.Catalog
}

// addCommonFlags registers the flags every data-touching subcommand accepts.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .axial/config.yaml)")
	cmd.Flags().String("bank", "", "Path to question bank YAML (default: embedded starter bank)")
	cmd.Flags().String("catalog", "", "Path to risk scenario catalog YAML (default: embedded catalog)")
	cmd.Flags().String("db", "", "Path to assessment database")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadEnvironment resolves config file, flags, bank and catalog for a command.
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	bankFlag, _ := cmd.Flags().GetString("bank")
	catalogFlag, _ := cmd.Flags().GetString("catalog")
	dbFlag, _ := cmd.Flags().GetString("db")
	levelFlag, _ := cmd.Flags().GetString("log-level")
	cfg.MergeWithFlags(bankFlag, catalogFlag, dbFlag, levelFlag)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	questions, warnings, err := loadBank(cfg.BankPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warnf("question bank: %s", w)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	return &environment{cfg: cfg, log: log, questions: questions, catalog: cat}, nil
}

func loadBank(path string) ([]models.Question, []string, error) {
	if path == "" {
		return bank.Starter()
	}
	questions, warnings, err := bank.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load question bank %s: %w", path, err)
	}
	return questions, warnings, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario catalog %s: %w", path, err)
	}
	return cat, nil
}

// openStore opens the assessment database configured for the environment.
func (e *environment) openStore() (*store.Store, error) {
	s, err := store.NewStore(e.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", e.cfg.DBPath, err)
	}
	return s, nil
}

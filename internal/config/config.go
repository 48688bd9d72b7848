package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents axial configuration options.
type Config struct {
	// BankPath is the question bank file; empty means the embedded starter
	// bank.
	BankPath string `yaml:"bank_path"`

	// CatalogPath is the risk scenario catalog file; empty means the
	// embedded default catalog.
	CatalogPath string `yaml:"catalog_path"`

	// DBPath is the SQLite assessment database.
	DBPath string `yaml:"db_path"`

	// LogLevel sets logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// ListenAddr is the HTTP listen address for `axial serve`.
	ListenAddr string `yaml:"listen_addr"`

	// ReportDir is where rendered reports are written.
	ReportDir string `yaml:"report_dir"`

	// HybridAlpha overrides the arithmetic/harmonic blend of the scoring
	// engine. Zero means "use the engine default" (0.75).
	HybridAlpha float64 `yaml:"hybrid_alpha"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		BankPath:    "",
		CatalogPath: "",
		DBPath:      ".axial/assessments.db",
		LogLevel:    "info",
		ListenAddr:  "127.0.0.1:8475",
		ReportDir:   ".axial/reports",
		HybridAlpha: 0,
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file returns the defaults without error; a malformed file is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Non-zero values from the file override defaults.
	if fileCfg.BankPath != "" {
		cfg.BankPath = fileCfg.BankPath
	}
	if fileCfg.CatalogPath != "" {
		cfg.CatalogPath = fileCfg.CatalogPath
	}
	if fileCfg.DBPath != "" {
		cfg.DBPath = fileCfg.DBPath
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.ListenAddr != "" {
		cfg.ListenAddr = fileCfg.ListenAddr
	}
	if fileCfg.ReportDir != "" {
		cfg.ReportDir = fileCfg.ReportDir
	}
	if fileCfg.HybridAlpha != 0 {
		cfg.HybridAlpha = fileCfg.HybridAlpha
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .axial/config.yaml in the
// specified directory, falling back to defaults when absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".axial", "config.yaml"))
}

// MergeWithFlags merges CLI flag values into the configuration. Non-empty
// flag values take precedence over file settings.
func (c *Config) MergeWithFlags(bankPath, catalogPath, dbPath, logLevel string) {
	if bankPath != "" {
		c.BankPath = bankPath
	}
	if catalogPath != "" {
		c.CatalogPath = catalogPath
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}

	if c.HybridAlpha < 0 || c.HybridAlpha > 1 {
		return fmt.Errorf("hybrid_alpha must be within [0, 1], got %v", c.HybridAlpha)
	}

	return nil
}

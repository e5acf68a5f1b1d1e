package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDSN              = "sqlite://./CollectedResults.db"
	DefaultSubfolderPattern = `event-(\d*)`
	DefaultMaxIterations    = 64
	DefaultMergeBatchSize   = 500
)

type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Database   DatabaseConfig   `yaml:"database"`
	Collect    CollectConfig    `yaml:"collect"`
	Merge      MergeConfig      `yaml:"merge"`
	Expression ExpressionConfig `yaml:"expression"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type CollectConfig struct {
	Root               string  `yaml:"root"`
	Mode               string  `yaml:"mode"`
	SubfolderPattern   string  `yaml:"subfolder_pattern"`
	MultiplicityFactor float64 `yaml:"multiplicity_factor"`
}

type MergeConfig struct {
	BatchSize     int  `yaml:"batch_size"`
	VerifyLookups bool `yaml:"verify_lookups"`
}

type ExpressionConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg.applyDefaults()

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no project file is present.
func Default() *ProjectConfig {
	cfg := &ProjectConfig{Version: 1, Database: DatabaseConfig{DSN: DefaultDSN}}
	cfg.applyDefaults()
	return cfg
}

func (cfg *ProjectConfig) applyDefaults() {
	if strings.TrimSpace(cfg.Collect.Mode) == "" {
		cfg.Collect.Mode = "fromUrQMD"
	}
	if cfg.Collect.SubfolderPattern == "" {
		cfg.Collect.SubfolderPattern = DefaultSubfolderPattern
	}
	if cfg.Collect.MultiplicityFactor == 0 {
		cfg.Collect.MultiplicityFactor = 1.0
	}
	if cfg.Merge.BatchSize == 0 {
		cfg.Merge.BatchSize = DefaultMergeBatchSize
	}
	if cfg.Expression.MaxIterations == 0 {
		cfg.Expression.MaxIterations = DefaultMaxIterations
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if _, err := regexp.Compile(cfg.Collect.SubfolderPattern); err != nil {
		return fmt.Errorf("invalid subfolder pattern %q: %w", cfg.Collect.SubfolderPattern, err)
	}
	if cfg.Collect.MultiplicityFactor < 0 {
		return fmt.Errorf("multiplicity factor must be positive, got %g", cfg.Collect.MultiplicityFactor)
	}
	if cfg.Merge.BatchSize < 0 {
		return fmt.Errorf("merge batch size must be positive, got %d", cfg.Merge.BatchSize)
	}
	if cfg.Expression.MaxIterations < 0 {
		return fmt.Errorf("expression max iterations must be positive, got %d", cfg.Expression.MaxIterations)
	}
	return nil
}

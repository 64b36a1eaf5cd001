package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/atinylittleshell/devkit/internal/core"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the configuration file.
const (
	EnvHistoryFile   = "DEVKIT_HISTORY_FILE"
	EnvHistoryDB     = "DEVKIT_HISTORY_DB"
	EnvHistoryOutput = "DEVKIT_HISTORY_OUTPUT"
	EnvRepository    = "DEVKIT_REPO"
	EnvCommitOutput  = "DEVKIT_COMMIT_OUTPUT"
	EnvLogLevel      = "DEVKIT_LOG_LEVEL"
)

// Loader handles loading of configuration files.
type Loader struct {
	logger *zap.Logger

	// EnvFile is an optional dotenv file whose values are treated as
	// environment overrides. Process environment variables win over it.
	EnvFile string

	// Getenv looks up process environment variables.
	Getenv func(string) string
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger:  logger,
		EnvFile: core.EnvFile(),
		Getenv:  os.Getenv,
	}
}

// LoadFromFile loads configuration from a YAML file.
// If the file doesn't exist, the default configuration is used.
// Environment overrides are applied and paths expanded in both cases.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		l.logger.Debug("config file not found, using defaults", zap.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.expandPaths()

	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	dotenv := map[string]string{}
	if l.EnvFile != "" {
		values, err := godotenv.Read(l.EnvFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return fmt.Errorf("failed to read env file %s: %w", l.EnvFile, err)
		default:
			dotenv = values
		}
	}

	lookup := func(name string) (string, bool) {
		if l.Getenv != nil {
			if v := l.Getenv(name); v != "" {
				return v, true
			}
		}
		v, ok := dotenv[name]
		return v, ok && v != ""
	}

	overrides := []struct {
		name   string
		target *string
	}{
		{EnvHistoryFile, &cfg.History.File},
		{EnvHistoryDB, &cfg.History.Database},
		{EnvHistoryOutput, &cfg.History.Output},
		{EnvRepository, &cfg.Commits.Repository},
		{EnvCommitOutput, &cfg.Commits.Output},
		{EnvLogLevel, &cfg.LogLevel},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.name); ok {
			l.logger.Debug("config override from environment", zap.String("name", o.name))
			*o.target = v
		}
	}
	return nil
}

func (c *Config) expandPaths() {
	c.History.File = core.ExpandHome(c.History.File)
	c.History.Database = core.ExpandHome(c.History.Database)
	c.History.Output = core.ExpandHome(c.History.Output)
	c.Commits.Repository = core.ExpandHome(c.Commits.Repository)
	c.Commits.Output = core.ExpandHome(c.Commits.Output)
}

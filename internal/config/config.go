// Package config provides configuration management for the devkit tools.
// It handles loading of the YAML configuration file, applying environment
// overrides (including an optional .env file), and expanding home-relative
// paths.
package config

// Config holds the settings shared by the devkit binaries.
type Config struct {
	// LogLevel controls logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `yaml:"logLevel"`

	History HistoryConfig `yaml:"history"`
	Commits CommitsConfig `yaml:"commits"`
}

// HistoryConfig configures the shell history summarizer.
type HistoryConfig struct {
	// File is the line-oriented shell history to read.
	File string `yaml:"file"`

	// Database, when set, points at a gsh history database which is read
	// instead of File.
	Database string `yaml:"database"`

	// Output is the Markdown file that is overwritten on every run.
	Output string `yaml:"output"`

	// UpdateHint is the command shown at the top of the report telling the
	// reader how to regenerate it.
	UpdateHint string `yaml:"updateHint"`
}

// CommitsConfig configures the commit summarizer.
type CommitsConfig struct {
	// Repository is the repository whose worktrees are scanned.
	Repository string `yaml:"repository"`

	// Output is the file that report blocks are appended to.
	Output string `yaml:"output"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		History: HistoryConfig{
			File:       "~/.bash_history",
			Output:     "~/Documents/Command History.md",
			UpdateHint: "histsum",
		},
		Commits: CommitsConfig{
			Repository: "~/driving",
			Output:     "~/commit_summaries.txt",
		},
	}
}

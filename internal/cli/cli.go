// Package cli holds the bootstrapping shared by the devkit binaries: the
// persistent flags, configuration loading and logger construction.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/devkit/internal/config"
	"github.com/atinylittleshell/devkit/internal/core"
	"github.com/atinylittleshell/devkit/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

// Env is the runtime state every command receives after bootstrap.
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

// GlobalFlags are registered on every root command.
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
}

// Register adds the persistent --config and --verbose flags to cmd and sets
// its version string.
func (f *GlobalFlags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.ConfigFile, "config", core.ConfigFile(), "path to the devkit config file")
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.Version = BUILD_VERSION
}

// Bootstrap loads configuration and builds the logger.
func (f *GlobalFlags) Bootstrap() (*Env, error) {
	cfg, err := config.NewLoader(nil).LoadFromFile(f.ConfigFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, f.Verbose, core.LogFile())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("-------- new devkit run --------", zap.Any("args", os.Args))

	return &Env{Config: cfg, Logger: logger}, nil
}

// Close flushes any buffered log entries.
func (e *Env) Close() {
	if e != nil && e.Logger != nil {
		_ = e.Logger.Sync()
	}
}

// UsageError is a command-line mistake detected before any work starts.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Usagef returns a formatted *UsageError.
func Usagef(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// NoArgs rejects positional arguments with a usage error.
func NoArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

// Execute runs cmd and returns the process exit code. Usage errors print the
// usage text and exit 2; any other failure is reported on stderr as
// "An error occurred: <err>" and exits 1.
func Execute(cmd *cobra.Command, stderr io.Writer) int {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %v\n%s", usageErr.Err, cmd.UsageString())
		return 2
	}

	fmt.Fprintf(stderr, "An error occurred: %v\n", err)
	return 1
}

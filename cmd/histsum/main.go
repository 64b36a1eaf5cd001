package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/devkit/internal/cli"
	"github.com/atinylittleshell/devkit/internal/config"
	"github.com/atinylittleshell/devkit/internal/history"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	os.Exit(cli.Execute(newRootCmd(os.Stdout), os.Stderr))
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var flags cli.GlobalFlags

	cmd := &cobra.Command{
		Use:   "histsum",
		Short: "Summarizes shell history into a Markdown file grouped by command type.",
		Long: `histsum reads your shell history, drops trivial commands, groups the rest
into git, bazel, grep, sim and other sections ordered by how often they were
run, and overwrites the configured Markdown report.

Paths come from the devkit config file (history.file, history.database,
history.output) or the DEVKIT_HISTORY_* environment variables.`,
		Args: cli.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.Bootstrap()
			if err != nil {
				return err
			}
			defer env.Close()

			return run(env.Config.History, stdout, env.Logger)
		},
	}
	flags.Register(cmd)

	return cmd
}

func openSource(cfg config.HistoryConfig) (history.Source, func(), error) {
	if cfg.Database == "" {
		return &history.FileSource{Path: cfg.File}, func() {}, nil
	}

	src, err := history.OpenDBSource(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return src, func() { _ = src.Close() }, nil
}

func run(cfg config.HistoryConfig, stdout io.Writer, logger *zap.Logger) error {
	src, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	lines, err := src.Commands()
	if err != nil {
		return err
	}
	logger.Debug("read shell history", zap.String("source", src.Name()), zap.Int("lines", len(lines)))

	summary := history.Summarize(lines)
	if err := history.WriteReport(cfg.Output, summary, cfg.UpdateHint); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Summarized %s commands (%s distinct, %s ignored) from %s into %s\n",
		humanize.Comma(int64(summary.Total())),
		humanize.Comma(int64(summary.Distinct())),
		humanize.Comma(int64(summary.Ignored)),
		src.Name(),
		cfg.Output,
	)
	return nil
}

package main

import (
	"io"
	"os"
	"time"

	"github.com/atinylittleshell/devkit/internal/bash"
	"github.com/atinylittleshell/devkit/internal/cli"
	"github.com/atinylittleshell/devkit/internal/commits"
	"github.com/atinylittleshell/devkit/internal/core"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(cli.Execute(newRootCmd(os.Stdout, bash.NewShellRunner(), time.Now), os.Stderr))
}

func newRootCmd(stdout io.Writer, runner bash.Runner, now func() time.Time) *cobra.Command {
	var (
		flags  cli.GlobalFlags
		output string
		repo   string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "commitsum",
		Short: "Summarize new git commits (excluding rebases) across worktrees",
		Args:  cli.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := now()

			env, err := flags.Bootstrap()
			if err != nil {
				return err
			}
			defer env.Close()

			opts := commits.Options{
				Repository: env.Config.Commits.Repository,
				Output:     env.Config.Commits.Output,
				Debug:      debug,
				Now:        start,
			}
			if cmd.Flags().Changed("output") {
				opts.Output = core.ExpandHome(output)
			}
			if cmd.Flags().Changed("repo") {
				opts.Repository = core.ExpandHome(repo)
			}

			git := commits.NewGit(runner, env.Logger)
			_, err = commits.Run(cmd.Context(), git, opts, stdout, env.Logger)
			return err
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVar(&output, "output", "~/commit_summaries.txt", "Output file path")
	cmd.Flags().StringVar(&repo, "repo", "~/driving", "Repository whose worktrees are scanned")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show debug information")

	return cmd
}

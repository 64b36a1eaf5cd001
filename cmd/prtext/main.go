package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/devkit/internal/cli"
	"github.com/atinylittleshell/devkit/internal/prtext"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	os.Exit(cli.Execute(newRootCmd(os.Stdout, prtext.SystemClipboard{}), os.Stderr))
}

func newRootCmd(stdout io.Writer, clip prtext.Clipboard) *cobra.Command {
	var (
		flags        cli.GlobalFlags
		link         string
		observations []string
		copyText     bool
	)

	cmd := &cobra.Command{
		Use:   "prtext -l LINK -o OBSERVATION [OBSERVATION...]",
		Short: "Formats a link and observations for a PR description.",
		Example: `  prtext -l https://argus/run/123 -o "lane change is smooth" "no hard braking"
  prtext -l https://argus/run/123 -o "first" -o "second" --copy`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("link") {
				return cli.Usagef(`required flag "link" not set`)
			}
			if !cmd.Flags().Changed("observations") {
				return cli.Usagef(`required flag "observations" not set`)
			}
			// -o a b c: values after the flag arrive as positional arguments.
			observations = append(observations, args...)

			env, err := flags.Bootstrap()
			if err != nil {
				return err
			}
			defer env.Close()

			text := prtext.Format(link, observations)
			fmt.Fprintln(stdout, text)

			if copyText {
				if err := clip.WriteAll(text); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				env.Logger.Debug("copied PR text to clipboard", zap.Int("bytes", len(text)))
			}
			return nil
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&link, "link", "l", "", "The URL to the internal visualization tool.")
	cmd.Flags().StringArrayVarP(&observations, "observations", "o", nil,
		"A list of observations from the visualization. Each observation should be a separate string.")
	cmd.Flags().BoolVarP(&copyText, "copy", "c", false, "Also copy the formatted text to the clipboard.")

	return cmd
}

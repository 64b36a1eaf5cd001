package commits

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atinylittleshell/devkit/internal/styles"
	"go.uber.org/zap"
)

// Options configures a commit summary run.
type Options struct {
	// Repository is the repository whose worktrees are scanned.
	Repository string

	// Output is the summary file report blocks are appended to.
	Output string

	// Debug prints manual debugging hints when nothing was found.
	Debug bool

	// Now is the process start time; "today" is derived from it.
	Now time.Time
}

const debugReflogCommand = `git reflog --pretty=format:"%h | %aI" --grep-reflog="commit:" --author="$(git config user.name)" --since="midnight"`

// Run summarizes today's commits, prints the report to stdout and appends it
// to opts.Output when at least one commit was found.
func Run(ctx context.Context, git *Git, opts Options, stdout io.Writer, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := styles.New(stdout)

	summarizer := NewSummarizer(git, logger, opts.Now)
	today := summarizer.Since.Format(DateLayout)

	fmt.Fprintf(stdout, "\n%s\n", st.HEADER(fmt.Sprintf("Your new commits for %s:", today)))
	fmt.Fprintln(stdout, "(Showing only newly created commits, excluding rebased ones)")
	fmt.Fprintln(stdout)

	report := summarizer.Summarize(ctx, opts.Repository)
	if report.Worktrees == 0 {
		fmt.Fprintln(stdout, st.ERROR("No worktrees found!"))
		return report, nil
	}

	report.WriteSections(stdout, st)

	if report.Found() {
		if err := AppendReport(opts.Output, report); err != nil {
			return report, err
		}
		logger.Debug("appended commit summary",
			zap.String("path", opts.Output),
			zap.Int("sections", len(report.Sections)),
		)
		fmt.Fprintf(stdout, "\nCommit summaries have been appended to: %s\n", opts.Output)
		return report, nil
	}

	fmt.Fprintln(stdout, "\nNo new commits found for today in any worktree.")
	if opts.Debug {
		fmt.Fprintln(stdout, "\nTry running this command manually to debug:")
		fmt.Fprintf(stdout, "cd %s\n", opts.Repository)
		fmt.Fprintln(stdout, debugReflogCommand)
	}

	return report, nil
}

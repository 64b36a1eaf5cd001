package commits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinylittleshell/devkit/internal/bash"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// gitDateLayout is git's own ISO-like date format, which every git version
// parses without falling back to approxidate.
const gitDateLayout = "2006-01-02 15:04:05 -0700"

// UnknownBranch is reported when a worktree's branch cannot be resolved.
const UnknownBranch = "unknown_branch"

// Git issues the git queries needed by the summarizer. Every query runs
// through a shell. A failing query is logged and reported as an empty result.
type Git struct {
	runner bash.Runner
	logger *zap.Logger

	// UserDir is where the user identity is looked up. Empty means the
	// process working directory.
	UserDir string
}

// NewGit creates a new Git. The logger is optional (can be nil).
func NewGit(runner bash.Runner, logger *zap.Logger) *Git {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Git{
		runner: runner,
		logger: logger,
	}
}

// run returns the trimmed stdout of command, or "" if it failed.
func (g *Git) run(ctx context.Context, dir, command string) string {
	out, err := g.runner.Run(ctx, dir, command)
	if err != nil {
		g.logger.Warn("error running command",
			zap.String("command", command),
			zap.String("dir", dir),
			zap.Error(err),
		)
		return ""
	}
	return strings.TrimSpace(out)
}

// WorktreePaths lists the worktrees of the repository at repo.
func (g *Git) WorktreePaths(ctx context.Context, repo string) []string {
	out := g.run(ctx, repo, "git worktree list")
	if out == "" {
		return nil
	}

	return lo.FilterMap(strings.Split(out, "\n"), func(line string, _ int) (string, bool) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return "", false
		}
		return fields[0], true
	})
}

// BranchName returns the abbreviated HEAD reference of the worktree at path.
func (g *Git) BranchName(ctx context.Context, path string) string {
	if branch := g.run(ctx, path, "git rev-parse --abbrev-ref HEAD"); branch != "" {
		return branch
	}
	return UnknownBranch
}

// UserName returns the configured git user name.
func (g *Git) UserName(ctx context.Context) string {
	return g.run(ctx, g.UserDir, "git config user.name")
}

// ReflogSince returns "hash|author-date" lines for commits created by author
// in the worktree at path since the given time. Rebased commits are excluded
// because only reflog entries recorded by "git commit" are considered.
func (g *Git) ReflogSince(ctx context.Context, path, author string, since time.Time) []string {
	cmd := fmt.Sprintf(`git reflog --pretty=format:"%%h|%%aI" --grep-reflog="commit:" --author=%s --since=%s`,
		bash.Quote(author),
		bash.Quote(since.Format(gitDateLayout)),
	)
	out := g.run(ctx, path, cmd)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// FullMessage returns the complete commit message of hash.
func (g *Git) FullMessage(ctx context.Context, path, hash string) string {
	return g.run(ctx, path, fmt.Sprintf(`git log -1 --pretty=format:"%%B" %s`, bash.Quote(hash)))
}

// Package commits summarizes the commits the current user created today
// across every worktree of a repository.
package commits

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Entry is one commit created today.
type Entry struct {
	DisplayTime string
	Hash        string
	Message     string
	Timestamp   time.Time
}

// Worktree is a checked-out working directory of the repository.
type Worktree struct {
	Path   string
	Name   string
	Branch string
}

// Section groups the entries found in one worktree.
type Section struct {
	Worktree Worktree
	Entries  []Entry
}

// Report is the result of one run.
type Report struct {
	Date      time.Time
	Worktrees int
	Sections  []Section
}

// Found reports whether any worktree produced at least one entry.
func (r *Report) Found() bool {
	return len(r.Sections) > 0
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summarizer collects today's commits from each worktree.
type Summarizer struct {
	git    *Git
	logger *zap.Logger

	// Since is the lower bound for commit creation, fixed at construction.
	Since time.Time
}

// NewSummarizer creates a Summarizer that looks for commits created since
// local midnight of now.
func NewSummarizer(git *Git, logger *zap.Logger, now time.Time) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		git:    git,
		logger: logger,
		Since:  Midnight(now),
	}
}

type reflogRecord struct {
	hash      string
	timestamp time.Time
}

// parseReflogLine parses a "hash|iso8601" line.
func parseReflogLine(line string) (reflogRecord, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 2 {
		return reflogRecord{}, fmt.Errorf("expected 2 fields, got %d", len(parts))
	}

	hash := strings.TrimSpace(parts[0])
	if hash == "" {
		return reflogRecord{}, fmt.Errorf("missing commit hash")
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
	if err != nil {
		return reflogRecord{}, fmt.Errorf("invalid author date: %w", err)
	}

	return reflogRecord{hash: hash, timestamp: ts}, nil
}

// Collect returns the commits created today in the worktree at path, most
// recent first. Each hash appears once; the first reflog occurrence wins.
func (s *Summarizer) Collect(ctx context.Context, path string) []Entry {
	user := s.git.UserName(ctx)
	if user == "" {
		return nil
	}

	var records []reflogRecord
	for _, line := range s.git.ReflogSince(ctx, path, user, s.Since) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, err := parseReflogLine(line)
		if err != nil {
			s.logger.Warn("error parsing commit",
				zap.String("line", line),
				zap.String("worktree", path),
				zap.Error(err),
			)
			continue
		}
		records = append(records, record)
	}

	records = lo.UniqBy(records, func(r reflogRecord) string {
		return r.hash
	})

	entries := lo.Map(records, func(r reflogRecord, _ int) Entry {
		return Entry{
			DisplayTime: r.timestamp.Local().Format("15:04:05"),
			Hash:        r.hash,
			Message:     s.git.FullMessage(ctx, path, r.hash),
			Timestamp:   r.timestamp,
		}
	})

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return entries
}

// Summarize discovers the worktrees of repo and collects each one in
// discovery order. Worktrees without entries are left out of the report.
func (s *Summarizer) Summarize(ctx context.Context, repo string) *Report {
	report := &Report{Date: s.Since}

	paths := s.git.WorktreePaths(ctx, repo)
	report.Worktrees = len(paths)

	for _, path := range paths {
		entries := s.Collect(ctx, path)
		if len(entries) == 0 {
			s.logger.Debug("no commits today", zap.String("worktree", path))
			continue
		}

		report.Sections = append(report.Sections, Section{
			Worktree: Worktree{
				Path:   path,
				Name:   filepath.Base(path),
				Branch: s.git.BranchName(ctx, path),
			},
			Entries: entries,
		})
	}

	return report
}

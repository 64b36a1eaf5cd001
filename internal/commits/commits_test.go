package commits

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atinylittleshell/devkit/internal/bash"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCall struct {
	dir     string
	command string
}

// fakeRunner answers git queries from in-memory fixtures keyed by worktree.
type fakeRunner struct {
	worktrees string
	user      string
	reflog    map[string]string
	branches  map[string]string
	messages  map[string]string
	failing   map[string]bool

	calls []fakeCall
}

func (f *fakeRunner) Run(_ context.Context, dir, command string) (string, error) {
	f.calls = append(f.calls, fakeCall{dir: dir, command: command})

	fail := func() (string, error) {
		return "", &bash.ExitError{Command: command, Code: 128, Stderr: "fatal: not a git repository"}
	}
	if f.failing[dir] {
		return fail()
	}

	switch {
	case command == "git worktree list":
		return f.worktrees, nil
	case command == "git config user.name":
		return f.user + "\n", nil
	case command == "git rev-parse --abbrev-ref HEAD":
		branch, ok := f.branches[dir]
		if !ok {
			return fail()
		}
		return branch + "\n", nil
	case strings.HasPrefix(command, "git reflog"):
		return f.reflog[dir], nil
	case strings.HasPrefix(command, "git log -1"):
		fields := strings.Fields(command)
		return f.messages[fields[len(fields)-1]], nil
	}
	return fail()
}

func (f *fakeRunner) count(prefix string) int {
	return lo.CountBy(f.calls, func(c fakeCall) bool {
		return strings.HasPrefix(c.command, prefix)
	})
}

var testNow = time.Date(2026, 10, 19, 17, 30, 0, 0, time.Local)

func localClock(t *testing.T, ts string) string {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	return parsed.Local().Format("15:04:05")
}

func TestParseReflogLine(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rec, err := parseReflogLine("abc1234|2026-10-19T09:15:02-07:00")
		require.NoError(t, err)
		assert.Equal(t, "abc1234", rec.hash)
		assert.Equal(t, 2026, rec.timestamp.Year())
		_, offset := rec.timestamp.Zone()
		assert.Equal(t, -7*3600, offset)
	})

	tests := []struct {
		name string
		line string
	}{
		{"missing separator", "abc1234 2026-10-19T09:15:02Z"},
		{"too many fields", "abc|2026-10-19T09:15:02Z|extra"},
		{"bad date", "abc1234|yesterday"},
		{"empty hash", "|2026-10-19T09:15:02Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseReflogLine(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("test", -7*3600)
	got := Midnight(time.Date(2026, 10, 19, 23, 59, 59, 0, loc))
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, loc), got)
}

func TestGit(t *testing.T) {
	ctx := context.Background()

	t.Run("worktree paths take the first token of each line", func(t *testing.T) {
		f := &fakeRunner{worktrees: "/repo        abc123 [main]\n\n/wt/feat def456 [feat]\n"}
		g := NewGit(f, nil)
		assert.Equal(t, []string{"/repo", "/wt/feat"}, g.WorktreePaths(ctx, "/repo"))
	})

	t.Run("failing worktree query yields no worktrees", func(t *testing.T) {
		f := &fakeRunner{failing: map[string]bool{"/repo": true}}
		g := NewGit(f, nil)
		assert.Empty(t, g.WorktreePaths(ctx, "/repo"))
	})

	t.Run("unknown branch on failure", func(t *testing.T) {
		f := &fakeRunner{branches: map[string]string{"/repo": "main"}}
		g := NewGit(f, nil)
		assert.Equal(t, "main", g.BranchName(ctx, "/repo"))
		assert.Equal(t, UnknownBranch, g.BranchName(ctx, "/elsewhere"))
	})

	t.Run("reflog query quotes its arguments", func(t *testing.T) {
		f := &fakeRunner{}
		g := NewGit(f, nil)
		since := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
		g.ReflogSince(ctx, "/repo", "Conan O'Brien", since)

		require.Len(t, f.calls, 1)
		cmd := f.calls[0].command
		assert.Contains(t, cmd, `--pretty=format:"%h|%aI"`)
		assert.Contains(t, cmd, `--grep-reflog="commit:"`)
		assert.Contains(t, cmd, "--author="+bash.Quote("Conan O'Brien"))
		assert.Contains(t, cmd, "--since='2026-10-19 00:00:00 +0000'")
	})

	t.Run("failures are logged with the command", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		f := &fakeRunner{failing: map[string]bool{"/repo": true}}
		g := NewGit(f, zap.New(core))

		assert.Empty(t, g.FullMessage(ctx, "/repo", "abc"))
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "error running command", entry.Message)
		assert.Contains(t, entry.ContextMap()["command"], "git log -1")
		assert.Contains(t, entry.ContextMap()["error"], "not a git repository")
	})
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("dedupes by hash and sorts newest first", func(t *testing.T) {
		f := &fakeRunner{
			user: "Jane Doe",
			reflog: map[string]string{
				"/repo": strings.Join([]string{
					"aaa1111|2026-10-19T09:00:00-07:00",
					"ccc3333|2026-10-19T16:45:10-07:00",
					"aaa1111|2026-10-19T09:00:00-07:00",
					"bbb2222|2026-10-19T12:30:00-07:00",
				}, "\n"),
			},
			messages: map[string]string{
				"aaa1111": "First commit\n\nWith body",
				"bbb2222": "Second",
				"ccc3333": "Third",
			},
		}
		s := NewSummarizer(NewGit(f, nil), nil, testNow)

		entries := s.Collect(ctx, "/repo")
		require.Len(t, entries, 3)
		assert.Equal(t, []string{"ccc3333", "bbb2222", "aaa1111"},
			lo.Map(entries, func(e Entry, _ int) string { return e.Hash }))
		for i := 1; i < len(entries); i++ {
			assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
		}
		assert.Equal(t, "First commit\n\nWith body", entries[2].Message)
		assert.Equal(t, localClock(t, "2026-10-19T16:45:10-07:00"), entries[0].DisplayTime)

		// one message lookup per distinct hash
		assert.Equal(t, 3, f.count("git log -1"))
	})

	t.Run("malformed lines are skipped", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		f := &fakeRunner{
			user: "Jane Doe",
			reflog: map[string]string{
				"/repo": "garbage\n\nabc|not-a-date\nddd4444|2026-10-19T10:00:00Z",
			},
			messages: map[string]string{"ddd4444": "Fix it"},
		}
		s := NewSummarizer(NewGit(f, nil), zap.New(core), testNow)

		entries := s.Collect(ctx, "/repo")
		require.Len(t, entries, 1)
		assert.Equal(t, "ddd4444", entries[0].Hash)
		assert.Equal(t, 2, logs.FilterMessage("error parsing commit").Len())
	})

	t.Run("no user means no commits", func(t *testing.T) {
		f := &fakeRunner{reflog: map[string]string{"/repo": "aaa|2026-10-19T10:00:00Z"}}
		s := NewSummarizer(NewGit(f, nil), nil, testNow)

		assert.Empty(t, s.Collect(ctx, "/repo"))
		assert.Zero(t, f.count("git reflog"))
	})

	t.Run("empty reflog", func(t *testing.T) {
		f := &fakeRunner{user: "Jane Doe"}
		s := NewSummarizer(NewGit(f, nil), nil, testNow)
		assert.Empty(t, s.Collect(ctx, "/repo"))
	})

	t.Run("since is local midnight of now", func(t *testing.T) {
		s := NewSummarizer(NewGit(&fakeRunner{}, nil), nil, testNow)
		assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local), s.Since)
	})
}

func twoWorktreeRunner() *fakeRunner {
	return &fakeRunner{
		worktrees: "/src/driving  1111111 [main]\n/src/wt/feature  2222222 [feature]",
		user:      "Jane Doe",
		branches: map[string]string{
			"/src/driving":    "main",
			"/src/wt/feature": "feature",
		},
		reflog: map[string]string{
			"/src/wt/feature": "f00d001|2026-10-19T08:00:00Z\nf00d002|2026-10-19T11:00:00Z\nf00d001|2026-10-19T08:00:00Z",
		},
		messages: map[string]string{
			"f00d001": "Add planner flag\n",
			"f00d002": "  Tune thresholds  ",
		},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("only worktrees with commits are reported and appended", func(t *testing.T) {
		f := twoWorktreeRunner()
		output := filepath.Join(t.TempDir(), "commit_summaries.txt")
		require.NoError(t, os.WriteFile(output, []byte("previous runs\n"), 0644))

		var stdout bytes.Buffer
		report, err := Run(ctx, NewGit(f, nil), Options{
			Repository: "/src/driving",
			Output:     output,
			Now:        testNow,
		}, &stdout, nil)
		require.NoError(t, err)

		require.Len(t, report.Sections, 1)
		assert.Equal(t, 2, report.Worktrees)
		assert.Equal(t, "feature", report.Sections[0].Worktree.Branch)

		rule := strings.Repeat("-", 50)
		sections := "\n[feature - feature]\n" +
			rule + "\nTime: " + localClock(t, "2026-10-19T11:00:00Z") + "\nHash: f00d002\nMessage:\nTune thresholds\n" +
			rule + "\nTime: " + localClock(t, "2026-10-19T08:00:00Z") + "\nHash: f00d001\nMessage:\nAdd planner flag\n"

		wantStdout := "\nYour new commits for 2026-10-19:\n" +
			"(Showing only newly created commits, excluding rebased ones)\n\n" +
			sections +
			"\nCommit summaries have been appended to: " + output + "\n"
		if diff := cmp.Diff(wantStdout, stdout.String()); diff != "" {
			t.Errorf("stdout mismatch (-want +got):\n%s", diff)
		}

		content, err := os.ReadFile(output)
		require.NoError(t, err)
		wantFile := "previous runs\n" + "\n\n=== Commits for 2026-10-19 ===\n" + sections
		if diff := cmp.Diff(wantFile, string(content)); diff != "" {
			t.Errorf("summary file mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 1, strings.Count(string(content), "=== Commits for"))
		assert.NotContains(t, string(content), "[driving - main]")
	})

	t.Run("nothing found does not touch the output file", func(t *testing.T) {
		f := twoWorktreeRunner()
		f.reflog = nil
		output := filepath.Join(t.TempDir(), "commit_summaries.txt")

		var stdout bytes.Buffer
		report, err := Run(ctx, NewGit(f, nil), Options{
			Repository: "/src/driving",
			Output:     output,
			Now:        testNow,
		}, &stdout, nil)
		require.NoError(t, err)
		assert.False(t, report.Found())

		assert.Contains(t, stdout.String(), "No new commits found for today in any worktree.")
		assert.NotContains(t, stdout.String(), "Try running this command manually")
		_, err = os.Stat(output)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("debug prints manual hints", func(t *testing.T) {
		f := twoWorktreeRunner()
		f.reflog = nil

		var stdout bytes.Buffer
		_, err := Run(ctx, NewGit(f, nil), Options{
			Repository: "/src/driving",
			Output:     filepath.Join(t.TempDir(), "out.txt"),
			Debug:      true,
			Now:        testNow,
		}, &stdout, nil)
		require.NoError(t, err)

		out := stdout.String()
		assert.Contains(t, out, "Try running this command manually to debug:\ncd /src/driving\n")
		assert.Contains(t, out, debugReflogCommand)
	})

	t.Run("no worktrees", func(t *testing.T) {
		f := &fakeRunner{failing: map[string]bool{"/missing": true}}

		var stdout bytes.Buffer
		report, err := Run(ctx, NewGit(f, nil), Options{
			Repository: "/missing",
			Output:     filepath.Join(t.TempDir(), "out.txt"),
			Now:        testNow,
		}, &stdout, nil)
		require.NoError(t, err)
		assert.Zero(t, report.Worktrees)
		assert.True(t, strings.HasSuffix(stdout.String(), "No worktrees found!\n"))
	})

	t.Run("unwritable output is an error", func(t *testing.T) {
		f := twoWorktreeRunner()
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		_, err := Run(ctx, NewGit(f, nil), Options{
			Repository: "/src/driving",
			Output:     filepath.Join(blocker, "out.txt"),
			Now:        testNow,
		}, &bytes.Buffer{}, nil)
		assert.Error(t, err)
	})
}

func TestAppendReportAppends(t *testing.T) {
	output := filepath.Join(t.TempDir(), "summary.txt")
	report := &Report{
		Date: testNow,
		Sections: []Section{{
			Worktree: Worktree{Name: "driving", Branch: "main"},
			Entries:  []Entry{{DisplayTime: "10:00:00", Hash: "abc", Message: "msg"}},
		}},
	}

	require.NoError(t, AppendReport(output, report))
	require.NoError(t, AppendReport(output, report))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "=== Commits for 2026-10-19 ==="))
}

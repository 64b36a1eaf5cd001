package history

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Buckets in report order.
const (
	BucketGit   = "git"
	BucketBazel = "bazel"
	BucketGrep  = "grep"
	BucketSim   = "sim"
	BucketOther = "other"
)

var Buckets = []string{BucketGit, BucketBazel, BucketGrep, BucketSim, BucketOther}

// IgnoredCommands are never reported.
var IgnoredCommands = []string{"cs", "ds", "mkdir", "ff", "clear", "vim", "ls", "cd", "note"}

var simScripts = []string{"sim/argus_sim/run_sdl.sh", "sim/launch.sh"}

// Classify returns the bucket for a history line based on its first
// whitespace-delimited token. Blank lines and ignored commands report false.
func Classify(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	token := fields[0]
	switch {
	case lo.Contains(IgnoredCommands, token):
		return "", false
	case token == BucketGit, token == BucketBazel, token == BucketGrep:
		return token, true
	case lo.Contains(simScripts, token):
		return BucketSim, true
	default:
		return BucketOther, true
	}
}

// CommandCount is a distinct history line and how often it was seen.
type CommandCount struct {
	Command string
	Count   int

	firstSeen int
}

// Summary holds per-bucket frequency counts for one run.
type Summary struct {
	buckets map[string]map[string]*CommandCount
	seen    int

	// Ignored counts lines dropped because they were blank or ignored.
	Ignored int
}

// Summarize counts every distinct line per bucket.
func Summarize(lines []string) *Summary {
	s := &Summary{buckets: make(map[string]map[string]*CommandCount, len(Buckets))}
	for _, b := range Buckets {
		s.buckets[b] = make(map[string]*CommandCount)
	}

	for _, line := range lines {
		bucket, ok := Classify(line)
		if !ok {
			s.Ignored++
			continue
		}

		counts := s.buckets[bucket]
		if c, found := counts[line]; found {
			c.Count++
			continue
		}
		counts[line] = &CommandCount{Command: line, Count: 1, firstSeen: s.seen}
		s.seen++
	}

	return s
}

// Sorted returns the bucket's commands, most frequent first. Commands with
// equal counts keep the order in which they were first seen.
func (s *Summary) Sorted(bucket string) []CommandCount {
	counts := lo.MapToSlice(s.buckets[bucket], func(_ string, c *CommandCount) CommandCount {
		return *c
	})
	slices.SortFunc(counts, func(a, b CommandCount) int {
		if byCount := cmp.Compare(b.Count, a.Count); byCount != 0 {
			return byCount
		}
		return cmp.Compare(a.firstSeen, b.firstSeen)
	})
	return counts
}

// Distinct is the number of distinct commands across all buckets.
func (s *Summary) Distinct() int {
	return s.seen
}

// Total is the number of classified lines across all buckets.
func (s *Summary) Total() int {
	total := 0
	for _, counts := range s.buckets {
		for _, c := range counts {
			total += c.Count
		}
	}
	return total
}

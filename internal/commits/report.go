package commits

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinylittleshell/devkit/internal/styles"
)

const entryRule = "--------------------------------------------------"

// DateLayout formats the report date.
const DateLayout = "2006-01-02"

func writeSections(w io.Writer, sections []Section, st *styles.Styles) {
	for _, section := range sections {
		fmt.Fprintf(w, "\n%s\n", st.SECTION(fmt.Sprintf("[%s - %s]", section.Worktree.Name, section.Worktree.Branch)))
		for _, e := range section.Entries {
			fmt.Fprintln(w, st.DIM(entryRule))
			fmt.Fprintf(w, "Time: %s\n", e.DisplayTime)
			fmt.Fprintf(w, "Hash: %s\n", e.Hash)
			fmt.Fprintln(w, "Message:")
			fmt.Fprintln(w, strings.TrimSpace(e.Message))
		}
	}
}

// WriteSections writes the per-worktree listing shown on standard output.
func (r *Report) WriteSections(w io.Writer, st *styles.Styles) {
	writeSections(w, r.Sections, st)
}

// WriteFileBlock writes the dated block that is appended to the summary file.
func (r *Report) WriteFileBlock(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n\n=== Commits for %s ===\n", r.Date.Format(DateLayout))
	writeSections(bw, r.Sections, styles.New(io.Discard))
	return bw.Flush()
}

// AppendReport appends the report's file block to path, creating the file if
// needed. Existing content is never truncated.
func AppendReport(path string, r *Report) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open summary file: %w", err)
	}

	if err := r.WriteFileBlock(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return f.Close()
}

package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Render writes the Markdown report: a regeneration hint followed by one
// fenced bash block per bucket.
func Render(w io.Writer, s *Summary, updateHint string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Update by running:\n```bash\n%s\n```\n\n", updateHint)
	for _, bucket := range Buckets {
		fmt.Fprintf(bw, "```bash\n# %s commands\n", bucket)
		for _, c := range s.Sorted(bucket) {
			fmt.Fprintln(bw, c.Command)
		}
		fmt.Fprint(bw, "\n```\n")
	}

	return bw.Flush()
}

// WriteReport overwrites path with the rendered report.
func WriteReport(path string, s *Summary, updateHint string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Render(f, s, updateHint); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Close()
}

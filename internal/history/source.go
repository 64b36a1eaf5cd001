// Package history summarizes shell history into a Markdown report grouped by
// command category.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Source yields raw history lines in the order they were recorded.
type Source interface {
	Name() string
	Commands() ([]string, error)
}

// FileSource reads a line-oriented shell history file such as ~/.bash_history.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string {
	return s.Path
}

// Commands returns every line of the file with its line terminator removed.
func (s *FileSource) Commands() ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file %s: %w", s.Path, err)
	}

	return lines, nil
}

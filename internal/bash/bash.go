// Package bash runs shell command strings through the mvdan.cc/sh interpreter
// and captures their output.
package bash

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes a shell command string in a directory and returns its
// standard output.
type Runner interface {
	Run(ctx context.Context, dir, command string) (string, error)
}

// ExitError reports a command that ran but exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
	}
	return fmt.Sprintf("command %q exited with status %d: %s", e.Command, e.Code, stderr)
}

// threadSafeBuffer provides a thread-safe wrapper around bytes.Buffer.
// Pipeline stages run concurrently and may share a writer.
type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// ShellRunner is the Runner backed by mvdan.cc/sh. Each call gets a fresh
// interpreter seeded from the current process environment, so no shell state
// leaks between commands.
type ShellRunner struct{}

// NewShellRunner creates a new ShellRunner.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{}
}

// Run parses command as a shell program and runs it with dir as the working
// directory. A non-zero exit status is returned as *ExitError together with
// whatever was written to stdout.
func (r *ShellRunner) Run(ctx context.Context, dir, command string) (string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", fmt.Errorf("failed to parse bash command: %w", err)
	}

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, outBuf, errBuf),
	}
	// An empty dir runs in the process working directory.
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create bash runner: %w", err)
	}

	err = runner.Run(ctx, prog)
	if err != nil {
		if exitStatus, ok := interp.IsExitStatus(err); ok {
			return outBuf.String(), &ExitError{
				Command: command,
				Code:    int(exitStatus),
				Stderr:  errBuf.String(),
			}
		}
		return outBuf.String(), fmt.Errorf("failed to run %q: %w", command, err)
	}

	return outBuf.String(), nil
}

// Quote returns s quoted so that the shell reads it back as a single word.
func Quote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only strings with NUL bytes fail to quote; drop them.
		quoted, _ = syntax.Quote(strings.ReplaceAll(s, "\x00", ""), syntax.LangBash)
	}
	return quoted
}

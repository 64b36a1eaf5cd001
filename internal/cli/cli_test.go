package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinylittleshell/devkit/internal/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		runE     func(cmd *cobra.Command, args []string) error
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "success",
			runE:     func(*cobra.Command, []string) error { return nil },
			wantCode: 0,
		},
		{
			name:     "runtime error",
			runE:     func(*cobra.Command, []string) error { return errors.New("disk full") },
			wantCode: 1,
			wantErr:  "An error occurred: disk full\n",
		},
		{
			name:     "usage error",
			runE:     func(*cobra.Command, []string) error { return Usagef("missing %s", "thing") },
			wantCode: 2,
			wantErr:  "Error: missing thing\nUsage:",
		},
		{
			name:     "unknown flag",
			runE:     func(*cobra.Command, []string) error { return nil },
			args:     []string{"--nope"},
			wantCode: 2,
			wantErr:  "unknown flag: --nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "tool", Args: NoArgs, RunE: tt.runE}
			cmd.SetArgs(tt.args)

			var stderr bytes.Buffer
			code := Execute(cmd, &stderr)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestBootstrap(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	core.ResetPaths()
	t.Cleanup(core.ResetPaths)

	configFile := filepath.Join(home, "devkit.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("commits:\n  repository: /src/repo\n"), 0644))

	cmd := &cobra.Command{Use: "tool"}
	var flags GlobalFlags
	flags.Register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", configFile, "-v"}))

	env, err := flags.Bootstrap()
	require.NoError(t, err)
	defer env.Close()

	assert.Equal(t, "/src/repo", env.Config.Commits.Repository)
	assert.True(t, flags.Verbose)
	assert.NotNil(t, env.Logger)
	assert.Equal(t, BUILD_VERSION, cmd.Version)

	_, err = os.Stat(core.LogFile())
	assert.NoError(t, err)
}

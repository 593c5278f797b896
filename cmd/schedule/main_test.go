package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Setenv("SCHEDULE_DIR", filepath.Join(t.TempDir(), ".schedule"))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "no args", args: nil},
		{name: "version flag", args: []string{"--version"}},
		{name: "help subcommand", args: []string{"help", "task"}},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun_InitThenList(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), ".schedule")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, run([]string{"--data-dir", dataDir, "init"}))
	require.NoError(t, run([]string{"--data-dir", dataDir, "task", "add", "--name", "from main"}))

	assert.FileExists(t, filepath.Join(dataDir, "board.json"))
}

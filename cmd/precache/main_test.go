package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/core/domain"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"version"},
			expectedExit: 0,
		},
		{
			name:         "caches with no stores",
			args:         []string{"caches"},
			expectedExit: 0,
		},
		{
			name:         "missing config file",
			args:         []string{"-c", "nonexistent.yaml", "install"},
			expectedExit: 1,
		},
		{
			name:         "invalid config file",
			config:       "version: v1\norigin: not a url\n",
			args:         []string{"-c", domain.ConfigFileName, "install"},
			expectedExit: 1,
		},
		{
			name:         "unknown log format",
			args:         []string{"--log-format", "xml", "version"},
			expectedExit: 1,
		},
		{
			name:         "unknown command",
			args:         []string{"frobnicate"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.config != "" {
				path := filepath.Join(tmpDir, domain.ConfigFileName)
				require.NoError(t, os.WriteFile(path, []byte(tt.config), domain.PrivateFilePerm))
			}

			var stderr bytes.Buffer
			exitCode := run(tt.args, &stderr)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/telekom/mail-dispatcher/pkg/version"
)

func TestVersionCommand(t *testing.T) {
	// Save original version info
	origVersion := version.Version
	origGitCommit := version.GitCommit
	origBuildDate := version.BuildDate
	defer func() {
		version.Version = origVersion
		version.GitCommit = origGitCommit
		version.BuildDate = origBuildDate
	}()

	version.Version = "v1.2.3"
	version.GitCommit = "abc123-dirty"
	version.BuildDate = "2026-01-17T15:00:00Z"

	tests := []struct {
		name         string
		args         []string
		wantContains []string
		validateJSON bool
		validateYAML bool
		wantErr      bool
	}{
		{
			name:         "default output format",
			args:         []string{},
			wantContains: []string{"mailctl v1.2.3", "commit: abc123-dirty", "built: 2026-01-17T15:00:00Z"},
		},
		{
			name:         "json output format",
			args:         []string{"-o", "json"},
			validateJSON: true,
		},
		{
			name:         "yaml output format",
			args:         []string{"-o", "yaml"},
			validateYAML: true,
			wantContains: []string{"version: v1.2.3"},
		},
		{
			name:    "unknown output format",
			args:    []string{"-o", "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := NewVersionCommand()
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.validateJSON {
				var info version.BuildInfo
				require.NoError(t, json.Unmarshal(buf.Bytes(), &info), "output should be valid JSON")
				require.Equal(t, "v1.2.3", info.Version)
				require.Equal(t, "abc123-dirty", info.GitCommit)
				require.NotEmpty(t, info.Platform)
			}
			if tt.validateYAML {
				var info version.BuildInfo
				require.NoError(t, yaml.Unmarshal(buf.Bytes(), &info), "output should be valid YAML")
				require.Equal(t, "v1.2.3", info.Version)
			}
			for _, want := range tt.wantContains {
				require.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestVersionCommand_ThroughRootWithoutConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	root := NewRootCommand(Config{ConfigPath: "/nonexistent/config.yaml", OutputWriter: buf})
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "mailctl ")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagsphere.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
	assert.NoError(t, config.Validate())
	assert.False(t, config.Motion.VariableStep)
	assert.Equal(t, 0.016, config.Motion.FrameBudget)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
labels:
  file: words.yaml
  sheetURL: https://example.com/pubhtml
window:
  width: 400
server:
  listen: 127.0.0.1:9000
motion:
  variableStep: true
`)
	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "words.yaml", config.Labels.File)
	assert.Equal(t, "https://example.com/pubhtml", config.Labels.SheetURL)
	assert.Equal(t, 400, config.Window.Width)
	// untouched values keep their defaults
	assert.Equal(t, 720, config.Window.Height)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Listen)
	assert.Equal(t, 60, config.Server.FPS)
	assert.True(t, config.Motion.VariableStep)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "words.yaml"), config.ToAbsPath(config.Labels.File))
	assert.Equal(t, "/etc/words.yaml", config.ToAbsPath("/etc/words.yaml"))
	assert.Equal(t, "", config.ToAbsPath(""))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "width", content: "window:\n  width: 0\n"},
		{name: "fps", content: "server:\n  fps: -1\n"},
		{name: "frame budget", content: "motion:\n  frameBudget: 0\n"},
		{name: "max step", content: "motion:\n  maxStep: -0.5\n"},
		{name: "frames", content: "snapshot:\n  frames: 0\n"},
		{name: "syntax", content: "window: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault_ToAbsPath(t *testing.T) {
	assert.Equal(t, "words.yaml", Default().ToAbsPath("words.yaml"))
}

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsphere/internal/cloud"
	"tagsphere/internal/config"
	"tagsphere/internal/labels"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValueFromEnv(t *testing.T) {
	t.Setenv("TAGSPHERE_NAME", "sphere")
	t.Setenv("TAGSPHERE_COUNT", "42")
	t.Setenv("TAGSPHERE_BROKEN", "many")
	t.Setenv("TAGSPHERE_ENABLED", "true")

	assert.Equal(t, "sphere", valueFromEnvString("NAME", "x"))
	assert.Equal(t, "x", valueFromEnvString("MISSING", "x"))
	assert.Equal(t, uint(42), valueFromEnvUint("COUNT", 1))
	assert.Equal(t, uint(1), valueFromEnvUint("BROKEN", 1))
	assert.True(t, valueFromEnvBool("ENABLED", false))
	assert.True(t, envIsSet("COUNT"))
	assert.False(t, envIsSet("MISSING"))
	assert.False(t, valueFromEnvBool("MISSING", false))
}

func TestCollectLabels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.yaml"), []byte("- Go\n- Rust\n"), 0o644))

	c := config.Default()
	words, err := collectLabels(context.Background(), c, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWords, words)

	configPath := filepath.Join(dir, "tagsphere.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("labels:\n  words: [Zig, Go]\n  file: labels.yaml\n"), 0o644))
	c, err = config.Load(configPath)
	require.NoError(t, err)

	sources := labelSources(c)
	require.Len(t, sources, 2)
	assert.Equal(t, "static", sources[0].Name())
	assert.Equal(t, &labels.FileSource{Path: filepath.Join(dir, "labels.yaml")}, sources[1])

	words, err = collectLabels(context.Background(), c, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Zig", "Go", "Rust"}, words)

	c.Labels.File = "missing.yaml"
	_, err = collectLabels(context.Background(), c, quietLogger())
	assert.Error(t, err)
}

func TestRunSnapshot(t *testing.T) {
	c := config.Default()
	c.Snapshot.Width = 200
	c.Snapshot.Height = 160
	c.Snapshot.Ticks = 10
	c.Snapshot.Frames = 2
	c.Snapshot.OutputPrefix = filepath.Join(t.TempDir(), "frame-")

	saved, err := runSnapshot(c, []string{"Go", "channels", "slog"}, &cloud.Point{X: 190, Y: 80}, quietLogger())
	require.NoError(t, err)
	require.Equal(t, []string{c.Snapshot.OutputPrefix + "000000.png", c.Snapshot.OutputPrefix + "000001.png"}, saved)
	for _, name := range saved {
		info, err := os.Stat(name)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	c.Snapshot.Ticks = 0
	c.Snapshot.OutputPrefix = filepath.Join(t.TempDir(), "still-")
	saved, err = runSnapshot(c, []string{"Go"}, nil, quietLogger())
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestRunSnapshot_MoreFramesThanTicks(t *testing.T) {
	c := config.Default()
	c.Snapshot.Width = 120
	c.Snapshot.Height = 120
	c.Snapshot.Ticks = 3
	c.Snapshot.Frames = 5
	c.Snapshot.OutputPrefix = filepath.Join(t.TempDir(), "frame-")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	saved, err := runSnapshot(c, []string{"Go"}, nil, logger)
	require.NoError(t, err)
	assert.Len(t, saved, 3)
	assert.Contains(t, logs.String(), "more frames than ticks requested")
}

func TestEngineOptions(t *testing.T) {
	c := config.Default()
	assert.Len(t, engineOptions(c, quietLogger()), 2)

	c.Motion.VariableStep = true
	assert.Len(t, engineOptions(c, quietLogger()), 3)
}

func TestWritePoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePoints(&buf, 3))

	var records []pointRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[2].Index)
	assert.InDelta(t, 1, records[0].Y, 1e-9)
	assert.InDelta(t, 0, records[1].Y, 1e-9)
	assert.InDelta(t, -1, records[2].Y, 1e-9)

	buf.Reset()
	require.NoError(t, writePoints(&buf, 0))
	assert.Equal(t, "[]", buf.String())
}

func TestMotionConfig(t *testing.T) {
	c := config.Default()
	(&motionConfig{}).apply(c)
	assert.Equal(t, config.Default().Motion, c.Motion)

	(&motionConfig{variableStep: true, maxStep: 0.05}).apply(c)
	assert.True(t, c.Motion.VariableStep)
	assert.Equal(t, 0.05, c.Motion.MaxStep)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// DefaultWords are shown when no label source yields anything.
var DefaultWords = []string{
	"Go", "goroutines", "channels", "interfaces", "generics", "modules",
	"testing", "context", "slog", "websocket", "OpenGL", "glfw",
}

type Config struct {
	baseDir string

	Labels   Labels   `json:"labels"`
	Window   Window   `json:"window"`
	Server   Server   `json:"server"`
	Motion   Motion   `json:"motion"`
	Snapshot Snapshot `json:"snapshot"`
}

// Labels lists where sphere labels come from. All sources are merged in the order
// words, file, sheet; DefaultWords are used when they yield nothing.
type Labels struct {
	Words    []string `json:"words,omitempty"`
	File     string   `json:"file,omitempty"`
	SheetURL string   `json:"sheetURL,omitempty"`
}

type Window struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Server struct {
	Listen string `json:"listen"`
	FPS    int    `json:"fps"`
}

// Motion selects how ticks account for time. With VariableStep unset every tick
// counts as one fixed frame budget regardless of the real frame rate.
type Motion struct {
	VariableStep bool    `json:"variableStep"`
	MaxStep      float64 `json:"maxStep"`
	FrameBudget  float64 `json:"frameBudget"`
}

type Snapshot struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Ticks        int    `json:"ticks"`
	Frames       int    `json:"frames"`
	OutputPrefix string `json:"outputPrefix"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "tagsphere",
			Width:  960,
			Height: 720,
		},
		Server: Server{
			Listen: ":8080",
			FPS:    60,
		},
		Motion: Motion{
			VariableStep: false,
			MaxStep:      0.1,
			FrameBudget:  0.016,
		},
		Snapshot: Snapshot{
			Width:        640,
			Height:       640,
			Ticks:        180,
			Frames:       1,
			OutputPrefix: "frame-",
		},
	}
}

// Load reads a YAML or JSON config over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.baseDir = filepath.Dir(path)
	return config, nil
}

// ToAbsPath resolves a path relative to the directory of the config file.
func (c *Config) ToAbsPath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.New("config value of `window.width` and `window.height` must be positive")
	}
	if c.Server.FPS <= 0 {
		return errors.New("config value of `server.fps` must be positive")
	}
	if c.Motion.FrameBudget <= 0 {
		return errors.New("config value of `motion.frameBudget` must be positive")
	}
	if c.Motion.MaxStep < 0 {
		return errors.New("config value of `motion.maxStep` must not be negative")
	}
	if c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0 {
		return errors.New("config value of `snapshot.width` and `snapshot.height` must be positive")
	}
	if c.Snapshot.Ticks < 0 || c.Snapshot.Frames <= 0 {
		return errors.New("config value of `snapshot.ticks` must not be negative and `snapshot.frames` must be positive")
	}
	return nil
}

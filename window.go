package main

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"tagsphere/internal/glview"
)

type windowConfig struct {
	title  string
	width  uint
	height uint
}

var windowOpts = &windowConfig{}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "show the sphere in a native OpenGL window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if windowOpts.title != "" {
			cfg.Window.Title = windowOpts.title
		}
		if windowOpts.width > 0 {
			cfg.Window.Width = int(windowOpts.width)
		}
		if windowOpts.height > 0 {
			cfg.Window.Height = int(windowOpts.height)
		}

		logger := slog.Default()
		words, err := collectLabels(context.Background(), cfg, logger)
		if err != nil {
			return err
		}

		return glview.Run(glview.Config{
			Title:         cfg.Window.Title,
			Width:         cfg.Window.Width,
			Height:        cfg.Window.Height,
			Labels:        words,
			EngineOptions: engineOptions(cfg, logger),
			Logger:        logger,
		})
	},
}

func init() {
	// glfw must run on the main thread
	runtime.LockOSThread()

	flags := windowCmd.Flags()

	flags.StringVar(&windowOpts.title, "title", valueFromEnvString("WINDOW_TITLE", ""), "title of the window, overrides the config.")
	flags.UintVar(&windowOpts.width, "width", valueFromEnvUint("WINDOW_WIDTH", 0), "width of the window, overrides the config.")
	flags.UintVar(&windowOpts.height, "height", valueFromEnvUint("WINDOW_HEIGHT", 0), "height of the window, overrides the config.")

	rootCmd.AddCommand(windowCmd)
}

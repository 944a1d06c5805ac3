package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tagsphere/internal/wsview"
)

type serveConfig struct {
	listen string
	fps    uint
}

var serveOpts = &serveConfig{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the sphere to browsers over a websocket.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveOpts.listen != "" {
			cfg.Server.Listen = serveOpts.listen
		}
		if serveOpts.fps > 0 {
			cfg.Server.FPS = int(serveOpts.fps)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()
		words, err := collectLabels(ctx, cfg, logger)
		if err != nil {
			return err
		}

		server := wsview.NewServer(words,
			wsview.WithFPS(cfg.Server.FPS),
			wsview.WithEngineOptions(engineOptions(cfg, logger)...),
			wsview.WithLogger(logger),
		)
		return server.ListenAndServe(ctx, cfg.Server.Listen)
	},
}

func init() {
	flags := serveCmd.Flags()

	flags.StringVarP(&serveOpts.listen, "listen", "l", valueFromEnvString("LISTEN", ""), "address to listen on, overrides the config.")
	flags.UintVar(&serveOpts.fps, "fps", valueFromEnvUint("FPS", 0), "frames per second sent to every page, overrides the config.")

	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"tagsphere/internal/cloud"
	"tagsphere/internal/config"
	"tagsphere/internal/render"
)

type snapshotConfig struct {
	outputPrefix string
	ticks        uint
	frames       uint
	pointerX     float64
	pointerY     float64
}

var snapshotOpts = &snapshotConfig{}

// runSnapshot ticks a headless sphere and saves frames evenly spread over the run.
// A pointer, when given, steers the sphere before the first tick.
func runSnapshot(c *config.Config, words []string, pointer *cloud.Point, logger *slog.Logger) ([]string, error) {
	canvas := render.NewCanvas(c.Snapshot.Width, c.Snapshot.Height, words, render.NewGlyphs())
	engine := cloud.New(canvas, words, engineOptions(c, logger)...)
	defer engine.Stop()

	if pointer != nil {
		engine.PointerMove(pointer.X, pointer.Y)
	}

	filer := render.NewFiler(c.Snapshot.OutputPrefix, 6)
	var saved []string
	save := func() error {
		name, err := filer.Save(canvas.Draw())
		if err != nil {
			return err
		}
		logger.Debug("frame saved", slog.String("file", name), slog.Float64("angle", engine.Orientation().Angle))
		saved = append(saved, name)
		return nil
	}

	if c.Snapshot.Ticks == 0 {
		if err := save(); err != nil {
			return nil, err
		}
		return saved, nil
	}

	frames := max(1, c.Snapshot.Frames)
	if frames > c.Snapshot.Ticks {
		logger.Warn("more frames than ticks requested, saving one frame per tick",
			slog.Int("frames", frames), slog.Int("ticks", c.Snapshot.Ticks))
		frames = c.Snapshot.Ticks
	}
	every := max(1, c.Snapshot.Ticks/frames)
	for tick := 1; tick <= c.Snapshot.Ticks && len(saved) < frames; tick++ {
		engine.Tick(0)
		if tick%every == 0 {
			if err := save(); err != nil {
				return saved, err
			}
		}
	}
	return saved, nil
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "render the sphere headless into numbered PNG frames.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotOpts.outputPrefix != "" {
			cfg.Snapshot.OutputPrefix = snapshotOpts.outputPrefix
		}
		// --ticks 0 is meaningful, so an unset flag is told apart from a zero one
		if cmd.Flags().Changed("ticks") || envIsSet("TICKS") {
			cfg.Snapshot.Ticks = int(snapshotOpts.ticks)
		}
		if snapshotOpts.frames > 0 {
			cfg.Snapshot.Frames = int(snapshotOpts.frames)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var pointer *cloud.Point
		if cmd.Flags().Changed("pointer-x") || cmd.Flags().Changed("pointer-y") {
			pointer = &cloud.Point{X: snapshotOpts.pointerX, Y: snapshotOpts.pointerY}
		}

		logger := slog.Default()
		words, err := collectLabels(context.Background(), cfg, logger)
		if err != nil {
			return err
		}

		saved, err := runSnapshot(cfg, words, pointer, logger)
		if err != nil {
			return err
		}
		if len(saved) == 0 {
			return errors.New("no frame was saved")
		}
		logger.Info("snapshot done", slog.Int("frames", len(saved)), slog.String("last", saved[len(saved)-1]))
		return nil
	},
}

func init() {
	flags := snapshotCmd.Flags()

	flags.StringVarP(&snapshotOpts.outputPrefix, "output-prefix", "o", valueFromEnvString("OUTPUT_PREFIX", ""), "prefix of the frame files, overrides the config.")
	flags.UintVar(&snapshotOpts.ticks, "ticks", valueFromEnvUint("TICKS", 0), "number of ticks to run, overrides the config.")
	flags.UintVar(&snapshotOpts.frames, "frames", valueFromEnvUint("FRAMES", 0), "number of frames to save, overrides the config.")
	flags.Float64Var(&snapshotOpts.pointerX, "pointer-x", 0, "x of a pointer steering the sphere, in canvas pixels.")
	flags.Float64Var(&snapshotOpts.pointerY, "pointer-y", 0, "y of a pointer steering the sphere, in canvas pixels.")

	rootCmd.AddCommand(snapshotCmd)
}

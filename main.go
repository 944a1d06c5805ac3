package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tagsphere/internal/config"
)

var (
	configFile string
	verbose    bool
	motion     = &motionConfig{}

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "tagsphere",
	Short:         "tagsphere shows labels on a rotating sphere steered by the pointer.",
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		motion.apply(c)
		cfg = c
		cmd.SilenceUsage = true
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&configFile, "config", "c", valueFromEnvString("CONFIG", ""), "path of the YAML configuration file.")
	flags.BoolVarP(&verbose, "verbose", "v", valueFromEnvBool("VERBOSE", false), "enable debug logs.")
	bindMotionConfig(flags, motion)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("tagsphere failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

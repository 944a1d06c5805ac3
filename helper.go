package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"tagsphere/internal/cloud"
	"tagsphere/internal/config"
	"tagsphere/internal/labels"
)

const (
	envPrefix    = "TAGSPHERE_"
	fetchTimeout = 10 * time.Second
)

func envIsSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + key)
	return ok
}

func valueFromEnvString(key, defaultValue string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}
	return defaultValue
}

func valueFromEnvUint(key string, defaultValue uint) uint {
	if str, ok := os.LookupEnv(envPrefix + key); ok {
		if v, err := strconv.ParseUint(str, 10, 0); err == nil {
			return uint(v)
		}
	}
	return defaultValue
}

func valueFromEnvBool(key string, defaultValue bool) bool {
	if str, ok := os.LookupEnv(envPrefix + key); ok {
		if v, err := strconv.ParseBool(str); err == nil {
			return v
		}
	}
	return defaultValue
}

func valueFromEnvFloat64(key string, defaultValue float64) float64 {
	if str, ok := os.LookupEnv(envPrefix + key); ok {
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

type motionConfig struct {
	variableStep bool
	maxStep      float64
}

func bindMotionConfig(flags *pflag.FlagSet, m *motionConfig) {
	flags.BoolVar(&m.variableStep, "variable-step", valueFromEnvBool("VARIABLE_STEP", false), "advance the rotation by the measured frame time instead of a fixed step.")
	flags.Float64Var(&m.maxStep, "max-step", valueFromEnvFloat64("MAX_STEP", 0), "cap in seconds of a single variable step, overrides the config.")
}

// apply overrides the motion section of the config with the flags that are set.
func (m *motionConfig) apply(c *config.Config) {
	if m.variableStep {
		c.Motion.VariableStep = true
	}
	if m.maxStep > 0 {
		c.Motion.MaxStep = m.maxStep
	}
}

// labelSources lists the configured sources in the order words, file, sheet.
func labelSources(c *config.Config) []labels.Source {
	var sources []labels.Source
	if len(c.Labels.Words) > 0 {
		sources = append(sources, labels.StaticSource(c.Labels.Words))
	}
	if c.Labels.File != "" {
		sources = append(sources, &labels.FileSource{Path: c.ToAbsPath(c.Labels.File)})
	}
	if c.Labels.SheetURL != "" {
		sources = append(sources, &labels.SheetSource{
			URL:    c.Labels.SheetURL,
			Client: &http.Client{Timeout: fetchTimeout},
		})
	}
	return sources
}

// collectLabels reads every configured source and falls back to the default words
// when none yields a label.
func collectLabels(ctx context.Context, c *config.Config, logger *slog.Logger) ([]string, error) {
	words, err := labels.Collect(ctx, logger, labelSources(c)...)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		logger.Info("no labels configured, using the default words")
		return config.DefaultWords, nil
	}
	return words, nil
}

func engineOptions(c *config.Config, logger *slog.Logger) []cloud.Option {
	options := []cloud.Option{
		cloud.WithFrameBudget(c.Motion.FrameBudget),
		cloud.WithLogger(logger),
	}
	if c.Motion.VariableStep {
		options = append(options, cloud.WithVariableStep(c.Motion.MaxStep))
	}
	return options
}

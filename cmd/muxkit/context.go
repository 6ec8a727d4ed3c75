package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"muxkit/internal/config"
	"muxkit/internal/logging"
	"muxkit/internal/timestamps"
	"muxkit/internal/videometa"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue builds a console logger on stderr so command output on stdout
// stays machine-readable.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		level := "info"
		format := "console"
		if cfg != nil {
			level = cfg.Logging.Level
			format = cfg.Logging.Format
		}
		logger, err := logging.New(logging.Options{
			Level:       level,
			Format:      format,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			logger = slog.Default()
		}
		c.logger = logger
	})
	return c.logger
}

// sourceFlags selects the timestamp source for frame-aware commands. At most
// one of the flags is honored; configuration timing supplies the fallback.
type sourceFlags struct {
	fps       string
	timecodes string
	video     string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fps, "fps", "", "Frame rate as a rational (24000/1001) or decimal")
	cmd.Flags().StringVar(&f.timecodes, "timecodes", "", "Timecode file with exact frame timing")
	cmd.Flags().StringVar(&f.video, "video", "", "Video file to probe for exact frame timing")
}

func (c *commandContext) resolveTimestamps(cmd *cobra.Command, f *sourceFlags) (timestamps.Timestamps, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	var src timestamps.Source
	switch {
	case strings.TrimSpace(f.video) != "":
		src = timestamps.FromPath(strings.TrimSpace(f.video))
	case strings.TrimSpace(f.timecodes) != "":
		src = timestamps.FromPath(strings.TrimSpace(f.timecodes))
	case strings.TrimSpace(f.fps) != "":
		src = timestamps.FromString(strings.TrimSpace(f.fps))
	default:
		src = timestamps.FromRational(cfg.Timing.FPSRational())
	}

	logger := c.loggerValue()
	ts, err := timestamps.Resolve(cmd.Context(), src,
		timestamps.WithTimeScale(cfg.Timing.TimeScaleRational()),
		timestamps.WithRounding(cfg.Timing.RoundingMethod()),
		timestamps.WithLogger(logger),
		timestamps.WithProber(videometa.Prober(videometa.FFProbe(cfg.FFprobeBinary()), logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("resolve timestamp source: %w", err)
	}
	return ts, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

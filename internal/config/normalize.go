package config

import (
	"fmt"
	"strings"

	"muxkit/internal/timestamps"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNaming()
	if err := c.normalizeTiming(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNaming() {
	c.Naming.ShowName = strings.TrimSpace(c.Naming.ShowName)
	c.Naming.Episode = strings.TrimSpace(c.Naming.Episode)
	c.Naming.OutputTemplate = strings.TrimSpace(c.Naming.OutputTemplate)
	if c.Naming.OutputTemplate == "" {
		c.Naming.OutputTemplate = defaultOutputTemplate
	}
}

func (c *Config) normalizeTiming() error {
	c.Timing.FPS = strings.TrimSpace(c.Timing.FPS)
	if c.Timing.FPS == "" {
		c.Timing.FPS = defaultFPS
	}
	fps, err := timestamps.ParseRational(c.Timing.FPS)
	if err != nil {
		return fmt.Errorf("timing.fps: %w", err)
	}
	c.Timing.fps = fps

	c.Timing.TimeScale = strings.TrimSpace(c.Timing.TimeScale)
	if c.Timing.TimeScale == "" {
		c.Timing.TimeScale = defaultTimeScale
	}
	scale, err := timestamps.ParseRational(c.Timing.TimeScale)
	if err != nil {
		return fmt.Errorf("timing.timescale: %w", err)
	}
	c.Timing.scale = scale

	c.Timing.Rounding = strings.ToLower(strings.TrimSpace(c.Timing.Rounding))
	switch c.Timing.Rounding {
	case "", "nearest":
		c.Timing.Rounding = "nearest"
		c.Timing.rounding = timestamps.RoundNearest
	case "floor":
		c.Timing.rounding = timestamps.RoundFloor
	default:
		return fmt.Errorf("timing.rounding: unknown method %q (want nearest or floor)", c.Timing.Rounding)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.MKVExtract = strings.TrimSpace(c.Tools.MKVExtract)
	c.Tools.AegisubCLI = strings.TrimSpace(c.Tools.AegisubCLI)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

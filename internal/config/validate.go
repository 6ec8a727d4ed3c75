package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.WorkDir == c.Paths.OutputDir {
		return errors.New("paths.work_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateTiming() error {
	if c.Timing.fps.IsZero() {
		return errors.New("timing.fps must be a positive rational")
	}
	if c.Timing.scale.IsZero() {
		return errors.New("timing.timescale must be a positive rational")
	}
	return nil
}

func (c *Config) validateNaming() error {
	if !strings.Contains(c.Naming.OutputTemplate, "$show$") && !strings.Contains(c.Naming.OutputTemplate, "$ep$") {
		return fmt.Errorf("naming.output_template %q must use at least one of $show$ or $ep$", c.Naming.OutputTemplate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

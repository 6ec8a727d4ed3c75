package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"muxkit/internal/timestamps"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Naming contains output file naming configuration.
type Naming struct {
	ShowName       string `toml:"show_name"`
	Episode        string `toml:"episode"`
	OutputTemplate string `toml:"output_template"`
}

// Timing contains the default timestamp source used when an operation does
// not supply one explicitly.
type Timing struct {
	FPS       string `toml:"fps"`
	TimeScale string `toml:"timescale"`
	Rounding  string `toml:"rounding"`

	fps      timestamps.Rational
	scale    timestamps.Rational
	rounding timestamps.RoundingMethod
}

// FPSRational returns the parsed default frame rate.
func (t Timing) FPSRational() timestamps.Rational { return t.fps }

// TimeScaleRational returns the parsed default time scale.
func (t Timing) TimeScaleRational() timestamps.Rational { return t.scale }

// RoundingMethod returns the parsed tick rounding method.
func (t Timing) RoundingMethod() timestamps.RoundingMethod { return t.rounding }

// Tools contains external binary configuration.
type Tools struct {
	FFprobe    string `toml:"ffprobe"`
	MKVExtract string `toml:"mkvextract"`
	AegisubCLI string `toml:"aegisub_cli"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for muxkit.
//
// Configuration sections by subsystem:
//   - Paths: work, output, and log directories
//   - Naming: show/episode tokens and the output name template
//   - Timing: default frame rate, time scale, and rounding
//   - Tools: external binary overrides (ffprobe, mkvextract, aegisub-cli)
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Naming  Naming  `toml:"naming"`
	Timing  Timing  `toml:"timing"`
	Tools   Tools   `toml:"tools"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/muxkit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("muxkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SessionWorkDir creates a fresh uniquely-named directory under the work dir
// for one run's intermediate files.
func (c *Config) SessionWorkDir() (string, error) {
	dir := filepath.Join(c.Paths.WorkDir, "session-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session directory %q: %w", dir, err)
	}
	return dir, nil
}

// FFprobeBinary returns the ffprobe executable, honoring the config override.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Tools.FFprobe); v != "" {
		return v
	}
	return "ffprobe"
}

// MKVExtractBinary returns the mkvextract executable, honoring the config override.
func (c *Config) MKVExtractBinary() string {
	if v := strings.TrimSpace(c.Tools.MKVExtract); v != "" {
		return v
	}
	return "mkvextract"
}

// AegisubBinary returns the aegisub-cli executable, honoring the config override.
func (c *Config) AegisubBinary() string {
	if v := strings.TrimSpace(c.Tools.AegisubCLI); v != "" {
		return v
	}
	return "aegisub-cli"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

const (
	defaultWorkDir        = "~/.local/share/muxkit/work"
	defaultOutputDir      = "~/muxed"
	defaultLogDir         = "~/.local/share/muxkit/logs"
	defaultOutputTemplate = "$show$ - $ep$"
	defaultFPS            = "24000/1001"
	defaultTimeScale      = "1000"
	defaultRounding       = "nearest"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Naming: Naming{
			OutputTemplate: defaultOutputTemplate,
		},
		Timing: Timing{
			FPS:       defaultFPS,
			TimeScale: defaultTimeScale,
			Rounding:  defaultRounding,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

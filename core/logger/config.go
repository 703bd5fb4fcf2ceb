package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level that gets logged (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoding (console, json).
	Format string `mapstructure:"format" default:"console"`
	// File is an optional path to an append-only operation log. Every entry
	// logged by the CLI is mirrored there as JSON. Empty disables the mirror.
	File string `mapstructure:"file" default:""`
}

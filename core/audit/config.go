package audit

// Config holds configuration for the import transcript.
type Config struct {
	// File is the transcript path, truncated at the start of every run.
	File string `mapstructure:"file" default:"subnets_import.log"`
	// Archive uploads the finished transcript to object storage.
	Archive bool `mapstructure:"archive" default:"false"`
}

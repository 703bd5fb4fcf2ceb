package mreg

// Config holds configuration for the mreg API connection.
type Config struct {
	// URL is the base URL of the mreg API (scheme, host, port).
	URL string `mapstructure:"url" default:"http://localhost:8000"`
	// Domain is the DNS domain appended to short host names. Empty leaves
	// names untouched.
	Domain string `mapstructure:"domain" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

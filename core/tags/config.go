package tags

// Config holds configuration for the tag vocabulary.
type Config struct {
	// File is the path to the vocabulary file declaring the valid location
	// and category tags.
	File string `mapstructure:"file" default:""`
}

package vlans

// Config holds configuration for the range-to-VLAN mapping source.
type Config struct {
	// Source selects where the mapping comes from (file, database).
	Source string `mapstructure:"source" default:"file"`
	// Files is a comma-separated list of VLAN definition files, read in
	// order. Later files win on duplicate ranges.
	Files string `mapstructure:"files" default:""`
	// Table is the table holding the mapping when Source is database.
	Table string `mapstructure:"table" default:"vlans"`
}

const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

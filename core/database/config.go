package database

// Config holds configuration for the request journal database.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// File is the database file used by the sqlite driver. ":memory:" gives
	// a throwaway in-memory journal.
	File string `mapstructure:"file" default:"mreg_history.db"`
	// Host is the database host (mysql).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql).
	Password string `mapstructure:"password" default:""`
	// Name is the database name (mysql).
	Name string `mapstructure:"name" default:"mreg"`
	// TimeoutSeconds bounds connection setup and per-query I/O (mysql).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

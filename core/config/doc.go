// Package config provides configuration management for mreg-cli.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: mreg API endpoint (URL, timeout, DNS domain)
//   - Log: Logging level, format and optional operation log file
//   - Tags: Path to the location/category tag vocabulary file
//   - Vlans: Source of the range-to-VLAN mapping (files or database)
//   - Audit: Import transcript path and archive switch
//   - Storage: S3/MinIO credentials for transcript archiving
//   - Database: MySQL connection details for the request history
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.URL)
package config

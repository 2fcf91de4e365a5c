// Package config provides configuration management for the conflict scanner.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Scan: conflict scan defaults (mods root, cache paths, fast mode, workers)
//   - Log: logging level and format
//   - History: optional scan history database (sqlite or mysql)
//
// Defaults come from `default` struct tags; any value can be overridden through
// environment variables using underscore-joined keys (e.g. SCAN_ROOT,
// SERVER_PORT, HISTORY_ENABLED).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Scan.Root)
package config

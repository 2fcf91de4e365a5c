// Package database handles the optional scan history database connection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// either an embedded SQLite file (the default, suitable for a desktop tool) or
// a MySQL server connection based on the application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection for the configured
// driver. History persistence is strictly optional: callers treat a connection
// failure as a degraded mode, not a fatal error.
//
// # Usage
//
//	db, err := database.Connect(cfg.History)
//	if err != nil {
//	    logg.Warn("History database unavailable", zap.Error(err))
//	}
package database

// Package config loads runtime configuration for the fintrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-f string   local database file
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Intervals are integers in seconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "database_dsn": "fintrack.db",
//	  "online_check_interval": 3
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config

package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Interval
// values are integers in seconds, mirroring the flag forms. Parsed values
// are copied into the runtime Config.
type jsonConfig struct {
	ServerURL           string `json:"server_url"`
	DatabaseDSN         string `json:"database_dsn"`
	OnlineCheckInterval int    `json:"online_check_interval"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.ConfigFilePath().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override the config; absent fields keep
// their earlier values. Panics on read or unmarshal errors. Intended usage
// is defaults -> parseJSON -> parseFlags, later stages overriding earlier
// ones.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval) * time.Second
	}
}

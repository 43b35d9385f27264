package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first, without overriding variables already
// present in the environment.
//
// Recognized variables:
//
//	RUN_ADDRESS   HTTP bind address
//	DATABASE_DSN  PostgreSQL DSN
//	JWT_SECRET    JWT HMAC secret key
//	TOKEN_TTL     token validity, hours
func parseEnv(config *Config) {
	// Missing .env is fine; real deployments often set variables directly.
	_ = godotenv.Load()

	if v := os.Getenv("RUN_ADDRESS"); v != "" {
		config.RunAddress = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.TokenTTL = time.Duration(hours) * time.Hour
	}
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"scnp"
)

// Environment variables read by Load.
const (
	EnvDryRun   = "SCNP_CLI_DRY_RUN"
	EnvLogLevel = "SCNP_CLI_LOG_LEVEL"
)

// Config holds the settings read from the environment.
type Config struct {
	// Dry-run mode: no transfers, meter reads return DryRunValue
	DryRun      bool
	DryRunValue uint32

	LogLevel log.Level
}

// Load reads .env, if present, and the environment.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DryRunValue: scnp.DefaultDryRunValue,
		LogLevel:    getEnvLevel(EnvLogLevel, log.InfoLevel),
	}

	// any non-empty value enables dry-run, a number also sets the meter value
	if raw := os.Getenv(EnvDryRun); raw != "" {
		cfg.DryRun = true
		if v, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 32); err == nil {
			cfg.DryRunValue = uint32(v)
		}
	}

	return cfg
}

func getEnvLevel(key string, defaultValue log.Level) log.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	level, err := log.ParseLevel(value)
	if err != nil {
		log.Warnf("failed to parse %s as log level, using default: %v", key, err)
		return defaultValue
	}
	return level
}

package config

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"scnp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvDryRun, "")
	t.Setenv(EnvLogLevel, "")

	cfg := Load()
	assert.False(t, cfg.DryRun)
	assert.Equal(t, scnp.DefaultDryRunValue, cfg.DryRunValue)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
}

func TestLoadDryRun(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected uint32
	}{
		{"hex value", "0x00ffffff", 0x00ffffff},
		{"decimal value", "4096", 4096},
		{"non numeric keeps default", "yes", scnp.DefaultDryRunValue},
		{"too large keeps default", "0x100000000", scnp.DefaultDryRunValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvDryRun, tc.value)
			cfg := Load()
			assert.True(t, cfg.DryRun)
			assert.Equal(t, tc.expected, cfg.DryRunValue)
		})
	}
}

func TestLoadLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	assert.Equal(t, log.DebugLevel, Load().LogLevel)

	t.Setenv(EnvLogLevel, "loud")
	assert.Equal(t, log.InfoLevel, Load().LogLevel)
}

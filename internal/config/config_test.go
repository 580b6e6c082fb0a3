package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SEISAN_FORMAT", "")
	t.Setenv("SEISAN_SCENARIO", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "scenario.yaml", cfg.ScenarioPath)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SEISAN_FORMAT", "json")
	t.Setenv("SEISAN_SCENARIO", "/tmp/trip.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/tmp/trip.yaml", cfg.ScenarioPath)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("SEISAN_FORMAT", "xml")

	_, err := Load()
	assert.Error(t, err)
}

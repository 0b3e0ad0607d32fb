package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.Store.Driver = "sqlite"
	cfg.Game.VirtualPlayers = 3
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.Store.Driver)
	assert.Equal(t, 3, loaded.Game.VirtualPlayers)
	assert.Equal(t, 300000, loaded.Game.DefaultHoney)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	t.Setenv("HONEY_STORE_DRIVER", "memory")
	t.Setenv("HONEY_SEED", "42")
	t.Setenv("HONEY_PORT", "9090")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "./data/game_state.json", cfg.Store.Path)
}

func TestInvalidEnvironmentValue(t *testing.T) {
	t.Setenv("HONEY_SEED", "not-a-number")
	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

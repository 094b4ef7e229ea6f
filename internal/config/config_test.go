package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "kanjikoto.db", cfg.DBPath)
	assert.Equal(t, "repos", cfg.ReposDir)
	assert.Equal(t, 5, cfg.SessionSize)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanjikoto.yaml")
	err := os.WriteFile(path, []byte("db: from-file.db\nsession_size: 8\nlog_level: debug\n"), 0o644)
	require.NoError(t, err)

	t.Setenv("KANJIKOTO_SESSION_SIZE", "10")

	cfg, err := Load(newFlags(t, "--config", path, "--seed", "42"))
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.SessionSize, "env overrides file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)

	cfg, err = Load(newFlags(t, "--config", path, "--session-size", "3"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.SessionSize, "flag overrides env")
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(newFlags(t, "--session-size", "0"))
	assert.Error(t, err)

	_, err = Load(newFlags(t, "--log-level", "loud"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)
	require.Equal(t, "./data/server", cfg.DataDir)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadServerConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	require.NoError(t, os.WriteFile(path, []byte("peer_id = 3\ndata_dir = \"/tmp/nostimint\"\nlog_level = \"debug\"\n"), 0o600))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.EqualValues(t, 3, cfg.PeerID)
	require.Equal(t, "/tmp/nostimint", cfg.DataDir)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadServerConfigRejectsUnknownLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"bogus\"\n"), 0o600))

	_, err := LoadServerConfig(path)
	require.Error(t, err)
}

func TestLoadClientConfigDefaultsOutcomeTimeout(t *testing.T) {
	cfg, err := LoadClientConfig("")
	require.NoError(t, err)
	require.Greater(t, cfg.OutcomeTimeout.Hours(), float64(500))
}

func TestNostrPrivateKeyMissing(t *testing.T) {
	os.Unsetenv("NOSTR_PRIVKEY")
	_, err := NostrPrivateKey()
	require.Error(t, err)
}

func TestNostrPrivateKeyPresent(t *testing.T) {
	t.Setenv("NOSTR_PRIVKEY", "deadbeef")
	got, err := NostrPrivateKey()
	require.NoError(t, err)
	require.Equal(t, "deadbeef", got)
}

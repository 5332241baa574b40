package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oneshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultMatchesFixedConstants(t *testing.T) {
	cfg := Default()

	require.Equal(t, 9602, cfg.Server.Port)
	require.Equal(t, 5, cfg.Server.Backlog)
	require.Equal(t, 256, cfg.Server.BufferSize)
	require.Equal(t, "Message from server", cfg.Server.Message)
	require.Equal(t, "0.0.0.0:9602", cfg.Server.Address())
	require.Equal(t, "127.0.0.1:9602", cfg.Client.Address())
	require.False(t, cfg.Server.FullWrite)
	require.False(t, cfg.Client.FullRead)
	require.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9700
  full_write: true
  accept_timeout: 2s
client:
  host: localhost
  read_timeout: 500ms
metrics:
  address: 127.0.0.1:9100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9700, cfg.Server.Port)
	require.True(t, cfg.Server.FullWrite)
	require.Equal(t, 2*time.Second, cfg.Server.AcceptTimeout.Duration)
	require.Equal(t, protocol.DefaultBacklog, cfg.Server.Backlog)
	require.Equal(t, protocol.DefaultMessage, cfg.Server.Message)
	require.Equal(t, "localhost:9602", cfg.Client.Address())
	require.Equal(t, 500*time.Millisecond, cfg.Client.ReadTimeout.Duration)
	require.Equal(t, "127.0.0.1:9100", cfg.Metrics.Address)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "client:\n  dial_timeout: soon\n")

	_, err := Load(path)
	require.ErrorContains(t, err, `invalid duration "soon"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"backlog", func(c *Config) { c.Server.Backlog = 0 }, "server.backlog"},
		{"buffer", func(c *Config) { c.Client.BufferSize = 0 }, "client.buffer_size"},
		{"message", func(c *Config) { c.Server.BufferSize = 4 }, "server.message"},
		{"timeout", func(c *Config) { c.Client.DialTimeout.Duration = -time.Second }, "negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestValidateMessageTooLarge(t *testing.T) {
	cfg := Default()
	cfg.Server.BufferSize = 4
	require.ErrorIs(t, cfg.Validate(), protocol.ErrMessageTooLarge)
}

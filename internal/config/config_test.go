package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
engine:
  workers: 8
simulator:
  enabled: true
  symbols: [IGG, ACME]
  interval: 500ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, 8, cfg.Engine.Workers)
	// untouched keys keep their defaults
	require.Equal(t, 500, cfg.Engine.QueueSize)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, []string{"IGG", "ACME"}, cfg.Simulator.Symbols)
	require.Equal(t, 500*time.Millisecond, cfg.Simulator.Interval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"zero workers":   "engine:\n  workers: -1\n",
		"bad log level":  "logging:\n  level: loud\n",
		"empty addr":     "server:\n  addr: \"\"\n",
		"sim no symbols": "simulator:\n  enabled: true\n  symbols: []\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ORDERHANDLER_PG_DSN", "postgres://env/db")
	t.Setenv("ORDERHANDLER_REDIS_ADDR", "env-redis:6379")
	t.Setenv("ORDERHANDLER_REDIS_PASSWORD", "hunter2")

	cfg, err := Load(writeConfig(t, `
postgres:
  dsn: postgres://file/db
redis:
  addr: file-redis:6379
`))
	require.NoError(t, err)
	require.Equal(t, "postgres://env/db", cfg.Postgres.DSN)
	require.Equal(t, "env-redis:6379", cfg.Redis.Addr)
	require.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

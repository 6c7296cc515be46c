package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pafou/PLANDECH-back/internal/storage/sqldb"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Port)
	assert.Equal(t, ":5001", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "auto", cfg.Database.TeamColumn)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)

	opts := cfg.Database.StoreOptions()
	assert.Equal(t, sqldb.SQLite, opts.Dialect)
	assert.Equal(t, "./data/workload.db", opts.DSN)
	assert.Equal(t, sqldb.TeamColumnAuto, opts.TeamColumn)
}

func TestLoadPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://planner@localhost:5432/plandech")
	t.Setenv("WORKLOAD_TEAM_COLUMN", "off")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	opts := cfg.Database.StoreOptions()
	assert.Equal(t, sqldb.Postgres, opts.Dialect)
	assert.Equal(t, "postgres://planner@localhost:5432/plandech", opts.DSN)
	assert.Equal(t, sqldb.TeamColumnOff, opts.TeamColumn)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":       {"DB_DRIVER": "mysql"},
		"postgres without url": {"DB_DRIVER": "postgres"},
		"bad team mode":        {"WORKLOAD_TEAM_COLUMN": "maybe"},
		"bad port":             {"PORT": "70000"},
		"bad log format":       {"LOG_FORMAT": "xml"},
		"unparsable duration":  {"SHUTDOWN_TIMEOUT": "soon"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("PLANDECH_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("PLANDECH_TEST_VAR", "")
	os.Unsetenv("PLANDECH_TEST_VAR")

	n, err := LoadEnv(file, filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "from-file", os.Getenv("PLANDECH_TEST_VAR"))

	n, err = LoadEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DbDriverBolt, cfg.Dialect)
	assert.Equal(t, 7, cfg.InvitationExpiryDays)
	assert.Equal(t, "@hourly", cfg.InvitationSweepSchedule)
	assert.False(t, cfg.Redis.IsEnabled())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{
		"dialect": "sqlite",
		"sqlite": {"host": "/tmp/taskflow.sqlite"},
		"port": "3000",
		"public_url": "https://tasks.example.com/",
		"invitation_expiry_days": 3
	}`), 0o600)
	require.NoError(t, err)

	t.Setenv("TASKFLOW_INVITATION_EXPIRY_DAYS", "14")
	t.Setenv("TASKFLOW_REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DbDriverSQLite, cfg.Dialect)
	assert.Equal(t, ":3000", cfg.Port)
	assert.Equal(t, 14, cfg.InvitationExpiryDays)
	assert.True(t, cfg.Redis.IsEnabled())
	assert.Equal(t, "taskflow:events", cfg.Redis.Channel)

	dbConfig, err := cfg.GetDBConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/taskflow.sqlite", dbConfig.Hostname)

	assert.Equal(t, "https://tasks.example.com/invitations/accept?token=abc", cfg.InvitationURL("abc"))
}

func TestLoadConfig_RejectsUnknownDialect(t *testing.T) {
	t.Setenv("TASKFLOW_DB_DIALECT", "oracle")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_RequiresHostForDialect(t *testing.T) {
	t.Setenv("TASKFLOW_DB_DIALECT", "postgres")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
telegram:
  token: "test-token"
  admin_user_ids: [123456]
unsplash:
  access_key: "test-access-key"
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Logger.JSON)
	assert.Equal(t, "muralbot.db", cfg.Database.Path)

	assert.Equal(t, "https://api.unsplash.com", cfg.Unsplash.BaseURL)
	assert.Equal(t, "portrait", cfg.Unsplash.Orientation)
	assert.Equal(t, 10*time.Second, cfg.Unsplash.Timeout)
	assert.Equal(t, 45, cfg.Unsplash.RequestsPerHour)

	assert.Equal(t, 12*time.Hour, cfg.Policy.CooldownWindow)

	assert.Equal(t, "Asia/Nicosia", cfg.Scheduler.Timezone)
	assert.Equal(t, "0 11 * * *", cfg.Scheduler.Tasks["distribution"].Schedule)
	assert.True(t, cfg.Scheduler.Tasks["distribution"].Enabled)
	assert.Equal(t, "0 22 * * *", cfg.Scheduler.Tasks["usage_prompt"].Schedule)
	assert.Equal(t, "0 23 * * *", cfg.Scheduler.Tasks["summary"].Schedule)
	assert.Equal(t, "0 1 * * *", cfg.Scheduler.Tasks["prefetch"].Schedule)

	assert.NotEmpty(t, cfg.Messages.Welcome)
	assert.NotEmpty(t, cfg.Messages.Cooldown)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, `
logger:
  level: "debug"
  json: true
telegram:
  token: "test-token"
  admin_user_ids: [1, 2]
database:
  path: "/tmp/bot.db"
unsplash:
  access_key: "test-access-key"
  requests_per_hour: 30
policy:
  cooldown_window: "6h"
scheduler:
  timezone: "Europe/Lisbon"
  tasks:
    distribution:
      enabled: false
      schedule: "30 9 * * *"
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, []int64{1, 2}, cfg.Telegram.AdminUserIDs)
	assert.Equal(t, "/tmp/bot.db", cfg.Database.Path)
	assert.Equal(t, 30, cfg.Unsplash.RequestsPerHour)
	assert.Equal(t, 6*time.Hour, cfg.Policy.CooldownWindow)
	assert.Equal(t, "Europe/Lisbon", cfg.Scheduler.Timezone)
	assert.False(t, cfg.Scheduler.Tasks["distribution"].Enabled)
	assert.Equal(t, "30 9 * * *", cfg.Scheduler.Tasks["distribution"].Schedule)
}

func TestLoadConfigAllowsEmptyAdminList(t *testing.T) {
	// Only the bot token and the Unsplash access key are required; with no
	// admin ids the daily summary simply has no recipients.
	cfg, err := LoadConfig(writeConfigFile(t, `
telegram:
  token: "test-token"
unsplash:
  access_key: "test-access-key"
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Telegram.AdminUserIDs)
}

func TestLoadConfigMissingToken(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, `
telegram:
  admin_user_ids: [123456]
unsplash:
  access_key: "test-access-key"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadConfigMissingAccessKey(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, `
telegram:
  token: "test-token"
  admin_user_ids: [123456]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, minimalConfig+`
logger:
  level: "verbose"
`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfigFile(t, `
telegram:
  token: "test-token"
  admin_user_ids: [123456]
unsplash:
  access_key: "test-access-key"
  requests_per_hour: 100
`))
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, minimalConfig+`
scheduler:
  timezone: "Mars/Olympus"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CLIENT_ID", "client")
	t.Setenv("GUILD_ID", "guild")
}

func TestLoadMissingCredentialsFatal(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("GUILD_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4hats", cfg.Brand.Name)
	assert.Equal(t, 0x111827, cfg.Brand.ThemeColor)
	assert.Equal(t, "ticketes", cfg.Tickets.HelpChannelName)
	assert.False(t, cfg.Tickets.ArchiveMode)
	assert.False(t, cfg.Tickets.AllowMultiplePerDomain)
	assert.Equal(t, "tickets.json", cfg.Tickets.PersistFile)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HELP_CHANNEL_NAME", "SUPPORT")
	t.Setenv("ARCHIVE_MODE", "true")
	t.Setenv("THEME_COLOR", "0x22c55e")
	t.Setenv("ROLE_PWN_ID", "role-123")
	t.Setenv("ROLE_REVERSE_ENGINEERING_ID", "role-456")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "support", cfg.Tickets.HelpChannelName, "help channel name is lowercased")
	assert.True(t, cfg.Tickets.ArchiveMode)
	assert.Equal(t, 0x22c55e, cfg.Brand.ThemeColor)
	assert.Equal(t, "role-123", cfg.Tickets.RoleMap["PWN"])
	assert.Equal(t, "role-456", cfg.Tickets.RoleMap["Reverse engineering"])
}

func TestRoleEnvKey(t *testing.T) {
	assert.Equal(t, "ROLE_WEB_ID", RoleEnvKey("Web"))
	assert.Equal(t, "ROLE_REVERSE_ENGINEERING_ID", RoleEnvKey("Reverse engineering"))
}

func TestParseThemeColorInvalidFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("THEME_COLOR", "not-a-color")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultThemeColor, cfg.Brand.ThemeColor)
}

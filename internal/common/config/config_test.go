package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10), cfg.Points.PerDownload)
	assert.Equal(t, "best", cfg.Downloads.DefaultQuality)
	assert.Equal(t, 50, cfg.Downloads.MaxFileSizeMB)
	assert.Equal(t, 5*time.Second, cfg.Analytics.Timeout)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingWebhookSecret(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_SECRET", "")
	t.Setenv("WEBHOOK_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "WEBHOOK_SECRET")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"bad quality", func(c *Config) { c.Downloads.DefaultQuality = "ultra" }, false},
		{"bad timezone", func(c *Config) { c.Points.Timezone = "Mars/Olympus" }, false},
		{"zero file size", func(c *Config) { c.Downloads.MaxFileSizeMB = 0 }, false},
		{"webhook without secret", func(c *Config) {
			c.Telegram.WebhookURL = "https://bot.example.com/webhook"
			c.Telegram.WebhookSecret = ""
		}, false},
		{"no secret and no webhook url", func(c *Config) { c.Telegram.WebhookSecret = "" }, false},
		{"negative download points", func(c *Config) { c.Points.PerDownload = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Downloads.DefaultQuality = "best"
			cfg.Downloads.MaxFileSizeMB = 50
			cfg.Points.Timezone = "UTC"
			cfg.Analytics.Timeout = time.Second
			cfg.Telegram.WebhookSecret = "s3cret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAdminIDs(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.AdminIDs = []string{"42", " 7 ", "nope"}

	assert.Equal(t, []int64{42, 7}, cfg.AdminIDs())
}

func TestIsProduction(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction())

	t.Setenv("ENV", "prod")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

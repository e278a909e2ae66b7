// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "matchscrape", cfg.Logger().ServiceName)
	assert.Equal(t, []string{"1457931980", "254577873"}, cfg.Scraper().Players)
	assert.Equal(t, "https://www.dotabuff.com/players/{player_id}/matches?page={page}", cfg.Scraper().URLTemplate)
	assert.Equal(t, "table.sortable tbody tr", cfg.Scraper().RowSelector)
	assert.Equal(t, 45*time.Second, cfg.Scraper().ReadyTimeout)
	assert.Equal(t, 2*time.Second, cfg.Scraper().PageSettle)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scraper().PagePause)

	assert.Equal(t, EngineChrome, cfg.Browser().Engine)
	assert.True(t, cfg.Browser().Headless)
	assert.True(t, cfg.Browser().HideAutomation)
	assert.Equal(t, ViewportConfig{Width: 1920, Height: 1080}, cfg.Browser().Viewport)

	assert.Equal(t, "match_history.xlsx", cfg.Output().Path)
	assert.Equal(t, FormatXLSX, cfg.Output().Format)
	assert.Empty(t, cfg.Database().URL)

	require.NoError(t, cfg.Validate(), "defaults must always validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"no players", func(c *Config) { c.ScraperCfg.Players = nil }, "at least one player id"},
		{"blank player", func(c *Config) { c.ScraperCfg.Players = []string{"1", " "} }, "players[1] is empty"},
		{"template without page", func(c *Config) { c.ScraperCfg.URLTemplate = "https://x/players/{player_id}" }, "url_template must contain"},
		{"template without player", func(c *Config) { c.ScraperCfg.URLTemplate = "https://x/?page={page}" }, "url_template must contain"},
		{"empty selector", func(c *Config) { c.ScraperCfg.RowSelector = "" }, "row_selector is required"},
		{"zero timeout", func(c *Config) { c.ScraperCfg.ReadyTimeout = 0 }, "ready_timeout must be a positive duration"},
		{"negative pause", func(c *Config) { c.ScraperCfg.PagePause = -time.Second }, "must not be negative"},
		{"unknown engine", func(c *Config) { c.BrowserCfg.Engine = "firefox" }, `engine "firefox"`},
		{"bad viewport", func(c *Config) { c.BrowserCfg.Viewport.Width = 0 }, "viewport width and height"},
		{"unknown format", func(c *Config) { c.OutputCfg.Format = "ods" }, `output.format "ods"`},
		{"empty output path", func(c *Config) { c.OutputCfg.Path = "" }, "output.path is required"},
		{"negative network timeout", func(c *Config) { c.NetworkCfg.Timeout = -1 }, "network.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()
	var iface Interface = cfg

	iface.SetScraperPlayers([]string{"42"})
	iface.SetOutputPath("out.csv")
	iface.SetOutputFormat(FormatCSV)
	iface.SetBrowserEngine(EngineStatic)
	iface.SetBrowserHeadless(false)

	assert.Equal(t, []string{"42"}, iface.Scraper().Players)
	assert.Equal(t, "out.csv", iface.Output().Path)
	assert.Equal(t, FormatCSV, iface.Output().Format)
	assert.Equal(t, EngineStatic, iface.Browser().Engine)
	assert.False(t, iface.Browser().Headless)
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("scraper.ready_timeout", "0s")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "ready_timeout must be a positive duration")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		yamlConfig := []byte(`
database:
  url: "postgres://configfile/db"
`)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		testDBURL := "postgres://envvar/db"
		t.Setenv("MATCHSCRAPE_DATABASE_URL", testDBURL)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, testDBURL, cfg.Database().URL)
	})
}

// -- Struct and Mapping Tests --

func TestConfigStructureMapping(t *testing.T) {
	yamlInput := `
logger:
  level: debug
  log_file: /var/log/matchscrape.log
browser:
  engine: static
  args: ["--lang=en-US", "--mute-audio"]
network:
  timeout: 5s
  headers:
    Accept-Language: en-US
scraper:
  players: ["111", "222", "333"]
  page_pause: 250ms
output:
  path: history.csv
  format: csv
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yamlInput)))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "/var/log/matchscrape.log", cfg.Logger().LogFile)
	assert.Equal(t, EngineStatic, cfg.Browser().Engine)
	assert.Equal(t, []string{"--lang=en-US", "--mute-audio"}, cfg.Browser().Args)
	assert.Equal(t, 5*time.Second, cfg.Network().Timeout)
	assert.Equal(t, "en-US", cfg.Network().Headers["accept-language"], "viper lower-cases map keys")
	assert.Equal(t, []string{"111", "222", "333"}, cfg.Scraper().Players)
	assert.Equal(t, 250*time.Millisecond, cfg.Scraper().PagePause)
	// Untouched keys keep their defaults.
	assert.Equal(t, 45*time.Second, cfg.Scraper().ReadyTimeout)
	assert.Equal(t, "history.csv", cfg.Output().Path)
	assert.Equal(t, FormatCSV, cfg.Output().Format)
	assert.NoError(t, cfg.Validate())
}

// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Database() DatabaseConfig
	Browser() BrowserConfig
	Network() NetworkConfig
	Scraper() ScraperConfig
	Output() OutputConfig

	// Setters used by CLI flag overrides.
	SetScraperPlayers(ids []string)
	SetOutputPath(path string)
	SetOutputFormat(format string)
	SetBrowserEngine(engine string)
	SetBrowserHeadless(b bool)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	DatabaseCfg DatabaseConfig `mapstructure:"database" yaml:"database"`
	BrowserCfg  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	NetworkCfg  NetworkConfig  `mapstructure:"network" yaml:"network"`
	ScraperCfg  ScraperConfig  `mapstructure:"scraper" yaml:"scraper"`
	OutputCfg   OutputConfig   `mapstructure:"output" yaml:"output"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Database() DatabaseConfig { return c.DatabaseCfg }
func (c *Config) Browser() BrowserConfig   { return c.BrowserCfg }
func (c *Config) Network() NetworkConfig   { return c.NetworkCfg }
func (c *Config) Scraper() ScraperConfig   { return c.ScraperCfg }
func (c *Config) Output() OutputConfig     { return c.OutputCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetScraperPlayers(ids []string) { c.ScraperCfg.Players = ids }
func (c *Config) SetOutputPath(path string)      { c.OutputCfg.Path = path }
func (c *Config) SetOutputFormat(format string)  { c.OutputCfg.Format = format }
func (c *Config) SetBrowserEngine(engine string) { c.BrowserCfg.Engine = engine }
func (c *Config) SetBrowserHeadless(b bool)      { c.BrowserCfg.Headless = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names used for each log level on the console.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DatabaseConfig holds the optional Postgres sink. An empty URL disables it.
type DatabaseConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Table string `mapstructure:"table" yaml:"table"`
}

// Supported browser engines.
const (
	EngineChrome = "chrome"
	EngineStatic = "static"
)

// ViewportConfig is the fixed window size of the browser.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// BrowserConfig holds settings for the browser session.
type BrowserConfig struct {
	Engine          string         `mapstructure:"engine" yaml:"engine"`
	Headless        bool           `mapstructure:"headless" yaml:"headless"`
	HideAutomation  bool           `mapstructure:"hide_automation" yaml:"hide_automation"`
	NoSandbox       bool           `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	DisableCache    bool           `mapstructure:"disable_cache" yaml:"disable_cache"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	ExecPath        string         `mapstructure:"exec_path" yaml:"exec_path"`
	UserAgent       string         `mapstructure:"user_agent" yaml:"user_agent"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Viewport        ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
}

// NetworkConfig tunes the HTTP behavior of the static engine.
type NetworkConfig struct {
	// Timeout bounds a single page fetch. Zero means no timeout.
	Timeout         time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	Headers         map[string]string `mapstructure:"headers" yaml:"headers"`
	IgnoreTLSErrors bool              `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
}

// ScraperConfig drives the pager.
type ScraperConfig struct {
	// Players is the ordered list of player identifiers. Position i yields "Account i+1".
	Players     []string `mapstructure:"players" yaml:"players"`
	URLTemplate string   `mapstructure:"url_template" yaml:"url_template"`
	RowSelector string   `mapstructure:"row_selector" yaml:"row_selector"`
	// ReadyTimeout bounds the readiness wait on the first page only.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout" yaml:"ready_timeout"`
	// PageSettle is the unconditional pause after navigating to pages 2 and up.
	PageSettle time.Duration `mapstructure:"page_settle" yaml:"page_settle"`
	// PagePause is the pacing delay after every non-empty page.
	PagePause time.Duration `mapstructure:"page_pause" yaml:"page_pause"`
}

// Template placeholders substituted by the pager.
const (
	PlaceholderPlayerID = "{player_id}"
	PlaceholderPage     = "{page}"
)

// Supported output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// OutputConfig controls where the collected records are written.
type OutputConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Format string `mapstructure:"format" yaml:"format"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
// With no config file, env var or flag the program scrapes this fixed setup.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "matchscrape")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "magenta")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Database --
	v.SetDefault("database.url", "")
	v.SetDefault("database.table", "match_records")

	// -- Browser --
	v.SetDefault("browser.engine", EngineChrome)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.hide_automation", true)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.disable_cache", false)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.viewport.width", 1920)
	v.SetDefault("browser.viewport.height", 1080)

	// -- Network --
	v.SetDefault("network.timeout", "0s")
	v.SetDefault("network.ignore_tls_errors", false)

	// -- Scraper --
	v.SetDefault("scraper.players", []string{"1457931980", "254577873"})
	v.SetDefault("scraper.url_template", "https://www.dotabuff.com/players/{player_id}/matches?page={page}")
	v.SetDefault("scraper.row_selector", "table.sortable tbody tr")
	v.SetDefault("scraper.ready_timeout", "45s")
	v.SetDefault("scraper.page_settle", "2s")
	v.SetDefault("scraper.page_pause", "1500ms")

	// -- Output --
	v.SetDefault("output.path", "match_history.xlsx")
	v.SetDefault("output.format", FormatXLSX)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	v.BindEnv("database.url", "MATCHSCRAPE_DATABASE_URL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.ScraperCfg.Validate(); err != nil {
		return fmt.Errorf("scraper configuration invalid: %w", err)
	}
	if err := c.BrowserCfg.Validate(); err != nil {
		return fmt.Errorf("browser configuration invalid: %w", err)
	}
	switch c.OutputCfg.Format {
	case FormatXLSX, FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("output.format %q is not one of xlsx, csv, json", c.OutputCfg.Format)
	}
	if c.OutputCfg.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if c.NetworkCfg.Timeout < 0 {
		return fmt.Errorf("network.timeout must not be negative")
	}
	return nil
}

// Validate checks the scraper settings.
func (s *ScraperConfig) Validate() error {
	if len(s.Players) == 0 {
		return fmt.Errorf("players must contain at least one player id")
	}
	for i, id := range s.Players {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("players[%d] is empty", i)
		}
	}
	if !strings.Contains(s.URLTemplate, PlaceholderPlayerID) || !strings.Contains(s.URLTemplate, PlaceholderPage) {
		return fmt.Errorf("url_template must contain %s and %s", PlaceholderPlayerID, PlaceholderPage)
	}
	if s.RowSelector == "" {
		return fmt.Errorf("row_selector is required")
	}
	if s.ReadyTimeout <= 0 {
		return fmt.Errorf("ready_timeout must be a positive duration")
	}
	if s.PageSettle < 0 || s.PagePause < 0 {
		return fmt.Errorf("page_settle and page_pause must not be negative")
	}
	return nil
}

// Validate checks the browser settings.
func (b *BrowserConfig) Validate() error {
	switch b.Engine {
	case EngineChrome, EngineStatic:
	default:
		return fmt.Errorf("engine %q is not one of chrome, static", b.Engine)
	}
	if b.Viewport.Width <= 0 || b.Viewport.Height <= 0 {
		return fmt.Errorf("viewport width and height must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/pders01/ntsearch/internal/validation"
)

const appName = "ntsearch"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
	Keys    KeyConfig     `mapstructure:"keys"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	AllowLocal bool          `mapstructure:"allow_local"`
}

type SearchConfig struct {
	PageSize     int `mapstructure:"page_size"`
	MaxSize      int `mapstructure:"max_size"`
	SuggestLimit int `mapstructure:"suggest_limit"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
	// Opener is the command used to open links; empty picks a platform default.
	Opener string `mapstructure:"opener"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Submit string `mapstructure:"submit"`
	Recall string `mapstructure:"recall"`
	Quit   string `mapstructure:"quit"`
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://neurotrends.herokuapp.com/api/",
			Timeout:    15 * time.Second,
			UserAgent:  "ntsearch/1.0 (https://github.com/pders01/ntsearch)",
			AllowLocal: true,
		},
		Search: SearchConfig{
			PageSize:     10,
			MaxSize:      10,
			SuggestLimit: 5,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(xdg.DataHome, appName, "history.db"),
			Limit:   50,
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(xdg.StateHome, appName, appName+".log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#EF4444",
				Success:   "#10B981",
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Submit: "s",
				Recall: "p",
				Quit:   "q",
			},
		},
	}
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.allow_local", cfg.API.AllowLocal)

	v.SetDefault("search.page_size", cfg.Search.PageSize)
	v.SetDefault("search.max_size", cfg.Search.MaxSize)
	v.SetDefault("search.suggest_limit", cfg.Search.SuggestLimit)

	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("history.limit", cfg.History.Limit)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.opener", cfg.UI.Opener)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.submit", cfg.Keys.Bindings.Submit)
	v.SetDefault("keys.bindings.recall", cfg.Keys.Bindings.Recall)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
}

// Load reads configuration from configPath, or from the default locations
// when configPath is empty. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NTSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate normalizes the API URL and file paths and checks numeric bounds.
func (c *Config) Validate() error {
	validator := validation.NewAPIURLValidator()
	if c.API.AllowLocal {
		validator = validation.NewPermissiveAPIURLValidator()
	}
	baseURL, err := validator.ValidateAndNormalize(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	c.API.BaseURL = baseURL

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > 100 {
		return fmt.Errorf("search.page_size must be between 1 and 100, got %d", c.Search.PageSize)
	}
	if c.Search.MaxSize < 1 {
		return fmt.Errorf("search.max_size must be at least 1, got %d", c.Search.MaxSize)
	}
	if c.History.Limit < 1 {
		c.History.Limit = defaultConfig().History.Limit
	}

	return expandPaths(c)
}

// expandPaths expands ~ and converts file paths to absolute paths
func expandPaths(cfg *Config) error {
	paths := validation.NewFilePathValidator()
	if cfg.History.Path != "" {
		p, err := paths.ValidateAndSanitize(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("invalid history.path: %w", err)
		}
		cfg.History.Path = p
	}
	if cfg.Log.Path != "" {
		p, err := paths.ValidateAndSanitize(cfg.Log.Path)
		if err != nil {
			return fmt.Errorf("invalid log.path: %w", err)
		}
		cfg.Log.Path = p
	}
	return nil
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":    config.API.BaseURL,
		"timeout":     config.API.Timeout.String(),
		"user_agent":  config.API.UserAgent,
		"allow_local": config.API.AllowLocal,
	}

	searchCfg := map[string]interface{}{
		"page_size":     config.Search.PageSize,
		"max_size":      config.Search.MaxSize,
		"suggest_limit": config.Search.SuggestLimit,
	}

	historyCfg := map[string]interface{}{
		"enabled": config.History.Enabled,
		"path":    config.History.Path,
		"limit":   config.History.Limit,
	}

	logCfg := map[string]interface{}{
		"level": config.Log.Level,
		"path":  config.Log.Path,
	}

	colors := config.UI.Colors
	uiCfg := map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   colors.Primary,
			"secondary": colors.Secondary,
			"accent":    colors.Accent,
			"text":      colors.Text,
			"muted":     colors.Muted,
			"error":     colors.Error,
			"success":   colors.Success,
		},
		"opener": config.UI.Opener,
	}

	keysCfg := map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"submit": config.Keys.Bindings.Submit,
			"recall": config.Keys.Bindings.Recall,
			"quit":   config.Keys.Bindings.Quit,
		},
	}

	v.Set("api", apiCfg)
	v.Set("search", searchCfg)
	v.Set("history", historyCfg)
	v.Set("log", logCfg)
	v.Set("ui", uiCfg)
	v.Set("keys", keysCfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

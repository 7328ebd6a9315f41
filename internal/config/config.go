package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/pders01/srch/internal/dispatch"
	"github.com/pders01/srch/internal/launch"
)

type Config struct {
	Service ServiceConfig `mapstructure:"service" toml:"service"`
	Search  SearchConfig  `mapstructure:"search" toml:"search"`
	History HistoryConfig `mapstructure:"history" toml:"history"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
	Keys    KeyConfig     `mapstructure:"keys" toml:"keys"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

type ServiceConfig struct {
	BaseURL      string        `mapstructure:"base_url" toml:"base_url" validate:"required"`
	SearchPath   string        `mapstructure:"search_path" toml:"search_path" validate:"required,startswith=/"`
	HealthPath   string        `mapstructure:"health_path" toml:"health_path" validate:"required,startswith=/"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout" toml:"http_timeout" validate:"gt=0"`
	UserAgent    string        `mapstructure:"user_agent" toml:"user_agent"`
	AllowPrivate bool          `mapstructure:"allow_private" toml:"allow_private"`
	Opener       string        `mapstructure:"opener" toml:"opener"`
}

type SearchConfig struct {
	MaxArticles   int     `mapstructure:"max_articles" toml:"max_articles" validate:"min=5,max=50"`
	ChartsEnabled bool    `mapstructure:"charts_enabled" toml:"charts_enabled"`
	TimeRange     string  `mapstructure:"time_range" toml:"time_range" validate:"omitempty,oneof=1h 6h 12h 24h 48h 7d 30d"`
	RateLimit     float64 `mapstructure:"rate_limit" toml:"rate_limit" validate:"gte=0"`
	Burst         int     `mapstructure:"burst" toml:"burst" validate:"gte=1"`

	IncludeSources []string `mapstructure:"include_sources" toml:"include_sources" validate:"dive,required"`
	ExcludeSources []string `mapstructure:"exclude_sources" toml:"exclude_sources" validate:"dive,required"`
}

type HistoryConfig struct {
	Path  string `mapstructure:"path" toml:"path"`
	Limit int    `mapstructure:"limit" toml:"limit" validate:"gte=0"`
}

type UIConfig struct {
	Colors UIColors    `mapstructure:"colors" toml:"colors"`
	Chart  ChartConfig `mapstructure:"chart" toml:"chart"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary" toml:"primary" validate:"omitempty,hexcolor"`
	Secondary string `mapstructure:"secondary" toml:"secondary" validate:"omitempty,hexcolor"`
	Accent    string `mapstructure:"accent" toml:"accent" validate:"omitempty,hexcolor"`
	Text      string `mapstructure:"text" toml:"text" validate:"omitempty,hexcolor"`
	Muted     string `mapstructure:"muted" toml:"muted" validate:"omitempty,hexcolor"`
	Error     string `mapstructure:"error" toml:"error" validate:"omitempty,hexcolor"`
	Success   string `mapstructure:"success" toml:"success" validate:"omitempty,hexcolor"`
}

type ChartConfig struct {
	MaxWidth int `mapstructure:"max_width" toml:"max_width" validate:"gte=20"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier" toml:"modifier" validate:"oneof=ctrl alt"`
	Bindings KeyBindings `mapstructure:"bindings" toml:"bindings"`
}

type KeyBindings struct {
	Quit   string `mapstructure:"quit" toml:"quit" validate:"required"`
	Health string `mapstructure:"health" toml:"health" validate:"required"`
	Open   string `mapstructure:"open" toml:"open" validate:"required"`
	Help   string `mapstructure:"help" toml:"help" validate:"required"`
	Prev   string `mapstructure:"prev" toml:"prev" validate:"required"`
	Next   string `mapstructure:"next" toml:"next" validate:"required"`
	Focus  string `mapstructure:"focus" toml:"focus" validate:"required"`
	Back   string `mapstructure:"back" toml:"back" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level" validate:"omitempty,oneof=debug info warn warning error off DEBUG INFO WARN WARNING ERROR OFF"`
	Path  string `mapstructure:"path" toml:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Service: ServiceConfig{
			BaseURL:      "http://localhost:8000",
			SearchPath:   "/api/v1/search",
			HealthPath:   "/health",
			HTTPTimeout:  30 * time.Second,
			UserAgent:    "srch/1.0 (https://github.com/pders01/srch)",
			AllowPrivate: true,
			Opener:       launch.DefaultCommand(runtime.GOOS),
		},
		Search: SearchConfig{
			MaxArticles:   20,
			ChartsEnabled: true,
			TimeRange:     "24h",
			RateLimit:     2,
			Burst:         3,
		},
		History: HistoryConfig{
			Path:  filepath.Join(homeDir, ".srch", "history.db"),
			Limit: 200,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Chart: ChartConfig{
				MaxWidth: 100,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:   "q",
				Health: "t",
				Open:   "o",
				Help:   "g",
				Prev:   "p",
				Next:   "n",
				Focus:  "tab",
				Back:   "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(homeDir, ".srch", "srch.log"),
		},
	}
}

// Flow returns the submission parameters for the dispatcher.
func (c *Config) Flow() dispatch.Flow {
	return dispatch.Flow{
		Endpoint:       strings.TrimRight(c.Service.BaseURL, "/") + c.Service.SearchPath,
		MaxArticles:    c.Search.MaxArticles,
		ChartsEnabled:  c.Search.ChartsEnabled,
		TimeRange:      c.Search.TimeRange,
		IncludeSources: c.Search.IncludeSources,
		ExcludeSources: c.Search.ExcludeSources,
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	// Defaults are staged as a TOML document so that a partial config
	// file overrides individual keys rather than whole sections.
	defaults, err := Render(defaultConfig())
	if err != nil {
		return nil, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("staging defaults: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "srch")

		v.SetConfigName("config")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SRCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

// Render returns cfg as TOML, with durations written as strings.
func Render(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(toFile(cfg))
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

func toFile(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"service": map[string]interface{}{
			"base_url":      cfg.Service.BaseURL,
			"search_path":   cfg.Service.SearchPath,
			"health_path":   cfg.Service.HealthPath,
			"http_timeout":  cfg.Service.HTTPTimeout.String(),
			"user_agent":    cfg.Service.UserAgent,
			"allow_private": cfg.Service.AllowPrivate,
			"opener":        cfg.Service.Opener,
		},
		"search":  cfg.Search,
		"history": cfg.History,
		"ui":      cfg.UI,
		"keys":    cfg.Keys,
		"log":     cfg.Log,
	}
}

func Save(config *Config, path string) error {
	data, err := Render(config)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("staging config: %w", err)
	}
	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

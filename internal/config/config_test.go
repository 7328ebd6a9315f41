package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/srch/internal/launch"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Service.SearchPath != "/api/v1/search" {
		t.Errorf("Service.SearchPath = %s, want /api/v1/search", cfg.Service.SearchPath)
	}
	if cfg.Service.HealthPath != "/health" {
		t.Errorf("Service.HealthPath = %s, want /health", cfg.Service.HealthPath)
	}
	if cfg.Service.HTTPTimeout != 30*time.Second {
		t.Errorf("Service.HTTPTimeout = %v, want 30s", cfg.Service.HTTPTimeout)
	}
	if !cfg.Service.AllowPrivate {
		t.Error("Service.AllowPrivate should default to true")
	}
	if cfg.Service.Opener != launch.DefaultCommand(runtime.GOOS) {
		t.Errorf("Service.Opener = %s, want platform default", cfg.Service.Opener)
	}

	if cfg.Search.MaxArticles != 20 {
		t.Errorf("Search.MaxArticles = %d, want 20", cfg.Search.MaxArticles)
	}
	if !cfg.Search.ChartsEnabled {
		t.Error("Search.ChartsEnabled should default to true")
	}
	if cfg.Search.TimeRange != "24h" {
		t.Errorf("Search.TimeRange = %s, want 24h", cfg.Search.TimeRange)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want off", cfg.Log.Level)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[service]
base_url = "https://news.example.org"
http_timeout = "10s"

[search]
max_articles = 35
charts_enabled = false
include_sources = ["BBC", "Reuters"]

[keys]
modifier = "alt"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.BaseURL != "https://news.example.org" {
		t.Errorf("Service.BaseURL = %s", cfg.Service.BaseURL)
	}
	if cfg.Service.HTTPTimeout != 10*time.Second {
		t.Errorf("Service.HTTPTimeout = %v, want 10s", cfg.Service.HTTPTimeout)
	}
	if cfg.Service.SearchPath != "/api/v1/search" {
		t.Errorf("unset keys keep their defaults, got SearchPath %s", cfg.Service.SearchPath)
	}
	if cfg.Search.MaxArticles != 35 {
		t.Errorf("Search.MaxArticles = %d, want 35", cfg.Search.MaxArticles)
	}
	if cfg.Search.ChartsEnabled {
		t.Error("Search.ChartsEnabled should be false")
	}
	if cfg.Search.TimeRange != "24h" {
		t.Errorf("Search.TimeRange = %s, want default 24h", cfg.Search.TimeRange)
	}
	if len(cfg.Search.IncludeSources) != 2 || cfg.Search.IncludeSources[1] != "Reuters" {
		t.Errorf("Search.IncludeSources = %v", cfg.Search.IncludeSources)
	}
	if len(cfg.Search.ExcludeSources) != 0 {
		t.Errorf("Search.ExcludeSources = %v, want none", cfg.Search.ExcludeSources)
	}
	if cfg.Keys.Modifier != "alt" {
		t.Errorf("Keys.Modifier = %s, want alt", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want default q", cfg.Keys.Bindings.Quit)
	}
	if !filepath.IsAbs(cfg.History.Path) {
		t.Errorf("History.Path should be absolute, got %s", cfg.History.Path)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[service]\nbase_url = \"https://file.example.org\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SRCH_SERVICE_BASE_URL", "https://env.example.org")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.BaseURL != "https://env.example.org" {
		t.Errorf("Service.BaseURL = %s, want env value", cfg.Service.BaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"max articles too high", "[search]\nmax_articles = 80\n", "MaxArticles"},
		{"max articles too low", "[search]\nmax_articles = 2\n", "MaxArticles"},
		{"unknown time range", "[search]\ntime_range = \"2w\"\n", "TimeRange"},
		{"relative search path", "[service]\nsearch_path = \"api/v1/search\"\n", "SearchPath"},
		{"bad color", "[ui.colors]\nprimary = \"red\"\n", "Primary"},
		{"bad modifier", "[keys]\nmodifier = \"meta\"\n", "Modifier"},
		{"blank source", "[search]\ninclude_sources = [\"BBC\", \"\"]\n", "IncludeSources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name %s", err, tt.field)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %q", got)
	}
	if got := expandPath("~/x/history.db"); got != filepath.Join(home, "x", "history.db") {
		t.Errorf("expandPath(~/x/history.db) = %q", got)
	}
	if got := expandPath("rel/file"); !filepath.IsAbs(got) {
		t.Errorf("expandPath(rel/file) = %q, want absolute", got)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := defaultConfig()
	cfg.Service.BaseURL = "https://saved.example.org"
	cfg.Search.TimeRange = "7d"
	cfg.Service.HTTPTimeout = 45 * time.Second

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Service.BaseURL != "https://saved.example.org" {
		t.Errorf("BaseURL = %s", loaded.Service.BaseURL)
	}
	if loaded.Search.TimeRange != "7d" {
		t.Errorf("TimeRange = %s", loaded.Search.TimeRange)
	}
	if loaded.Service.HTTPTimeout != 45*time.Second {
		t.Errorf("HTTPTimeout = %v", loaded.Service.HTTPTimeout)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := GenerateDefaultConfig(path); err != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("generated config should load: %v", err)
	}
}

func TestRender(t *testing.T) {
	out, err := Render(defaultConfig())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var doc map[string]map[string]interface{}
	if err := toml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("rendered config is not TOML: %v", err)
	}
	if doc["service"]["http_timeout"] != "30s" {
		t.Errorf("http_timeout = %v, want \"30s\"", doc["service"]["http_timeout"])
	}
	if doc["search"]["max_articles"] != int64(20) {
		t.Errorf("max_articles = %v (%T), want 20", doc["search"]["max_articles"], doc["search"]["max_articles"])
	}
}

func TestFlow(t *testing.T) {
	cfg := TestConfig()
	cfg.Service.BaseURL = "https://news.example.org/app/"
	cfg.Search.MaxArticles = 10
	cfg.Search.ExcludeSources = []string{"tabloid"}

	flow := cfg.Flow()
	if flow.Endpoint != "https://news.example.org/app/api/v1/search" {
		t.Errorf("Endpoint = %s", flow.Endpoint)
	}
	if flow.MaxArticles != 10 || !flow.ChartsEnabled || flow.TimeRange != "24h" {
		t.Errorf("unexpected flow %+v", flow)
	}
	if len(flow.ExcludeSources) != 1 || flow.ExcludeSources[0] != "tabloid" || flow.IncludeSources != nil {
		t.Errorf("source filters not carried: %+v", flow)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	if cfg.History.Path != "" {
		t.Error("test config should not persist history")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("test config should validate: %v", err)
	}
}

package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Service.BaseURL = "http://127.0.0.1:8000"
	cfg.Service.HTTPTimeout = 5 * time.Second
	cfg.Service.UserAgent = "srch-test/1.0"
	cfg.Search.RateLimit = 0
	cfg.History.Path = ""
	cfg.Log.Level = "off"
	cfg.Log.Path = ""
	return cfg
}

package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://127.0.0.1:8000/api/",
			Timeout:    2 * time.Second,
			UserAgent:  "ntsearch-test/1.0",
			AllowLocal: true,
		},
		Search: SearchConfig{
			PageSize:     10,
			MaxSize:      5,
			SuggestLimit: 5,
		},
		History: HistoryConfig{
			Enabled: false,
			Limit:   10,
		},
		Log: LogConfig{
			Level: "off",
		},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
	}
}

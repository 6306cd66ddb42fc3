// Package config loads wenyan settings from defaults, an optional YAML
// file, a .env file and WENYAN_* environment variables, in that order.
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Explain ExplainConfig `yaml:"explain"`
	Speech  SpeechConfig  `yaml:"speech"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// APIConfig locates the reading backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ExplainConfig selects where explanations come from and how the panel
// words its busy, empty and failure states.
type ExplainConfig struct {
	// Strategy is "http" (the backend) or "llm" (a provider configured
	// through WENYAN_LLM_* variables).
	Strategy    string  `yaml:"strategy"`
	Pending     string  `yaml:"pending"`
	Empty       string  `yaml:"empty"`
	Failure     string  `yaml:"failure"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// SpeechConfig selects how tokens are pronounced.
type SpeechConfig struct {
	// Strategy is "device", "remote" or "off".
	Strategy string   `yaml:"strategy"`
	Voice    string   `yaml:"voice"`
	Command  []string `yaml:"command"`
	Player   []string `yaml:"player"`
}

// StoreConfig selects the durable store for the library.
type StoreConfig struct {
	// Backend is "sqlite" or "redis".
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// MetricsConfig enables the local diagnostics endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Explain: ExplainConfig{
			Strategy:    "http",
			Pending:     "思考中...",
			Empty:       "解析失敗",
			Failure:     "無法取得解釋",
			MaxTokens:   1024,
			Temperature: 0.3,
		},
		Speech: SpeechConfig{
			Strategy: "device",
			Voice:    "zh-CN-YunjianNeural",
		},
		Store: StoreConfig{
			Backend:   "sqlite",
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

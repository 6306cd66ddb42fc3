package llm

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects and configures the model behind the llm explain strategy.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter, ollama,
	// mock, or auto (first vendor whose standard API key is set).
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
	Retry      RetryConfig

	// Timeout bounds one explanation, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OllamaConfig struct {
	Host  string
	Model string
}

// RetryConfig controls RetryProvider. MaxAttempts of 0 or 1 disables
// retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig explains with a local Ollama model. A reader waits on
// every explanation, so failures are reported at once rather than retried.
func DefaultConfig() Config {
	return Config{
		Provider:   "ollama",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "qwen/qwen-2.5-72b-instruct"},
		Ollama:     OllamaConfig{Host: defaultOllamaHost, Model: defaultOllamaModel},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv reads WENYAN_LLM_* and vendor variables from the process
// environment.
func ConfigFromEnv() Config {
	return ConfigFromLookup(os.Getenv)
}

// ConfigFromLookup builds a Config from getenv over DefaultConfig.
func ConfigFromLookup(getenv func(string) string) Config {
	cfg := DefaultConfig()
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
			}
		}
	}

	set(&cfg.Provider, "WENYAN_LLM_PROVIDER")

	set(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY", "WENYAN_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "WENYAN_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY", "WENYAN_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "WENYAN_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "WENYAN_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY", "WENYAN_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "WENYAN_GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY", "WENYAN_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "WENYAN_OPENROUTER_MODEL")
	// OLLAMA_HOST is what the ollama CLI itself reads.
	set(&cfg.Ollama.Host, "OLLAMA_HOST", "WENYAN_OLLAMA_HOST")
	set(&cfg.Ollama.Model, "WENYAN_OLLAMA_MODEL")

	if n, err := strconv.Atoi(getenv("WENYAN_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if d, err := time.ParseDuration(getenv("WENYAN_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	if cfg.Provider == "auto" {
		cfg.Provider = discover(cfg)
	}
	return cfg
}

// discover picks the first vendor with a key, falling back to ollama.
func discover(cfg Config) string {
	switch {
	case cfg.Gemini.APIKey != "":
		return "gemini"
	case cfg.OpenAI.APIKey != "":
		return "openai"
	case cfg.Anthropic.APIKey != "":
		return "anthropic"
	case cfg.OpenRouter.APIKey != "":
		return "openrouter"
	default:
		return "ollama"
	}
}

// Validate reports missing settings for the selected provider.
func (c Config) Validate() error {
	var errs []error
	key := func(v, name string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s provider needs an API key (%s)", c.Provider, name))
		}
	}
	switch c.Provider {
	case "anthropic":
		key(c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	case "openai":
		key(c.OpenAI.APIKey, "OPENAI_API_KEY")
	case "gemini":
		key(c.Gemini.APIKey, "GEMINI_API_KEY")
	case "openrouter":
		key(c.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	case "ollama":
		if c.Ollama.Host == "" {
			errs = append(errs, errors.New("ollama provider needs a host (OLLAMA_HOST)"))
		}
	case "mock":
	default:
		errs = append(errs, fmt.Errorf("unknown LLM provider %q", c.Provider))
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("retry attempts must not be negative"))
	}
	return errors.Join(errs...)
}

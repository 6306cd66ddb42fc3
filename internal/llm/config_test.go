package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func lookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestConfigFromLookup_Defaults(t *testing.T) {
	cfg := ConfigFromLookup(lookup(nil))
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromLookup_Overrides(t *testing.T) {
	cfg := ConfigFromLookup(lookup(map[string]string{
		"WENYAN_LLM_PROVIDER":      "anthropic",
		"ANTHROPIC_API_KEY":        "vendor-key",
		"WENYAN_ANTHROPIC_API_KEY": "wenyan-key",
		"WENYAN_ANTHROPIC_MODEL":   "claude-sonnet",
		"OLLAMA_HOST":              "gpu-box:11434",
		"WENYAN_LLM_MAX_ATTEMPTS":  "3",
		"WENYAN_LLM_TIMEOUT":       "15s",
	}))
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "wenyan-key", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.Anthropic.Model)
	assert.Equal(t, "gpu-box:11434", cfg.Ollama.Host)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestConfigFromLookup_IgnoresBadNumbers(t *testing.T) {
	cfg := ConfigFromLookup(lookup(map[string]string{
		"WENYAN_LLM_MAX_ATTEMPTS": "many",
		"WENYAN_LLM_TIMEOUT":      "-1s",
	}))
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestConfigFromLookup_Auto(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"nothing set", nil, "ollama"},
		{"openrouter only", map[string]string{"OPENROUTER_API_KEY": "k"}, "openrouter"},
		{"anthropic beats openrouter", map[string]string{"ANTHROPIC_API_KEY": "k", "OPENROUTER_API_KEY": "k"}, "anthropic"},
		{"gemini first", map[string]string{"GEMINI_API_KEY": "k", "OPENAI_API_KEY": "k"}, "gemini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{"WENYAN_LLM_PROVIDER": "auto"}
			for k, v := range tt.env {
				env[k] = v
			}
			assert.Equal(t, tt.want, ConfigFromLookup(lookup(env)).Provider)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openai"
	assert.ErrorContains(t, cfg.Validate(), "OPENAI_API_KEY")

	cfg.OpenAI.APIKey = "sk"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "ollama"
	cfg.Ollama.Host = ""
	assert.ErrorContains(t, cfg.Validate(), "OLLAMA_HOST")

	cfg.Provider = "palm"
	cfg.Retry.MaxAttempts = -1
	err := cfg.Validate()
	assert.ErrorContains(t, err, `unknown LLM provider "palm"`)
	assert.ErrorContains(t, err, "negative")

	cfg = DefaultConfig()
	cfg.Provider = "mock"
	assert.NoError(t, cfg.Validate())
}

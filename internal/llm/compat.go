package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOllamaHost        = "http://localhost:11434"
	defaultOllamaModel       = "qwen2.5:7b"
)

var openaiModels = map[string]string{
	"gpt-mini": "gpt-4o-mini",
	"gpt":      "gpt-4o",
}

// CompatProvider speaks the OpenAI chat completions API. It serves OpenAI
// itself and the hosts that copy its API: OpenRouter and Ollama.
type CompatProvider struct {
	client *openai.Client
	model  string

	// legacyMaxTokens sends max_tokens instead of max_completion_tokens,
	// which compatible hosts do not all understand.
	legacyMaxTokens bool
}

func newCompat(apiKey, baseURL, model string, legacy bool) *CompatProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &CompatProvider{
		client:          openai.NewClientWithConfig(cfg),
		model:           model,
		legacyMaxTokens: legacy,
	}
}

// NewOpenAIProvider creates a provider for api.openai.com, or for another
// compatible host when cfg.BaseURL is set.
func NewOpenAIProvider(cfg OpenAIConfig) (*CompatProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newCompat(cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels), false), nil
}

// NewOpenRouterProvider creates a provider for OpenRouter. Model ids are
// OpenRouter's own ("vendor/model") and pass through unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*CompatProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openrouter model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newCompat(cfg.APIKey, baseURL, cfg.Model, true), nil
}

// NewOllamaProvider creates a provider for a local Ollama server through
// its /v1 endpoint. Ollama ignores the API key but the client sends one.
func NewOllamaProvider(cfg OllamaConfig) (*CompatProvider, error) {
	host := cfg.Host
	if host == "" {
		host = defaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return newCompat("ollama", strings.TrimRight(host, "/")+"/v1", model, true), nil
}

func (p *CompatProvider) ModelID() string { return p.model }

func (p *CompatProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	creq, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, compatError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &InvalidOutputError{Err: errors.New("response has no choices")}
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return finish(req, choice.Message.Content, usage, resp.Model, stop)
}

func (p *CompatProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	creq := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: float32(req.Temperature),
	}
	if p.legacyMaxTokens {
		creq.MaxTokens = req.MaxTokens
	} else {
		creq.MaxCompletionTokens = req.MaxTokens
	}

	if req.System != "" {
		creq.Messages = append(creq.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		creq.Messages = append(creq.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return creq, fmt.Errorf("schema %q: %w", req.Schema.Name, err)
		}
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}
	return creq, nil
}

func compatError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}
	return classifyStatus(0, err)
}

// resolveModel maps a short alias to a vendor model id. Unknown names are
// taken as model ids.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

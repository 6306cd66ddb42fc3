package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/llm"
)

// Purpose tags explanation calls in the LLM event log.
const Purpose = "explain"

const systemPrompt = `你是一位精通文言文與現代漢語的導師。`

// Schema is the structured output requested from the model.
var Schema = &llm.Schema{
	Name:        "token-explanation",
	Description: "Explanation of one word of a classical Chinese sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "本字在此句中的含義、現代漢語對應詞與語法用途，以繁體中文簡明作答",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

// LLMConfig tunes the direct LLM strategy.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns the settings used when none are configured.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{MaxTokens: 1024, Temperature: 0.3}
}

// LLMExplainer asks an llm.Provider directly, bypassing the backend.
type LLMExplainer struct {
	provider llm.Provider
	cfg      LLMConfig
}

// NewLLM creates an Explainer that talks to provider.
func NewLLM(provider llm.Provider, cfg LLMConfig) *LLMExplainer {
	return &LLMExplainer{provider: provider, cfg: cfg}
}

type llmOutput struct {
	Explanation string `json:"explanation"`
}

func (e *LLMExplainer) Explain(ctx context.Context, word, passage string) (string, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(word, passage)},
		},
		Schema:      Schema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return "", asBackendError(e.provider.ModelID(), err)
	}

	var out llmOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &backend.BadResponseError{Endpoint: "llm:" + e.provider.ModelID(), Err: err}
	}
	return out.Explanation, nil
}

// asBackendError files a provider failure under the backend error types so
// that backend.Describe gives the same short notices for both strategies.
func asBackendError(model string, err error) error {
	endpoint := "llm:" + model
	var (
		limited *llm.RateLimitError
		down    *llm.UnavailableError
	)
	switch {
	case errors.As(err, &limited):
		return &backend.BadResponseError{Endpoint: endpoint, Status: http.StatusTooManyRequests, Err: err}
	case errors.As(err, &down) && down.Status == 0:
		return &backend.NetworkError{Endpoint: endpoint, Err: err}
	case errors.As(err, &down):
		return &backend.BadResponseError{Endpoint: endpoint, Status: down.Status, Err: err}
	case errors.As(err, new(*llm.InvalidOutputError)), errors.As(err, new(*llm.TruncatedError)):
		return &backend.BadResponseError{Endpoint: endpoint, Err: err}
	}
	return err
}

func buildUserMessage(word, passage string) string {
	return fmt.Sprintf(`請分析文言文句子『%s』中的單字『%s』。
請提供：
1. 本字在此句中的含義
2. 現代漢語中的對應詞
3. 語法用途說明
請用簡明扼要的繁體中文回答。`, passage, word)
}

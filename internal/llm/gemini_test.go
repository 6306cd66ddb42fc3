package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiProvider_Explains(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": `{"explanation":"解：解除。"}`}}},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{"promptTokenCount": 20, "candidatesTokenCount": 9, "totalTokenCount": 29},
			"modelVersion":  "gemini-2.5-flash",
		})
	}))
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "k", Model: "gemini-flash", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		System:   "你是文言文導師。",
		Messages: []Message{{Role: RoleUser, Content: "解"}},
		Schema:   explanationSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"explanation":"解：解除。"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 20, OutputTokens: 9}, resp.Usage)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)

	gen := body["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.Contains(t, gen, "responseJsonSchema")
}

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Request{System: "sys", MaxTokens: 128, Temperature: 0.5})
	assert.EqualValues(t, 128, cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.5, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
	assert.Nil(t, cfg.ResponseJsonSchema)

	cfg = geminiConfig(Request{Schema: explanationSchema})
	assert.Nil(t, cfg.Temperature)
	assert.Equal(t, explanationSchema.Definition, cfg.ResponseJsonSchema)
}

func TestGeminiContents(t *testing.T) {
	got := geminiContents([]Message{{Role: RoleUser, Content: "問"}, {Role: RoleAssistant, Content: "答"}})
	require.Len(t, got, 2)
	assert.Equal(t, genai.RoleUser, got[0].Role)
	assert.Equal(t, genai.RoleModel, got[1].Role)
	assert.Equal(t, "答", got[1].Parts[0].Text)
}

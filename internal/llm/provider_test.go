package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var explanationSchema = &Schema{
	Name: "test-explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string"},
			"pos":         map[string]any{"type": "string", "enum": []string{"n", "v", "a", "d", "p"}},
		},
		"required":             []string{"explanation"},
		"additionalProperties": false,
	},
}

func TestFinish_SchemaAnswer(t *testing.T) {
	req := Request{Schema: explanationSchema}
	resp, err := finish(req, "```json\n{\"explanation\":\"老師\"}\n```", Usage{InputTokens: 3, OutputTokens: 2}, "m", StopEnd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"explanation":"老師"}`, string(resp.Content))
	assert.Equal(t, 5, resp.Usage.Total())
	assert.Equal(t, StopEnd, resp.StopReason)
}

func TestFinish_RejectsMismatch(t *testing.T) {
	_, err := finish(Request{Schema: explanationSchema}, `{"meaning":"老師"}`, Usage{}, "m", StopEnd)
	var bad *InvalidOutputError
	require.ErrorAs(t, err, &bad)
	assert.JSONEq(t, `{"meaning":"老師"}`, string(bad.Content))
}

func TestFinish_TruncatedAnswer(t *testing.T) {
	_, err := finish(Request{Schema: explanationSchema}, `{"explanation":"老`, Usage{}, "m", StopMaxTokens)
	var trunc *TruncatedError
	assert.ErrorAs(t, err, &trunc)
}

func TestFinish_FreeTextIsQuoted(t *testing.T) {
	resp, err := finish(Request{}, "傳授", Usage{}, "m", StopEnd)
	require.NoError(t, err)

	var s string
	require.NoError(t, json.Unmarshal(resp.Content, &s))
	assert.Equal(t, "傳授", s)
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")

	var rl *RateLimitError
	assert.ErrorAs(t, classifyStatus(http.StatusTooManyRequests, cause), &rl)

	var un *UnavailableError
	require.ErrorAs(t, classifyStatus(http.StatusBadGateway, cause), &un)
	assert.Equal(t, http.StatusBadGateway, un.Status)
	assert.ErrorIs(t, un, cause)

	require.ErrorAs(t, classifyStatus(0, cause), &un)
	assert.Zero(t, un.Status)
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"explanation":"一"}`), Usage: Usage{InputTokens: 4}},
		MockResponse{Err: &RateLimitError{}},
	)

	resp, err := mock.Generate(context.Background(), Request{System: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "mock", resp.Model)
	assert.Equal(t, 4, resp.Usage.InputTokens)

	_, err = mock.Generate(context.Background(), Request{})
	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)

	_, err = mock.Generate(context.Background(), Request{})
	var un *UnavailableError
	assert.ErrorAs(t, err, &un)

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, SessionFrom(ctx))

	ctx = WithSession(WithPurpose(ctx, "explain"), "s-1")
	assert.Equal(t, "explain", PurposeFrom(ctx))
	assert.Equal(t, "s-1", SessionFrom(ctx))
}

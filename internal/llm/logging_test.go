package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wenyan/internal/store"
)

// recordingRepo keeps appended events in memory. Only AppendLLMRequest is
// implemented.
type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRecorder_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"explanation":"學：學習。"}`),
		Usage:   Usage{InputTokens: 30, OutputTokens: 8},
	})
	r := WithRecorder(mock, "ollama", repo, quietLogger())

	ctx := WithSession(WithPurpose(context.Background(), "explain"), "s-42")
	_, err := r.Generate(ctx, Request{
		System:   "你是文言文導師。",
		Messages: []Message{{Role: RoleUser, Content: "學"}},
		Schema:   explanationSchema,
	})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "s-42", ev.SessionID)
	assert.Equal(t, "explain", ev.Purpose)
	assert.Equal(t, "ollama", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.True(t, ev.Success)
	assert.Equal(t, 30, ev.InputTokens)
	assert.Equal(t, 8, ev.OutputTokens)
	assert.Contains(t, ev.RequestBody, "[system]\n你是文言文導師。")
	assert.Contains(t, ev.RequestBody, "[user]\n學")
	assert.Contains(t, ev.RequestBody, "[schema test-explanation]")
	assert.JSONEq(t, `{"explanation":"學：學習。"}`, ev.ResponseBody)
}

func TestRecorder_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	r := WithRecorder(NewMockProvider(), "openai", repo, log)

	_, err := r.Generate(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Equal(t, "model unavailable", repo.events[0].ErrorMessage)
	assert.Equal(t, "unknown", repo.events[0].Purpose)
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestRecorder_StoreErrorDoesNotFailCall(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	r := WithRecorder(NewMockProvider(okAnswer), "ollama", repo, quietLogger())

	_, err := r.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestRecorder_NilRepo(t *testing.T) {
	r := WithRecorder(NewMockProvider(okAnswer), "ollama", nil, nil)
	_, err := r.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "mock", r.ModelID())
}

func TestRecorder_WritesToStore(t *testing.T) {
	st, err := store.Open("file:llm_recorder?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	r := WithRecorder(NewMockProvider(okAnswer, okAnswer), "ollama", st.EventRepo(), quietLogger())
	ctx := context.Background()
	_, err = r.Generate(WithPurpose(ctx, "explain"), Request{})
	require.NoError(t, err)
	_, err = r.Generate(WithPurpose(ctx, "probe"), Request{})
	require.NoError(t, err)

	events, err := st.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Purpose: "explain"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "mock", events[0].Model)
	assert.True(t, events[0].Success)
}

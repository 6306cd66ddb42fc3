package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/wenyan/internal/store"
)

// Recorder writes every call to the event log and to slog. A failed write
// never fails the call.
type Recorder struct {
	inner  Provider
	vendor string
	events store.EventRepo
	log    *slog.Logger
}

// WithRecorder wraps p. vendor is the provider family stored on events;
// events may be nil.
func WithRecorder(p Provider, vendor string, events store.EventRepo, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{inner: p, vendor: vendor, events: events, log: log}
}

func (r *Recorder) ModelID() string { return r.inner.ModelID() }

func (r *Recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		SessionID:   SessionFrom(ctx),
		Provider:    r.vendor,
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}
	r.log.Log(ctx, level, "llm call",
		"vendor", ev.Provider, "model", ev.Model, "purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs, "tokens", ev.InputTokens+ev.OutputTokens, "error", err)

	if r.events != nil {
		// The call's own context may already be cancelled.
		if werr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); werr != nil {
			r.log.Warn("record llm call", "error", werr)
		}
	}
	return resp, err
}

// transcript renders req as the text stored with the event.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		b.WriteString("[system]\n" + req.System + "\n\n")
	}
	for _, m := range req.Messages {
		b.WriteString("[" + string(m.Role) + "]\n" + m.Content + "\n\n")
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			b.WriteString("[schema " + req.Schema.Name + "]\n" + string(def) + "\n")
		}
	}
	return b.String()
}

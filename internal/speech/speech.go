// Package speech pronounces tokens aloud. Playback is fire-and-forget and
// single-slot: a new utterance supersedes the one still playing.
package speech

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Speaker plays text and blocks until playback ends or ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Off is a Speaker that stays silent.
type Off struct{}

func (Off) Speak(context.Context, string) error { return nil }

// Trigger owns the current playback handle.
type Trigger struct {
	speaker Speaker
	log     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
	wg     sync.WaitGroup

	// OnDone, when set, is called after every utterance finishes with its
	// outcome. A superseded utterance reports context.Canceled.
	OnDone func(text string, err error)
}

// NewTrigger creates a Trigger around speaker.
func NewTrigger(speaker Speaker, log *slog.Logger) *Trigger {
	if speaker == nil {
		speaker = Off{}
	}
	return &Trigger{speaker: speaker, log: log}
}

// Say starts pronouncing text in the background and returns immediately.
// Any utterance still in progress is cancelled first.
func (t *Trigger) Say(text string) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.seq++
	seq := t.seq
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		err := t.speaker.Speak(ctx, text)
		cancel()

		t.mu.Lock()
		if t.seq == seq {
			t.cancel = nil
		}
		t.mu.Unlock()

		switch {
		case err == nil:
			t.log.Debug("speech finished", "text", text)
		case errors.Is(err, context.Canceled):
			t.log.Debug("speech superseded", "text", text)
		default:
			t.log.Warn("speech failed", "text", text, "error", err)
		}
		if t.OnDone != nil {
			t.OnDone(text, err)
		}
	}()
}

// Stop cancels the current utterance, if any.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Close stops playback and waits for background work to exit.
func (t *Trigger) Close() {
	t.Stop()
	t.wg.Wait()
}

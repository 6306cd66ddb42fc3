package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/logging"
)

// blockingSpeaker plays until cancelled or released.
type blockingSpeaker struct {
	started chan string
	release chan struct{}
}

func newBlockingSpeaker() *blockingSpeaker {
	return &blockingSpeaker{started: make(chan string, 8), release: make(chan struct{})}
}

func (b *blockingSpeaker) Speak(ctx context.Context, text string) error {
	b.started <- text
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.release:
		return nil
	}
}

type outcome struct {
	text string
	err  error
}

func collect(tr *Trigger) <-chan outcome {
	ch := make(chan outcome, 8)
	tr.OnDone = func(text string, err error) { ch <- outcome{text, err} }
	return ch
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func TestTriggerSayDoesNotBlock(t *testing.T) {
	sp := newBlockingSpeaker()
	tr := NewTrigger(sp, logging.NewNop())
	defer tr.Close()

	done := make(chan struct{})
	go func() {
		tr.Say("師")
		close(done)
	}()
	waitFor(t, done)
	assert.Equal(t, "師", waitFor(t, sp.started))
}

func TestTriggerNewUtteranceSupersedesOld(t *testing.T) {
	sp := newBlockingSpeaker()
	tr := NewTrigger(sp, logging.NewNop())
	results := collect(tr)

	tr.Say("師")
	waitFor(t, sp.started)
	tr.Say("者")
	waitFor(t, sp.started)

	first := waitFor(t, results)
	assert.Equal(t, "師", first.text)
	assert.ErrorIs(t, first.err, context.Canceled)

	close(sp.release)
	second := waitFor(t, results)
	assert.Equal(t, "者", second.text)
	assert.NoError(t, second.err)

	tr.Close()
}

func TestTriggerStop(t *testing.T) {
	sp := newBlockingSpeaker()
	tr := NewTrigger(sp, logging.NewNop())
	results := collect(tr)

	tr.Say("也")
	waitFor(t, sp.started)
	tr.Stop()

	got := waitFor(t, results)
	assert.ErrorIs(t, got.err, context.Canceled)
	tr.Close()
}

type failingSpeaker struct{}

func (failingSpeaker) Speak(context.Context, string) error { return errors.New("no audio device") }

func TestTriggerFailureIsReportedNotPanicked(t *testing.T) {
	tr := NewTrigger(failingSpeaker{}, logging.NewNop())
	results := collect(tr)

	tr.Say("道")
	got := waitFor(t, results)
	assert.EqualError(t, got.err, "no audio device")
	tr.Close()
}

func TestTriggerNilSpeakerIsOff(t *testing.T) {
	tr := NewTrigger(nil, logging.NewNop())
	results := collect(tr)
	tr.Say("道")
	assert.NoError(t, waitFor(t, results).err)
	tr.Close()
}

func TestDeviceAppendsText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spoken")
	d := NewDevice([]string{"sh", "-c", `printf %s "$0" > ` + out})

	require.NoError(t, d.Speak(context.Background(), "傳道"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "傳道", string(data))
}

func TestDeviceCancel(t *testing.T) {
	d := NewDevice([]string{"sh", "-c", "sleep 10"})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- d.Speak(ctx, "惑") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, waitFor(t, errc), context.Canceled)
}

func TestDeviceMissingBinary(t *testing.T) {
	d := NewDevice([]string{"wenyan-no-such-synth"})
	assert.Error(t, d.Speak(context.Background(), "也"))
}

func TestDefaultDeviceCommand(t *testing.T) {
	cmd := NewDevice(nil).command
	assert.NotEmpty(t, cmd)
	assert.Equal(t, DefaultDeviceCommand(), cmd)
}

func TestRemoteStreamsIntoPlayer(t *testing.T) {
	var mu sync.Mutex
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotQuery = map[string]string{"text": r.URL.Query().Get("text"), "voice": r.URL.Query().Get("voice")}
		mu.Unlock()
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-fake-mp3"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "played")
	r := NewRemote(backend.New(srv.URL, time.Second), "", []string{"sh", "-c", "cat > " + out})

	require.NoError(t, r.Speak(context.Background(), "師者"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3-fake-mp3", string(data))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "師者", gotQuery["text"])
	assert.Equal(t, DefaultVoice, gotQuery["voice"])
}

func TestRemoteBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"tts down"}`))
	}))
	defer srv.Close()

	r := NewRemote(backend.New(srv.URL, time.Second), "zh-TW-HsiaoChenNeural", []string{"sh", "-c", "cat >/dev/null"})
	err := r.Speak(context.Background(), "師")

	var bad *backend.BadResponseError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, "tts down", bad.Detail)
}

func TestRemotePlayerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	r := NewRemote(backend.New(srv.URL, time.Second), "", []string{"sh", "-c", "exit 3"})
	assert.Error(t, r.Speak(context.Background(), "師"))
}

package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/wenyan/internal/backend"
)

// TTSPath is the remote synthesis endpoint relative to the backend root.
const TTSPath = "/api/tts"

// DefaultVoice is the neural voice requested from the backend.
const DefaultVoice = "zh-CN-YunjianNeural"

// DefaultPlayer reads an MP3 stream on stdin and plays it.
func DefaultPlayer() []string {
	return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "-"}
}

// Remote fetches audio from the backend and streams it into a player.
type Remote struct {
	client *backend.Client
	voice  string
	player []string
}

// NewRemote creates a Remote speaker. Empty voice or player select the
// defaults.
func NewRemote(client *backend.Client, voice string, player []string) *Remote {
	if voice == "" {
		voice = DefaultVoice
	}
	if len(player) == 0 {
		player = DefaultPlayer()
	}
	return &Remote{client: client, voice: voice, player: player}
}

func (r *Remote) Speak(ctx context.Context, text string) error {
	body, err := r.client.Get(ctx, TTSPath, url.Values{"text": {text}, "voice": {r.voice}})
	if err != nil {
		return err
	}
	defer body.Close()

	g, gctx := errgroup.WithContext(ctx)
	pr, pw := io.Pipe()

	g.Go(func() error {
		_, err := io.Copy(pw, body)
		pw.CloseWithError(err)
		if err != nil && !errors.Is(err, io.ErrClosedPipe) {
			return fmt.Errorf("download audio: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		cmd := exec.CommandContext(gctx, r.player[0], r.player[1:]...)
		cmd.Stdin = pr
		err := cmd.Run()
		// Unblock the downloader if the player exited early.
		pr.CloseWithError(io.ErrClosedPipe)
		if err != nil {
			return fmt.Errorf("%s: %w", r.player[0], err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/config"
	"github.com/abhisek/wenyan/internal/explain"
	"github.com/abhisek/wenyan/internal/llm"
	"github.com/abhisek/wenyan/internal/logging"
	"github.com/abhisek/wenyan/internal/session"
	"github.com/abhisek/wenyan/internal/speech"
	"github.com/abhisek/wenyan/internal/store"
)

// openLogger opens the log file named by cfg. While the TUI owns the
// terminal nothing may be written to stderr.
func openLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	path := cfg.Log.Path
	if path == "" {
		if path, err = logging.DefaultPath(); err != nil {
			return nil, nil, err
		}
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, level), f, nil
}

// openKV returns the key-value store holding the library. The returned
// close function is a no-op for the SQLite backend, which st owns.
func openKV(ctx context.Context, cfg config.Config, st *store.Store) (store.KV, func() error, error) {
	switch cfg.Store.Backend {
	case "redis":
		kv, err := store.OpenRedis(ctx, store.RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	default:
		return st.KV(), func() error { return nil }, nil
	}
}

// newExplainer builds the configured explanation strategy. The llm strategy
// records every call in the store's event log.
func newExplainer(ctx context.Context, cfg config.Config, client *backend.Client, st *store.Store, log *slog.Logger) (explain.Explainer, error) {
	switch cfg.Explain.Strategy {
	case "llm":
		llmCfg := llm.ConfigFromEnv()
		if err := llmCfg.Validate(); err != nil {
			return nil, fmt.Errorf("llm explain strategy: %w", err)
		}
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
		if err != nil {
			return nil, err
		}
		log.Info("explaining with llm", "provider", llmCfg.Provider, "model", provider.ModelID())
		return explain.NewLLM(provider, explain.LLMConfig{
			MaxTokens:   cfg.Explain.MaxTokens,
			Temperature: cfg.Explain.Temperature,
		}), nil
	default:
		return explain.NewHTTP(client), nil
	}
}

// newSpeaker builds the configured speech strategy.
func newSpeaker(cfg config.Config, client *backend.Client) speech.Speaker {
	switch cfg.Speech.Strategy {
	case "remote":
		player := cfg.Speech.Player
		if len(player) == 0 {
			player = speech.DefaultPlayer()
		}
		return speech.NewRemote(client, cfg.Speech.Voice, player)
	case "off":
		return speech.Off{}
	default:
		command := cfg.Speech.Command
		if len(command) == 0 {
			command = speech.DefaultDeviceCommand()
		}
		return speech.NewDevice(command)
	}
}

// messages maps the configured panel strings onto the controller's.
func messages(cfg config.Config) session.Messages {
	return session.Messages{
		Pending: cfg.Explain.Pending,
		Empty:   cfg.Explain.Empty,
		Failure: cfg.Explain.Failure,
	}
}

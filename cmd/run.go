package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/wenyan/internal/analysis"
	"github.com/abhisek/wenyan/internal/app"
	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/library"
	"github.com/abhisek/wenyan/internal/llm"
	"github.com/abhisek/wenyan/internal/observe"
	"github.com/abhisek/wenyan/internal/screen"
	"github.com/abhisek/wenyan/internal/screens/reader"
	"github.com/abhisek/wenyan/internal/screens/welcome"
	"github.com/abhisek/wenyan/internal/session"
	"github.com/abhisek/wenyan/internal/speech"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, logFile, err := openLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	sessionID := uuid.NewString()
	log = log.With("session", sessionID)

	ctx, cancel := context.WithCancel(llm.WithSession(cmd.Context(), sessionID))
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	kv, closeKV, err := openKV(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeKV()

	client := backend.New(cfg.API.BaseURL, cfg.API.Timeout)
	explainer, err := newExplainer(ctx, cfg, client, st, log)
	if err != nil {
		return err
	}

	trigger := speech.NewTrigger(newSpeaker(cfg, client), log)
	defer trigger.Close()

	opts := session.Options{
		Analyzer:  analysis.NewHTTP(client),
		Explainer: explainer,
		Speaker:   trigger,
		Library:   library.New(kv, log),
		Log:       log,
		Messages:  messages(cfg),
	}

	var metrics *observe.Metrics
	if cfg.Metrics.Addr != "" {
		metrics = observe.NewMetrics()
		opts.Observer = metrics
		trigger.OnDone = metrics.SpeechDone
	}

	ctrl := session.New(opts)
	ctrl.Load(ctx)

	if metrics != nil {
		h := observe.NewHandler(metrics, func() string { return ctrl.Phase().String() })
		addr, errc, err := observe.Serve(ctx, cfg.Metrics.Addr, h, log)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		log.Info("metrics listening", "addr", addr.String())
		defer func() {
			cancel()
			<-errc
		}()
	}

	log.Info("session started", "api", cfg.API.BaseURL, "explain", cfg.Explain.Strategy,
		"speech", cfg.Speech.Strategy, "store", cfg.Store.Backend)

	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	newReader := func() screen.Screen {
		return reader.New(reader.Options{
			Controller:    ctrl,
			Context:       ctx,
			MarkdownStyle: style,
			Log:           log,
		})
	}

	var root screen.Screen
	if noSplash, _ := cmd.Flags().GetBool("no-splash"); noSplash {
		root = newReader()
	} else {
		root = welcome.New(newReader)
	}

	err = app.Run(app.Options{
		Root:     root,
		Passages: func() int { return len(ctrl.Snapshot().Library) },
	})
	log.Info("session ended", "error", err)
	return err
}

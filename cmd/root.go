package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wenyan/internal/config"
	"github.com/abhisek/wenyan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "wenyan",
	Short: "Terminal reading assistant for classical Chinese",
	Long: "wenyan segments classical Chinese passages into annotated tokens, explains\n" +
		"words in context, reads them aloud and keeps a library of saved passages.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/wenyan/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WENYAN_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Base URL of the reading backend (overrides WENYAN_API_BASE_URL)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the opening animation")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the configuration and applies the persistent flags,
// which take precedence over file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{Path: path})
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.API.BaseURL = u
	}
	return cfg, config.Validate(cfg)
}

// resolveDBPath returns the configured database path (--db flag or
// store.path), then WENYAN_DB, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// openStore opens the SQLite store named by cfg.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

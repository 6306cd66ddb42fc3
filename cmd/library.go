package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wenyan/internal/library"
	"github.com/abhisek/wenyan/internal/logging"
	"github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/session"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved passages",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved passages, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(cmd, func(ctrl *session.Controller) error {
			listPassages(cmd.OutOrStdout(), ctrl.Snapshot().Library)
			return nil
		})
	},
}

var libraryAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Save a passage to the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := analyzeInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return withLibrary(cmd, func(ctrl *session.Controller) error {
			ctrl.SetInputText(text)
			if !ctrl.Save(cmd.Context()) {
				return fmt.Errorf("passage is blank")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved passage %d.\n", ctrl.Snapshot().Library[0].ID)
			return nil
		})
	},
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved passage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePassageID(args[0])
		if err != nil {
			return err
		}
		return withLibrary(cmd, func(ctrl *session.Controller) error {
			if !ctrl.Delete(cmd.Context(), id) {
				return fmt.Errorf("passage %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted passage %d.\n", id)
			return nil
		})
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved passage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePassageID(args[0])
		if err != nil {
			return err
		}
		return withLibrary(cmd, func(ctrl *session.Controller) error {
			p, ok := ctrl.Snapshot().Library.Find(id)
			if !ok {
				return fmt.Errorf("passage %d not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Content)
			return nil
		})
	},
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRmCmd)
	libraryCmd.AddCommand(libraryShowCmd)
}

// withLibrary loads the configured library into a controller, so saves and
// deletes follow the same rules as in the reader.
func withLibrary(cmd *cobra.Command, fn func(*session.Controller) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	log := logging.New(cmd.ErrOrStderr(), slog.LevelWarn)
	kv, closeKV, err := openKV(cmd.Context(), cfg, st)
	if err != nil {
		return err
	}
	defer closeKV()

	ctrl := session.New(session.Options{
		Library: library.New(kv, log),
		Log:     log,
	})
	ctrl.Load(cmd.Context())
	return fn(ctrl)
}

func parsePassageID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid passage id %q", s)
	}
	return id, nil
}

// listPassages prints one line per passage: id, save time and the first
// line of its text.
func listPassages(w io.Writer, lib reader.Library) {
	if len(lib) == 0 {
		fmt.Fprintln(w, "No saved passages.")
		return
	}
	for _, p := range lib {
		saved := time.UnixMilli(p.ID).Local().Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%-14d  %s  %s\n", p.ID, saved, previewLine(p.Content, 30))
	}
}

// previewLine returns the first line of s cut to max runes.
func previewLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}

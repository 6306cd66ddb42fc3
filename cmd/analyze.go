package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/wenyan/internal/analysis"
	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/ui/theme"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Segment a passage and print its annotated tokens",
	Long: "Segment a passage and print each token as text(pinyin)/pos.\n" +
		"Without arguments the passage is read from stdin when it is piped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := analyzeInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := backend.New(cfg.API.BaseURL, cfg.API.Timeout)
		tokens, err := analysis.NewHTTP(client).Analyze(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("analyze: %s", backend.Describe(err))
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(tokens)
		}

		profile := termenv.EnvColorProfile()
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			profile = termenv.Ascii
		}
		printTokens(out, tokens, profile)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("plain", false, "Print without colour")
	analyzeCmd.Flags().Bool("json", false, "Print the token list as JSON")
}

// analyzeInput joins args, or reads stdin when no args are given and stdin
// is not a terminal.
func analyzeInput(args []string, stdin io.Reader) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else if stdin != nil && !isTerminal(stdin) {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no passage given: pass it as an argument or pipe it on stdin")
	}
	return text, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printTokens writes tokens on one line, each as text(pinyin)/pos coloured
// by part of speech. Punctuation is printed bare.
func printTokens(w io.Writer, tokens reader.TokenSequence, profile termenv.Profile) {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		label := tok.Text
		if reader.CategoryOf(tok.POS) != reader.CategoryPunctuation {
			if tok.Phonetic != "" {
				label += "(" + tok.Phonetic + ")"
			}
			if tok.POS != "" {
				label += "/" + tok.POS
			}
		}
		parts = append(parts, profile.String(label).Foreground(profile.Color(theme.POSHex(tok.POS))).String())
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/wenyan/internal/llm"
	"github.com/abhisek/wenyan/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded explanation calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withEvents(cmd, func(events store.EventRepo) error {
			found, err := events.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query calls: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "No LLM calls recorded.")
				return nil
			}
			fmt.Fprintln(out, callTable(found))
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and answer of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid call id %q", args[0])
		}

		return withEvents(cmd, func(events store.EventRepo) error {
			e, err := events.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("call %d not found", id)
			}
			writeCall(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise token usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(events store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			byModel, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No LLM calls recorded.")
				return nil
			}
			fmt.Fprintln(out, purposeTable(byPurpose))
			fmt.Fprintln(out)
			fmt.Fprintln(out, costTable(byModel))
			return nil
		})
	},
}

// withEvents opens the configured database for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.EventRepo())
}

func reportTable(headers ...string) *table.Table {
	bold := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderLeft(false).BorderRight(false).BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return bold
			}
			return cell
		})
}

func callTable(events []store.LLMEvent) string {
	t := reportTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}
		t.Row(
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			clip(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			ok,
		)
	}
	return t.Render()
}

func writeCall(w io.Writer, e *store.LLMEvent) {
	fmt.Fprintf(w, "call %d  %s\n", e.ID, e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "%s/%s for %s, %d+%d tokens in %dms\n",
		e.Provider, e.Model, e.Purpose, e.InputTokens, e.OutputTokens, e.LatencyMs)
	if e.SessionID != "" {
		fmt.Fprintf(w, "session %s\n", e.SessionID)
	}
	if !e.Success {
		fmt.Fprintf(w, "failed: %s\n", e.ErrorMessage)
	}
	section(w, "prompt", e.RequestBody)
	section(w, "answer", e.ResponseBody)
}

func section(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n── %s %s\n", title, strings.Repeat("─", max(0, 56-len(title))))
	if body == "" {
		body = "(empty)"
	}
	fmt.Fprintln(w, strings.TrimRight(body, "\n"))
}

func purposeTable(usage []store.PurposeUsage) string {
	t := reportTable("Purpose", "Calls", "In", "Out", "Avg ms")
	var calls, in, out int
	for _, u := range usage {
		t.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	t.Row("all", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), "")
	return t.Render()
}

// costTable prices each model with llm.LookupCost. Models without a known
// price are shown with "?" and the total is marked as partial.
func costTable(usage []store.ModelUsage) string {
	t := reportTable("Model", "Calls", "In", "Out", "USD")
	var total float64
	partial := false
	for _, u := range usage {
		price := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			price = formatUSD(usd)
		} else {
			partial = true
		}
		t.Row(clip(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens), price)
	}
	label := "total"
	if partial {
		label = "total (partial)"
	}
	t.Row(label, "", "", "", formatUSD(total))
	return t.Render()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatUSD(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "only calls with this purpose, e.g. explain")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

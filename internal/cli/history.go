package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lightimer/internal/app"
	"lightimer/internal/timelog"
	"lightimer/internal/timer"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Long: `List the most recent countdown runs and how many ended each way.

Examples:
  lightimer history --limit 5   # Show the last five runs
  lightimer history --clear     # Forget every recorded run`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().IntP("limit", "n", 20, "number of runs to show")
	cmd.Flags().Bool("clear", false, "delete all recorded runs")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("history is disabled in the config")
	}

	a, err := app.NewForCommand(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
		if err := a.History.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}
	logs, err := a.History.GetRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-17s %-8s %-8s %-9s %-11s\n", "ID", "Started", "Period", "Ran", "Left", "Outcome")
	fmt.Fprintln(out, "-------------------------------------------------------------")
	for _, l := range logs {
		fmt.Fprintf(out, "%-5d %-17s %-8s %-8s %-9s %-11s\n",
			l.ID,
			l.StartedAt.Local().Format("2006-01-02 15:04"),
			timer.Format(l.Period),
			timer.Format(l.Duration()),
			formatLeft(l.Remaining),
			l.Outcome,
		)
	}

	counts, err := a.History.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarise runs: %w", err)
	}
	fmt.Fprintln(out, "-------------------------------------------------------------")
	fmt.Fprintf(out, "Total: %s\n", formatSummary(counts))
	return nil
}

// formatLeft shows overruns with a sign, which MM:SS alone cannot.
func formatLeft(d time.Duration) string {
	if d < 0 {
		return "-" + timer.Format(-d)
	}
	return timer.Format(d)
}

func formatSummary(counts map[timelog.Outcome]int) string {
	outcomes := make([]string, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, string(o))
	}
	slices.Sort(outcomes)

	total := 0
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		n := counts[timelog.Outcome(o)]
		total += n
		parts = append(parts, fmt.Sprintf("%d %s", n, o))
	}
	return fmt.Sprintf("%d runs (%s)", total, strings.Join(parts, ", "))
}

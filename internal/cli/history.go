package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/session"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/store"
)

var (
	historyLimit  int
	historyFormat string
	historyClear  bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of recent requests to show")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "Output format (text|json)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the persisted history")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show persisted request history",
	Long:  "Reads the history blob from the local store and prints recent requests,\nnewest first. Problem text shown here is post-redaction.",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if historyClear {
		if err := st.Delete(store.HistoryKey); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Println("History cleared.")
		return nil
	}

	blob, ok, err := st.Get(store.HistoryKey)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	var items []session.HistoryItem
	if ok {
		if err := json.Unmarshal(blob, &items); err != nil {
			return fmt.Errorf("corrupt history blob: %w", err)
		}
	}
	if historyLimit > 0 && len(items) > historyLimit {
		items = items[:historyLimit]
	}

	if historyFormat == "json" {
		out, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(items) == 0 {
		fmt.Println("No history.")
		return nil
	}
	for _, item := range items {
		ts := time.UnixMilli(item.Telemetry.TimestampMs).UTC().Format("2006-01-02 15:04:05")
		status := "ok"
		if item.Solution == nil {
			status = "failed"
		}
		fmt.Printf("%s  %-8s %6dms  $%.6f  %s\n",
			ts, status, item.Telemetry.LatencyMs, item.Telemetry.CostUSD, truncate(item.Problem, 60))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/replay"
)

var (
	replayLog           string
	replayLatencyMs     int64
	replayHallucination float64
	replayDrift         float64
	replayFormat        string
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayLog, "audit-log", "", "Path to audit log (defaults to configured path)")
	replayCmd.Flags().Int64Var(&replayLatencyMs, "latency-ms", 0, "Candidate latency threshold in ms (0 keeps configured)")
	replayCmd.Flags().Float64Var(&replayHallucination, "hallucination", 0, "Candidate hallucination threshold (0 keeps configured)")
	replayCmd.Flags().Float64Var(&replayDrift, "drift", 0, "Candidate drift threshold (0 keeps configured)")
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "text", "Output format (text|json)")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay recorded telemetry against candidate thresholds",
	Long: "Reads the audit trail, re-runs every recorded request through the\n" +
		"incident classifier with candidate thresholds, and shows which\n" +
		"incidents would newly fire or fall silent.\n\n" +
		"Use this to preview threshold changes before applying them.",
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logPath := replayLog
	if logPath == "" {
		logPath = cfg.Storage.AuditLogPath
	}

	th := cfg.Thresholds
	if replayLatencyMs > 0 {
		th.LatencyMs = replayLatencyMs
	}
	if replayHallucination > 0 {
		th.Hallucination = replayHallucination
	}
	if replayDrift > 0 {
		th.Drift = replayDrift
	}

	result, err := replay.Replay(logPath, th)
	if err != nil {
		return err
	}

	switch replayFormat {
	case "json":
		out, err := replay.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(replay.FormatText(result))
	}
	return nil
}

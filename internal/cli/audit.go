package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
)

var (
	tailLines int
	tailJSON  bool
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
	auditTailCmd.Flags().BoolVar(&tailJSON, "json", false, "Print raw entry JSON")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit trail operations",
	Long:  "Commands for verifying and inspecting the hash-chained audit trail.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Verify hash chain integrity of the audit trail",
	Long:  "Walks the JSONL audit trail and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail [path]",
	Short: "Show recent audit trail entries",
	Long:  "Reads the last N entries from the JSONL audit trail and summarizes them.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuditTail,
}

// auditPath resolves an explicit argument or falls back to the configured
// trail location.
func auditPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return "", err
	}
	return cfg.Storage.AuditLogPath, nil
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	path, err := auditPath(args)
	if err != nil {
		return err
	}

	result := audit.Verify(path)
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	path, err := auditPath(args)
	if err != nil {
		return err
	}

	entries, err := audit.ReadEntries(path)
	if err != nil {
		return err
	}
	if len(entries) > tailLines {
		entries = entries[len(entries)-tailLines:]
	}

	for _, e := range entries {
		if tailJSON {
			out, err := json.Marshal(e)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			continue
		}
		fmt.Println(summarizeEntry(e))
	}
	return nil
}

func summarizeEntry(e audit.AuditEntry) string {
	switch e.Kind {
	case audit.KindRequest:
		status := "ok"
		if !e.Succeeded {
			status = "failed: " + e.FailureReason
		}
		var latency int64
		if e.Record != nil {
			latency = e.Record.LatencyMs
		}
		return fmt.Sprintf("%s  request   %s  %dms  %s", e.Timestamp, e.RequestID, latency, status)
	case audit.KindIncident, audit.KindSimulate:
		marker := ""
		if e.Kind == audit.KindSimulate {
			marker = "  (simulated)"
		}
		if e.Incident == nil {
			return fmt.Sprintf("%s  incident  <malformed>%s", e.Timestamp, marker)
		}
		return fmt.Sprintf("%s  incident  %s  %s/%s  %s%s",
			e.Timestamp, e.Incident.ID, e.Incident.Type, e.Incident.Severity, e.Incident.Message, marker)
	case audit.KindSafeMode:
		state := "cleared"
		if e.SafeMode {
			state = "ACTIVE"
		}
		return fmt.Sprintf("%s  safe-mode %s", e.Timestamp, state)
	default:
		return fmt.Sprintf("%s  %s", e.Timestamp, e.Kind)
	}
}

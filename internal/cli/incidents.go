package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
)

var (
	incidentsLimit  int
	incidentsFormat string
)

func init() {
	rootCmd.AddCommand(incidentsCmd)
	incidentsCmd.Flags().IntVarP(&incidentsLimit, "limit", "n", 20, "Number of recent incidents to show")
	incidentsCmd.Flags().StringVarP(&incidentsFormat, "format", "f", "text", "Output format (text|json)")
}

var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "Show recorded incidents from the audit trail",
	Long:  "Reads incident entries from the hash-chained audit log, newest last.\nSimulated fire-drill incidents are marked.",
	RunE:  runIncidents,
}

func runIncidents(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	entries, err := audit.ReadEntries(cfg.Storage.AuditLogPath)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}

	var incidents []audit.AuditEntry
	for _, e := range entries {
		if (e.Kind == audit.KindIncident || e.Kind == audit.KindSimulate) && e.Incident != nil {
			incidents = append(incidents, e)
		}
	}
	if incidentsLimit > 0 && len(incidents) > incidentsLimit {
		incidents = incidents[len(incidents)-incidentsLimit:]
	}

	if incidentsFormat == "json" {
		out, err := json.MarshalIndent(incidents, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(incidents) == 0 {
		fmt.Println("No incidents recorded.")
		return nil
	}
	for _, e := range incidents {
		mark := ""
		if e.Kind == audit.KindSimulate {
			mark = " (simulated)"
		}
		fmt.Printf("%s  %-13s [%s] %-13s %s%s\n",
			shortTime(e.Timestamp), e.Incident.ID, e.Incident.Severity, e.Incident.Type,
			e.Incident.Message, mark)
	}
	return nil
}

func shortTime(ts string) string {
	t, err := time.Parse("2006-01-02T15:04:05.000Z", ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04:05")
}

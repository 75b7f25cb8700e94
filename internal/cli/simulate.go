package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/alert"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
)

var simMessage string

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simMessage, "message", "", "Incident message (defaults to a fire-drill note)")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <type>",
	Short: "Inject a synthetic incident",
	Long: "Synthesizes an incident of the given type, records it in the audit\n" +
		"trail, and dispatches configured webhook alerts. Types:\n  " +
		typeList(),
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func typeList() string {
	names := make([]string, len(incident.Types))
	for i, t := range incident.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	t := incident.Type(strings.ToUpper(args[0]))
	if !t.Valid() {
		return fmt.Errorf("unknown incident type %q: use one of %s", args[0], typeList())
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	message := simMessage
	if message == "" {
		message = fmt.Sprintf("Simulated %s incident (operator fire drill)", t)
	}
	now := time.Now()
	inc := incident.New(incident.Simulate(t, message), now)

	if cfg.Storage.AuditLogPath != "" {
		log, err := audit.Open(cfg.Storage.AuditLogPath)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer log.Close()
		if err := log.RecordIncident(inc, "", true); err != nil {
			return fmt.Errorf("record incident: %w", err)
		}
	}

	if d := alert.NewDispatcher(cfg.Alerts); d != nil {
		d.DispatchSync(alert.AlertEvent{
			Timestamp:    now.UTC().Format("2006-01-02T15:04:05.000Z"),
			IncidentID:   inc.ID,
			Type:         string(inc.Type),
			Severity:     string(inc.Severity),
			Message:      inc.Message,
			PlaybookLink: inc.PlaybookLink,
		})
	}

	fmt.Printf("%s  [%s] %s  %s\n", inc.ID, inc.Severity, inc.Type, inc.Message)
	fmt.Printf("Playbook: %s\n", inc.PlaybookLink)
	return nil
}

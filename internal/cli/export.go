package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/export"
)

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the Datadog dashboard definition",
	Long:  "Emits an importable Datadog dashboard JSON with latency, cost, and\nincident widgets wired to the assistant's telemetry metrics.",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := export.DatadogJSON()
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	fmt.Printf("Wrote %s\n", exportOutput)
	return nil
}

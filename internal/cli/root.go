package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "partnerai",
	Short: "Cloud solution architect assistant with built-in observability",
	Long:  "Generates cloud architecture recommendations from a hosted LLM while redacting PII, recording per-request telemetry, classifying incidents, and tripping a safe-mode breaker when incidents pile up.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.partnerai/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

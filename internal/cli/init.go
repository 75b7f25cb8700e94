package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the assistant configuration",
	Long: `Creates ~/.partnerai/ with a default config.yaml.

Set the model API key in the environment variable named by
model.api_key_env (default PARTNERAI_API_KEY) before running
architect or serve.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Config already exists at %s (use --force to overwrite).\n", path)
			return nil
		}
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return fmt.Errorf("generate default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Println("partnerai init complete.")
	fmt.Println()
	fmt.Printf("Created:\n  %s\n", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  export PARTNERAI_API_KEY=<your key>")
	fmt.Println("  partnerai architect \"Design a photo sharing backend for 1M users\"")
	return nil
}

// defaultConfigYAML generates a commented default config.yaml.
func defaultConfigYAML() (string, error) {
	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return "", err
	}
	header := "# partnerai configuration.\n" +
		"# thresholds: incident classification bounds applied to every request.\n" +
		"# safe_mode: submissions are rejected for cooldown_ms once incidents\n" +
		"#            exceed incident_threshold.\n" +
		"# alerts: webhook destinations (format: generic|slack|pagerduty).\n\n"
	return header + string(data), nil
}

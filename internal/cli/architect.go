package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/architect"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
)

var (
	architectUser   string
	architectFormat string
)

func init() {
	rootCmd.AddCommand(architectCmd)
	architectCmd.Flags().StringVar(&architectUser, "user", "", "Caller identity, hashed before storage")
	architectCmd.Flags().StringVarP(&architectFormat, "format", "f", "text", "Output format (text|json)")
}

var architectCmd = &cobra.Command{
	Use:   "architect <problem>",
	Short: "Request a cloud architecture recommendation",
	Long: "Redacts PII from the problem statement, calls the configured model,\n" +
		"records telemetry, and classifies incidents. The raw problem text\n" +
		"never leaves the machine.",
	Args: cobra.ExactArgs(1),
	RunE: runArchitect,
}

func runArchitect(cmd *cobra.Command, args []string) error {
	cfg, hash, err := config.LoadConfigWithHash(configPath)
	if err != nil {
		return err
	}

	sess, closeSession, err := buildSession(cfg, hash)
	if err != nil {
		return err
	}
	defer closeSession()

	res, err := sess.Submit(context.Background(), args[0], architectUser)
	if err != nil {
		return err
	}

	if architectFormat == "json" {
		out, err := json.MarshalIndent(map[string]any{
			"request_id": res.RequestID,
			"solution":   res.Solution,
			"telemetry":  res.Record,
			"incidents":  res.NewIncidents,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSolution(res.Solution)
	fmt.Printf("\n%dms · %d in / %d out tokens · $%.6f · %s\n",
		res.Record.LatencyMs, res.Record.TokensIn, res.Record.TokensOut,
		res.Record.CostUSD, res.Record.Model)
	if res.Record.PIIDetected {
		fmt.Println("PII detected and redacted before the model call.")
	}
	for _, inc := range res.NewIncidents {
		fmt.Fprintf(os.Stderr, "incident: [%s] %s %s\n", inc.Severity, inc.Type, inc.Message)
	}
	return nil
}

func printSolution(sol *architect.SolutionRecommendation) {
	fmt.Printf("Problem: %s\n\n", sol.ProblemSummary)
	fmt.Println("Recommended services:")
	for _, svc := range sol.RecommendedServices {
		fmt.Printf("  %-24s %s\n", svc.Name, svc.Reason)
	}
	fmt.Printf("\nArchitecture:\n%s\n", wrap(sol.ArchitectureOverview))
	if len(sol.BestPractices) > 0 {
		fmt.Println("\nBest practices:")
		for _, bp := range sol.BestPractices {
			fmt.Printf("  - %s\n", bp)
		}
	}
	if sol.Notes != "" {
		fmt.Printf("\nNotes: %s\n", sol.Notes)
	}
}

// wrap folds text at roughly 80 columns for terminal output.
func wrap(s string) string {
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for _, w := range words {
		if line > 0 && line+len(w)+1 > 80 {
			b.WriteByte('\n')
			line = 0
		} else if line > 0 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}

package architect

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseSolution extracts a SolutionRecommendation from raw model output.
// Markdown fences are stripped; anything else malformed is an error —
// malformed output is treated the same as an upstream failure, with no
// best-effort recovery.
func ParseSolution(raw string) (*SolutionRecommendation, error) {
	cleaned := cleanJSON(raw)

	var sol SolutionRecommendation
	if err := json.Unmarshal([]byte(cleaned), &sol); err != nil {
		return nil, fmt.Errorf("cannot parse model response: %s", truncate(cleaned, 200))
	}
	if err := validate(&sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

func validate(sol *SolutionRecommendation) error {
	switch {
	case sol.ProblemSummary == "":
		return fmt.Errorf("malformed model response: missing problemSummary")
	case len(sol.RecommendedServices) == 0:
		return fmt.Errorf("malformed model response: no recommended services")
	case sol.ArchitectureOverview == "":
		return fmt.Errorf("malformed model response: missing architectureOverview")
	}
	for _, svc := range sol.RecommendedServices {
		if svc.Name == "" {
			return fmt.Errorf("malformed model response: service entry without name")
		}
	}
	return nil
}

// cleanJSON strips markdown fences and leading/trailing whitespace.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

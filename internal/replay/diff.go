package replay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
)

// DiffEntry is one request whose incident set changed under the
// candidate thresholds.
type DiffEntry struct {
	Timestamp string          `json:"ts"`
	RequestID string          `json:"request_id"`
	LatencyMs int64           `json:"latency_ms"`
	Added     []incident.Type `json:"added,omitempty"`
	Removed   []incident.Type `json:"removed,omitempty"`
}

// Result holds the complete replay output.
type Result struct {
	LogPath         string              `json:"log_path"`
	Thresholds      incident.Thresholds `json:"thresholds"`
	TotalRequests   int                 `json:"total_requests"`
	ChangedRequests int                 `json:"changed_requests"`
	NewlyFiring     int                 `json:"newly_firing"`
	NewlySilent     int                 `json:"newly_silent"`
	Changes         []DiffEntry         `json:"changes"`
}

// FormatText renders the replay result as human-readable text.
func FormatText(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Replaying %d recorded requests from %s...\n", r.TotalRequests, r.LogPath)
	fmt.Fprintf(&b, "Thresholds: latency %dms, hallucination %.2f, drift %.2f\n",
		r.Thresholds.LatencyMs, r.Thresholds.Hallucination, r.Thresholds.Drift)

	if len(r.Changes) == 0 {
		b.WriteString("\nNo changes detected.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, d := range r.Changes {
		ts := d.Timestamp
		if len(ts) > 19 {
			// Extract HH:MM:SS from timestamp
			ts = ts[11:19]
		}
		id := d.RequestID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&b, "  CHANGED  %s  %-8s %6dms  +%v -%v\n",
			ts, id, d.LatencyMs, d.Added, d.Removed)
	}

	fmt.Fprintf(&b, "\n%d of %d requests changed.", r.ChangedRequests, r.TotalRequests)
	if r.NewlyFiring > 0 || r.NewlySilent > 0 {
		fmt.Fprintf(&b, " %d incidents newly firing, %d newly silent.", r.NewlyFiring, r.NewlySilent)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatJSON renders the replay result as JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal replay result: %w", err)
	}
	return string(data), nil
}

// Package replay re-runs recorded telemetry through the incident
// classifier under alternate thresholds, so an operator can see how a
// threshold change would have reshaped past incidents before applying it.
package replay

import (
	"fmt"
	"sort"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
)

// Replay reads an audit log and classifies every recorded request with
// the given thresholds, diffing against the incidents that actually
// fired. Simulated incidents are ignored: they carry no telemetry and
// would fire under any thresholds.
func Replay(logPath string, th incident.Thresholds) (*Result, error) {
	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	// Group recorded incident types by the request that produced them,
	// preserving request order of first appearance.
	oldTypes := make(map[string]map[incident.Type]bool)
	var requests []audit.AuditEntry
	for _, e := range entries {
		switch e.Kind {
		case audit.KindRequest:
			if e.Record != nil {
				requests = append(requests, e)
			}
		case audit.KindIncident:
			if e.RequestID == "" {
				continue
			}
			if oldTypes[e.RequestID] == nil {
				oldTypes[e.RequestID] = make(map[incident.Type]bool)
			}
			oldTypes[e.RequestID][incident.Type(e.Incident.Type)] = true
		}
	}

	result := &Result{LogPath: logPath, Thresholds: th}
	for _, e := range requests {
		result.TotalRequests++

		newTypes := make(map[incident.Type]bool)
		for _, c := range incident.Classify(incident.Outcome{
			Record:        *e.Record,
			Succeeded:     e.Succeeded,
			FailureReason: e.FailureReason,
		}, th) {
			newTypes[c.Type] = true
		}

		old := oldTypes[e.RequestID]
		added, removed := diffTypes(old, newTypes)
		if len(added) == 0 && len(removed) == 0 {
			continue
		}
		result.ChangedRequests++
		result.NewlyFiring += len(added)
		result.NewlySilent += len(removed)
		result.Changes = append(result.Changes, DiffEntry{
			Timestamp: e.Timestamp,
			RequestID: e.RequestID,
			LatencyMs: e.Record.LatencyMs,
			Added:     added,
			Removed:   removed,
		})
	}
	return result, nil
}

func diffTypes(old, cur map[incident.Type]bool) (added, removed []incident.Type) {
	for t := range cur {
		if !old[t] {
			added = append(added, t)
		}
	}
	for t := range old {
		if !cur[t] {
			removed = append(removed, t)
		}
	}
	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}

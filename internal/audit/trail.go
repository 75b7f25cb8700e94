package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"
)

// maxEntryBytes bounds a single trail line; entries embed a telemetry
// record, never bulk payloads.
const maxEntryBytes = 4 * 1024 * 1024

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// RecordRequest appends one request outcome with its telemetry record.
func (l *Log) RecordRequest(rec telemetry.Record, succeeded bool, failureReason, configHash string) error {
	return l.Record(AuditEntry{
		Timestamp:     timestamp(),
		Kind:          KindRequest,
		RequestID:     rec.RequestID,
		Record:        &rec,
		Succeeded:     succeeded,
		FailureReason: failureReason,
		ConfigHash:    configHash,
	})
}

// RecordIncident appends one synthesized incident. simulated marks operator
// fire drills.
func (l *Log) RecordIncident(inc incident.Incident, requestID string, simulated bool) error {
	kind := KindIncident
	if simulated {
		kind = KindSimulate
	}
	return l.Record(AuditEntry{
		Timestamp: timestamp(),
		Kind:      kind,
		RequestID: requestID,
		Incident: &IncidentRef{
			ID:       inc.ID,
			Type:     string(inc.Type),
			Severity: string(inc.Severity),
			Message:  inc.Message,
		},
	})
}

// RecordSafeMode appends a safe-mode transition.
func (l *Log) RecordSafeMode(active bool) error {
	return l.Record(AuditEntry{
		Timestamp: timestamp(),
		Kind:      KindSafeMode,
		SafeMode:  active,
	})
}

// ReadEntries loads all entries from a JSONL audit log in order. Used by
// threshold replay; the chain is not validated here (see Verify).
func ReadEntries(path string) ([]AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: open log: %w", err)
	}
	defer f.Close()

	var entries []AuditEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEntryBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		var e AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("audit: parse line %d: %w", lineNum, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan log: %w", err)
	}
	return entries, nil
}

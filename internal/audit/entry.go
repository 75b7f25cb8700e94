package audit

import "github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"

// Entry kinds recorded in the log.
const (
	KindRequest  = "request"
	KindIncident = "incident"
	KindSimulate = "simulate"
	KindSafeMode = "safe_mode"
)

// IncidentRef is the flattened incident data recorded in an audit entry.
type IncidentRef struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

// AuditEntry is one line in the hash-chained JSONL audit log.
// All fields are structs (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type AuditEntry struct {
	Timestamp     string            `json:"ts"`
	Kind          string            `json:"kind"`
	RequestID     string            `json:"request_id,omitempty"`
	Record        *telemetry.Record `json:"record,omitempty"`
	Succeeded     bool              `json:"succeeded,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Incident      *IncidentRef      `json:"incident,omitempty"`
	SafeMode      bool              `json:"safe_mode,omitempty"`
	ConfigHash    string            `json:"config_hash,omitempty"`
	PrevHash      string            `json:"prev_hash"`
}

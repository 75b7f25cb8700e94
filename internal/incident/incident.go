// Package incident synthesizes operational and safety incidents from
// telemetry records and request failures.
package incident

import (
	"math/rand"
	"time"
)

// Type enumerates the incident categories.
type Type string

const (
	TypeLatency       Type = "LATENCY"
	TypeErrorRate     Type = "ERROR_RATE"
	TypeSafety        Type = "SAFETY"
	TypeDrift         Type = "DRIFT"
	TypeHallucination Type = "HALLUCINATION"
	TypeBurnRate      Type = "BURN_RATE"
)

// Types lists all valid incident types.
var Types = []Type{
	TypeLatency, TypeErrorRate, TypeSafety,
	TypeDrift, TypeHallucination, TypeBurnRate,
}

// Valid reports whether t is a known incident type.
func (t Type) Valid() bool {
	for _, k := range Types {
		if t == k {
			return true
		}
	}
	return false
}

// Severity is the triage priority of an incident.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// RemediationStatus tracks operator follow-up on an incident.
type RemediationStatus string

const (
	RemediationPending  RemediationStatus = "PENDING"
	RemediationResolved RemediationStatus = "RESOLVED"
	RemediationAuto     RemediationStatus = "AUTO_FIXED"
)

// severityFor is the fixed type → severity table. Exhaustive by
// construction; unknown types fall back to INFO.
var severityFor = map[Type]Severity{
	TypeLatency:       SeverityCritical,
	TypeErrorRate:     SeverityCritical,
	TypeSafety:        SeverityCritical,
	TypeBurnRate:      SeverityWarning,
	TypeDrift:         SeverityWarning,
	TypeHallucination: SeverityInfo,
}

// playbookFor is the fixed type → runbook URL table.
var playbookFor = map[Type]string{
	TypeLatency:       "https://docs.datadoghq.com/monitors/types/metric/#latency",
	TypeErrorRate:     "https://docs.datadoghq.com/monitors/guide/alert-best-practices/",
	TypeSafety:        "https://docs.datadoghq.com/sensitive_data_scanner/",
	TypeDrift:         "https://docs.datadoghq.com/llm_observability/monitoring/",
	TypeHallucination: "https://docs.datadoghq.com/llm_observability/evaluations/",
	TypeBurnRate:      "https://docs.datadoghq.com/monitors/types/slo/#burn-rate-alerts",
}

// SeverityFor returns the fixed severity for an incident type.
func SeverityFor(t Type) Severity {
	if s, ok := severityFor[t]; ok {
		return s
	}
	return SeverityInfo
}

// PlaybookFor returns the runbook URL for an incident type.
func PlaybookFor(t Type) string {
	if u, ok := playbookFor[t]; ok {
		return u
	}
	return playbookFor[TypeErrorRate]
}

// Incident is a synthesized record of a detected anomaly. Appended to the
// session's list newest first; removed only by an explicit operator clear.
type Incident struct {
	ID                string            `json:"id"`
	Type              Type              `json:"type"`
	Severity          Severity          `json:"severity"`
	Message           string            `json:"message"`
	TimestampMs       int64             `json:"timestamp_ms"`
	RemediationStatus RemediationStatus `json:"remediation_status"`
	PlaybookLink      string            `json:"playbook_link"`
}

// Candidate is a classifier output before materialization: a type plus a
// pre-formatted message.
type Candidate struct {
	Type    Type
	Message string
}

// idAlphabet matches the human-scannable uppercase base36 ids of the
// dashboard ("INC-K3F9A2X7Q" style). Ids are unique per process, not
// across restarts.
const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID generates a fresh incident id.
func NewID() string {
	b := make([]byte, 13)
	copy(b, "INC-")
	for i := 4; i < len(b); i++ {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}

// New materializes a candidate into a full incident: fresh id, timestamp,
// remediation PENDING, severity and playbook from the fixed tables.
func New(c Candidate, now time.Time) Incident {
	return Incident{
		ID:                NewID(),
		Type:              c.Type,
		Severity:          SeverityFor(c.Type),
		Message:           c.Message,
		TimestampMs:       now.UnixMilli(),
		RemediationStatus: RemediationPending,
		PlaybookLink:      PlaybookFor(c.Type),
	}
}

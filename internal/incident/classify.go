package incident

import (
	"fmt"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"
)

// Default classification thresholds. Exposed as named values, not hidden
// literals; overridable through Thresholds.
const (
	DefaultLatencyThresholdMs     = 2500
	DefaultHallucinationThreshold = 0.1
	DefaultDriftThreshold         = 0.12
)

// Thresholds holds the classifier's trigger levels.
type Thresholds struct {
	LatencyMs     int64   `yaml:"latency_ms"     json:"latency_ms"`
	Hallucination float64 `yaml:"hallucination"  json:"hallucination"`
	Drift         float64 `yaml:"drift"          json:"drift"`
}

// DefaultThresholds returns the built-in trigger levels.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LatencyMs:     DefaultLatencyThresholdMs,
		Hallucination: DefaultHallucinationThreshold,
		Drift:         DefaultDriftThreshold,
	}
}

// Outcome describes one completed or failed request for classification.
type Outcome struct {
	Record        telemetry.Record
	Succeeded     bool
	FailureReason string
}

// Classify inspects a request outcome and returns zero or more incident
// candidates. Rules:
//
//   - failed request → exactly one ERROR_RATE, regardless of telemetry;
//   - else latency above threshold → LATENCY;
//   - PII detected → SAFETY, independent of latency;
//   - hallucination score above threshold → HALLUCINATION;
//   - drift score above threshold → DRIFT.
//
// Multiple rules may fire for one record; each yields an independent
// candidate. Incidents are only ever derived from the record's own values
// at classification time, never retroactively.
func Classify(out Outcome, th Thresholds) []Candidate {
	if !out.Succeeded {
		reason := out.FailureReason
		if reason == "" {
			reason = "upstream model call failed"
		}
		return []Candidate{{
			Type:    TypeErrorRate,
			Message: fmt.Sprintf("Request %s failed: %s", shortID(out.Record.RequestID), reason),
		}}
	}

	rec := out.Record
	var cands []Candidate

	if rec.LatencyMs > th.LatencyMs {
		cands = append(cands, Candidate{
			Type: TypeLatency,
			Message: fmt.Sprintf("High latency detected: %dms on request %s (threshold %dms)",
				rec.LatencyMs, shortID(rec.RequestID), th.LatencyMs),
		})
	}

	if rec.PIIDetected {
		cands = append(cands, Candidate{
			Type: TypeSafety,
			Message: fmt.Sprintf("PII detected and redacted in request %s before model egress",
				shortID(rec.RequestID)),
		})
	}

	if rec.HallucinationScore > th.Hallucination {
		cands = append(cands, Candidate{
			Type: TypeHallucination,
			Message: fmt.Sprintf("Hallucination heuristic %.3f above threshold %.3f on request %s",
				rec.HallucinationScore, th.Hallucination, shortID(rec.RequestID)),
		})
	}

	if rec.DriftScore > th.Drift {
		cands = append(cands, Candidate{
			Type: TypeDrift,
			Message: fmt.Sprintf("Drift heuristic %.3f above threshold %.3f on request %s",
				rec.DriftScore, th.Drift, shortID(rec.RequestID)),
		})
	}

	return cands
}

// Simulate synthesizes a candidate of caller-chosen type with a caller
// supplied message. This is the operator fire-drill entry point; it
// bypasses telemetry entirely.
func Simulate(t Type, message string) Candidate {
	return Candidate{Type: t, Message: message}
}

// shortID truncates a request id for human-readable messages.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "unknown"
	}
	return id
}

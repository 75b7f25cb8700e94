// Package telemetry assembles the immutable per-request measurement bundle.
// Records are built exactly once after a model call resolves or fails and
// are never mutated afterwards.
package telemetry

import (
	"encoding/base64"
	"math"
	"time"
)

// AnonUserHash is the placeholder hash used when the caller is anonymous.
const AnonUserHash = "anon"

// FlagPIIRedacted marks a record whose input was scrubbed before the call.
const FlagPIIRedacted = "PII_REDACTED"

// Record is one immutable telemetry record per completed or failed request.
// All numeric fields are non-negative and finite.
type Record struct {
	RequestID          string   `json:"request_id"`
	TimestampMs        int64    `json:"timestamp_ms"`
	LatencyMs          int64    `json:"latency_ms"`
	TokensIn           int      `json:"tokens_in"`
	TokensOut          int      `json:"tokens_out"`
	CostUSD            float64  `json:"cost_usd"`
	Model              string   `json:"model"`
	PIIDetected        bool     `json:"pii_detected"`
	SafetyFlags        []string `json:"safety_flags"`
	HallucinationScore float64  `json:"hallucination_score"`
	DriftScore         float64  `json:"drift_score"`
	UserHash           string   `json:"user_hash"`
}

// Input carries the raw measurements for one request.
type Input struct {
	RequestID          string
	Start              time.Time
	End                time.Time
	TokensIn           int
	TokensOut          int
	CostUSD            float64
	Model              string
	PIIDetected        bool
	HallucinationScore float64
	DriftScore         float64
	UserHash           string
}

// New assembles a Record from raw measurements. Pure, no I/O. Negative
// latency from clock skew is clamped to zero rather than propagated; all
// other numerics are clamped non-negative and non-finite scores collapse
// to zero.
func New(in Input) Record {
	// Rounded to the nearest millisecond, not truncated.
	latency := in.End.Sub(in.Start).Round(time.Millisecond).Milliseconds()
	if latency < 0 {
		latency = 0
	}

	flags := []string{}
	if in.PIIDetected {
		flags = append(flags, FlagPIIRedacted)
	}

	userHash := in.UserHash
	if userHash == "" {
		userHash = AnonUserHash
	}

	return Record{
		RequestID:          in.RequestID,
		TimestampMs:        in.End.UnixMilli(),
		LatencyMs:          latency,
		TokensIn:           clampInt(in.TokensIn),
		TokensOut:          clampInt(in.TokensOut),
		CostUSD:            clampFloat(in.CostUSD),
		Model:              in.Model,
		PIIDetected:        in.PIIDetected,
		SafetyFlags:        flags,
		HallucinationScore: clampFloat(in.HallucinationScore),
		DriftScore:         clampFloat(in.DriftScore),
		UserHash:           userHash,
	}
}

// UserHash derives a short, non-reversible-in-intent identifier from a
// caller identity string. Empty identity maps to the anonymous placeholder.
func UserHash(identity string) string {
	if identity == "" {
		return AnonUserHash
	}
	enc := base64.StdEncoding.EncodeToString([]byte(identity))
	if len(enc) > 8 {
		enc = enc[:8]
	}
	return enc
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

package incident

import (
	"strings"
	"testing"
	"time"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"
)

func TestClassifySlowRequestWithPII(t *testing.T) {
	out := Outcome{
		Record: telemetry.Record{
			RequestID:   "abcd1234-rest",
			LatencyMs:   3000,
			PIIDetected: true,
		},
		Succeeded: true,
	}

	cands := Classify(out, DefaultThresholds())
	if len(cands) != 2 {
		t.Fatalf("expected exactly 2 candidates, got %d: %v", len(cands), cands)
	}

	byType := map[Type]Candidate{}
	for _, c := range cands {
		byType[c.Type] = c
	}

	lat, ok := byType[TypeLatency]
	if !ok {
		t.Fatal("missing LATENCY candidate")
	}
	if !strings.Contains(lat.Message, "3000ms") || !strings.Contains(lat.Message, "abcd1234") {
		t.Errorf("latency message lacks context: %q", lat.Message)
	}

	if _, ok := byType[TypeSafety]; !ok {
		t.Fatal("missing SAFETY candidate")
	}

	for _, c := range cands {
		if got := SeverityFor(c.Type); got != SeverityCritical {
			t.Errorf("%s severity = %s, want CRITICAL", c.Type, got)
		}
	}
}

func TestClassifyFailureOnlyErrorRate(t *testing.T) {
	// A failed request yields exactly one ERROR_RATE no matter what the
	// telemetry values say.
	out := Outcome{
		Record: telemetry.Record{
			RequestID:          "failfast",
			LatencyMs:          9999,
			PIIDetected:        true,
			HallucinationScore: 0.9,
		},
		Succeeded:     false,
		FailureReason: "upstream returned HTTP 500",
	}

	cands := Classify(out, DefaultThresholds())
	if len(cands) != 1 {
		t.Fatalf("expected exactly 1 candidate, got %d: %v", len(cands), cands)
	}
	if cands[0].Type != TypeErrorRate {
		t.Errorf("type = %s, want ERROR_RATE", cands[0].Type)
	}
	if !strings.Contains(cands[0].Message, "HTTP 500") {
		t.Errorf("failure reason not surfaced: %q", cands[0].Message)
	}
}

func TestClassifyQuietRecord(t *testing.T) {
	out := Outcome{
		Record:    telemetry.Record{RequestID: "calm", LatencyMs: 800},
		Succeeded: true,
	}
	if cands := Classify(out, DefaultThresholds()); len(cands) != 0 {
		t.Errorf("expected no candidates, got %v", cands)
	}
}

func TestClassifyHallucinationAndDrift(t *testing.T) {
	out := Outcome{
		Record: telemetry.Record{
			RequestID:          "scores",
			HallucinationScore: 0.11,
			DriftScore:         0.14,
		},
		Succeeded: true,
	}

	cands := Classify(out, DefaultThresholds())
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(cands), cands)
	}
	if cands[0].Type != TypeHallucination || cands[1].Type != TypeDrift {
		t.Errorf("unexpected candidate types: %v", cands)
	}
	if SeverityFor(TypeHallucination) != SeverityInfo {
		t.Error("HALLUCINATION severity must be INFO")
	}
	if SeverityFor(TypeDrift) != SeverityWarning {
		t.Error("DRIFT severity must be WARNING")
	}
}

func TestClassifyThresholdBoundary(t *testing.T) {
	// Exactly at threshold must not fire; the rules are strict greater-than.
	out := Outcome{
		Record: telemetry.Record{
			RequestID:          "edge",
			LatencyMs:          DefaultLatencyThresholdMs,
			HallucinationScore: DefaultHallucinationThreshold,
		},
		Succeeded: true,
	}
	if cands := Classify(out, DefaultThresholds()); len(cands) != 0 {
		t.Errorf("boundary values fired: %v", cands)
	}
}

func TestNewMaterializesCandidate(t *testing.T) {
	now := time.UnixMilli(42_000)
	inc := New(Candidate{Type: TypeLatency, Message: "slow"}, now)

	if !strings.HasPrefix(inc.ID, "INC-") || len(inc.ID) != 13 {
		t.Errorf("bad incident id: %q", inc.ID)
	}
	if inc.Severity != SeverityCritical {
		t.Errorf("severity = %s", inc.Severity)
	}
	if inc.RemediationStatus != RemediationPending {
		t.Errorf("remediation = %s, want PENDING", inc.RemediationStatus)
	}
	if inc.TimestampMs != 42_000 {
		t.Errorf("timestamp = %d", inc.TimestampMs)
	}
	if inc.PlaybookLink != PlaybookFor(TypeLatency) {
		t.Errorf("playbook = %q", inc.PlaybookLink)
	}
}

func TestNewIDsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

func TestSimulateCandidate(t *testing.T) {
	c := Simulate(TypeBurnRate, "operator fire drill")
	if c.Type != TypeBurnRate || c.Message != "operator fire drill" {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if SeverityFor(TypeBurnRate) != SeverityWarning {
		t.Error("BURN_RATE severity must be WARNING")
	}
}

func TestPlaybookTableExhaustive(t *testing.T) {
	for _, typ := range Types {
		if PlaybookFor(typ) == "" {
			t.Errorf("no playbook for %s", typ)
		}
		if SeverityFor(typ) == "" {
			t.Errorf("no severity for %s", typ)
		}
	}
}

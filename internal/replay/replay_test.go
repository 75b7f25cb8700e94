package replay

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"
)

// writeLog records three requests: one fast and clean, one at 3s latency
// that fired a LATENCY incident, one failed with an ERROR_RATE incident.
func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := audit.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer log.Close()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	write := func(id string, latencyMs int64, succeeded bool, incTypes ...incident.Type) {
		rec := telemetry.New(telemetry.Input{
			RequestID: id,
			Start:     base,
			End:       base.Add(time.Duration(latencyMs) * time.Millisecond),
			TokensIn:  100,
			TokensOut: 200,
			Model:     "gemini-3-flash-preview",
			UserHash:  "dGVzdA==",
		})
		reason := ""
		if !succeeded {
			reason = "upstream 500"
		}
		if err := log.RecordRequest(rec, succeeded, reason, "cfg"); err != nil {
			t.Fatalf("record request: %v", err)
		}
		for _, it := range incTypes {
			inc := incident.New(incident.Candidate{Type: it, Message: "recorded"}, base)
			if err := log.RecordIncident(inc, id, false); err != nil {
				t.Fatalf("record incident: %v", err)
			}
		}
	}

	write("req-fast", 400, true)
	write("req-slow", 3000, true, incident.TypeLatency)
	write("req-fail", 1200, false, incident.TypeErrorRate)
	return path
}

func TestReplayNoChangesUnderSameThresholds(t *testing.T) {
	path := writeLog(t)

	res, err := Replay(path, incident.DefaultThresholds())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if res.TotalRequests != 3 {
		t.Errorf("total = %d, want 3", res.TotalRequests)
	}
	if res.ChangedRequests != 0 {
		t.Errorf("changed = %d, want 0: %+v", res.ChangedRequests, res.Changes)
	}
}

func TestReplayTighterLatency(t *testing.T) {
	path := writeLog(t)

	th := incident.DefaultThresholds()
	th.LatencyMs = 300
	res, err := Replay(path, th)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	// Both successful requests now exceed 300ms; the failed request is
	// still a single ERROR_RATE and does not change.
	if res.NewlyFiring != 1 {
		t.Errorf("newly firing = %d, want 1 (req-fast gains LATENCY)", res.NewlyFiring)
	}
	if res.NewlySilent != 0 {
		t.Errorf("newly silent = %d, want 0", res.NewlySilent)
	}
	if res.ChangedRequests != 1 {
		t.Fatalf("changed = %d, want 1", res.ChangedRequests)
	}
	d := res.Changes[0]
	if d.RequestID != "req-fast" || len(d.Added) != 1 || d.Added[0] != incident.TypeLatency {
		t.Errorf("unexpected diff: %+v", d)
	}
}

func TestReplayLooserLatency(t *testing.T) {
	path := writeLog(t)

	th := incident.DefaultThresholds()
	th.LatencyMs = 10000
	res, err := Replay(path, th)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if res.NewlySilent != 1 {
		t.Fatalf("newly silent = %d, want 1 (req-slow loses LATENCY)", res.NewlySilent)
	}
	d := res.Changes[0]
	if d.RequestID != "req-slow" || len(d.Removed) != 1 || d.Removed[0] != incident.TypeLatency {
		t.Errorf("unexpected diff: %+v", d)
	}
}

func TestReplayMissingLog(t *testing.T) {
	if _, err := Replay(filepath.Join(t.TempDir(), "absent.log"), incident.DefaultThresholds()); err == nil {
		t.Fatal("expected error for missing log")
	}
}

func TestFormatText(t *testing.T) {
	path := writeLog(t)
	th := incident.DefaultThresholds()
	th.LatencyMs = 300
	res, err := Replay(path, th)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	out := FormatText(res)
	if out == "" {
		t.Fatal("empty output")
	}
	for _, want := range []string{"CHANGED", "req-fast", "1 of 3 requests changed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

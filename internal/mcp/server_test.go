package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/architect"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/score"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/session"
)

type stubGen struct{}

func (stubGen) Generate(ctx context.Context, problem string) (*architect.SolutionRecommendation, error) {
	return &architect.SolutionRecommendation{
		ProblemSummary:       "summary",
		RecommendedServices:  []architect.CloudService{{Name: "Cloud Run", Reason: "stateless"}},
		ArchitectureOverview: "overview",
	}, nil
}

func (stubGen) Model() string { return "gemini-3-flash-preview" }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess, err := session.New(session.Options{
		Generator: stubGen{},
		Scorer:    score.Fixed{},
		SafeModeN: 3,
		Cooldown:  30 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	s := New(sess)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestArchitectTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleArchitect(ctx, &mcpsdk.CallToolRequest{}, ArchitectInput{
		Problem: "design a photo upload service",
		User:    "alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatal("expected success, got error result")
	}
	if out.Solution == nil || out.Solution.ProblemSummary == "" {
		t.Fatal("expected a populated solution")
	}
	if out.RequestID == "" {
		t.Fatal("expected a request id")
	}
}

func TestArchitectToolRejectsEmpty(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleArchitect(ctx, &mcpsdk.CallToolRequest{}, ArchitectInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected IsError result for empty problem")
	}
	if !out.Rejected {
		t.Fatal("expected rejected=true")
	}
}

func TestSimulateAndIncidentsTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, simOut, err := s.handleSimulate(ctx, &mcpsdk.CallToolRequest{}, SimulateInput{
		Type:    "DRIFT",
		Message: "fire drill",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(simOut.Incident.ID, "INC-") {
		t.Fatalf("unexpected incident id %q", simOut.Incident.ID)
	}
	if simOut.Incident.Severity != "WARNING" {
		t.Fatalf("expected WARNING for DRIFT, got %q", simOut.Incident.Severity)
	}

	_, listOut, err := s.handleIncidents(ctx, &mcpsdk.CallToolRequest{}, IncidentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listOut.Incidents) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(listOut.Incidents))
	}
}

func TestSimulateToolUnknownType(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleSimulate(ctx, &mcpsdk.CallToolRequest{}, SimulateInput{Type: "BOGUS"}); err == nil {
		t.Fatal("expected error for unknown incident type")
	}
}

func TestStatusToolReflectsSafeMode(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleStatus(ctx, &mcpsdk.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SafeModeActive {
		t.Fatal("safe mode should start inactive")
	}

	for i := 0; i < 5; i++ {
		if _, _, err := s.handleSimulate(ctx, &mcpsdk.CallToolRequest{}, SimulateInput{Type: "LATENCY"}); err != nil {
			t.Fatalf("simulate %d: %v", i, err)
		}
	}

	_, out, err = s.handleStatus(ctx, &mcpsdk.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.SafeModeActive {
		t.Fatal("safe mode should be active after five incidents")
	}
	if out.Incidents != 5 {
		t.Fatalf("expected 5 incidents, got %d", out.Incidents)
	}
}

func TestToolRegistration(t *testing.T) {
	s := newTestServer(t)
	if s.mcpServer == nil {
		t.Fatal("expected MCP server to be initialized")
	}
}

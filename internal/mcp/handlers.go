package mcp

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/architect"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/session"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"
)

// --- Input/Output types ---

// ArchitectInput defines parameters for the partnerai_architect tool.
type ArchitectInput struct {
	Problem string `json:"problem" jsonschema:"business or technical problem to architect for"`
	User    string `json:"user,omitempty" jsonschema:"caller identity, hashed before storage"`
}

// ArchitectOutput contains the recommendation or rejection details.
type ArchitectOutput struct {
	RequestID string                            `json:"request_id,omitempty"`
	Solution  *architect.SolutionRecommendation `json:"solution,omitempty"`
	Telemetry *telemetry.Record                 `json:"telemetry,omitempty"`
	Incidents []IncidentItem                    `json:"incidents,omitempty"`
	Rejected  bool                              `json:"rejected,omitempty"`
	Reason    string                            `json:"reason,omitempty"`
}

// IncidentsInput is empty. No parameters needed.
type IncidentsInput struct{}

// IncidentsOutput lists the session's incidents.
type IncidentsOutput struct {
	Incidents []IncidentItem `json:"incidents"`
}

// IncidentItem is the tool-facing view of one incident.
type IncidentItem struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp_ms"`
}

// SimulateInput defines parameters for the partnerai_simulate tool.
type SimulateInput struct {
	Type    string `json:"type" jsonschema:"incident type (LATENCY/ERROR_RATE/SAFETY/BURN_RATE/DRIFT/HALLUCINATION)"`
	Message string `json:"message,omitempty" jsonschema:"incident message, defaults to a fire-drill note"`
}

// SimulateOutput confirms the injected incident.
type SimulateOutput struct {
	Incident IncidentItem `json:"incident"`
	SafeMode bool         `json:"safe_mode_active"`
}

// StatusInput is empty. No parameters needed.
type StatusInput struct{}

// StatusOutput summarizes the session for operators.
type StatusOutput struct {
	SafeModeActive bool    `json:"safe_mode_active"`
	CooldownMs     int64   `json:"cooldown_ms,omitempty"`
	Requests       int     `json:"requests"`
	Incidents      int     `json:"incidents"`
	CostUSD        float64 `json:"cost_usd"`
	TokensIn       int     `json:"tokens_in"`
	TokensOut      int     `json:"tokens_out"`
	LatencyMs      int64   `json:"latency_threshold_ms"`
	Hallucination  float64 `json:"hallucination_threshold"`
	Drift          float64 `json:"drift_threshold"`
}

// --- Handlers ---

func (s *Server) handleArchitect(ctx context.Context, req *mcpsdk.CallToolRequest, input ArchitectInput) (*mcpsdk.CallToolResult, ArchitectOutput, error) {
	res, err := s.sess.Submit(ctx, input.Problem, input.User)
	if err != nil {
		if errors.Is(err, session.ErrSafeMode) || errors.Is(err, session.ErrBusy) || errors.Is(err, session.ErrEmptyProblem) {
			out := ArchitectOutput{Rejected: true, Reason: err.Error()}
			return &mcpsdk.CallToolResult{IsError: true}, out, nil
		}
		return nil, ArchitectOutput{}, err
	}

	return nil, ArchitectOutput{
		RequestID: res.RequestID,
		Solution:  res.Solution,
		Telemetry: &res.Record,
		Incidents: toItems(res.NewIncidents),
	}, nil
}

func (s *Server) handleIncidents(ctx context.Context, req *mcpsdk.CallToolRequest, input IncidentsInput) (*mcpsdk.CallToolResult, IncidentsOutput, error) {
	return nil, IncidentsOutput{Incidents: toItems(s.sess.Incidents())}, nil
}

func (s *Server) handleSimulate(ctx context.Context, req *mcpsdk.CallToolRequest, input SimulateInput) (*mcpsdk.CallToolResult, SimulateOutput, error) {
	inc, err := s.sess.SimulateIncident(incident.Type(input.Type), input.Message)
	if err != nil {
		return nil, SimulateOutput{}, err
	}
	return nil, SimulateOutput{
		Incident: toItem(inc),
		SafeMode: s.sess.SafeMode().Active,
	}, nil
}

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	state := s.sess.SafeMode()
	usage := s.sess.Usage()
	th := s.sess.Thresholds()

	out := StatusOutput{
		SafeModeActive: state.Active,
		Requests:       len(s.sess.History()),
		Incidents:      len(s.sess.Incidents()),
		CostUSD:        usage.CostUSD,
		TokensIn:       usage.TokensIn,
		TokensOut:      usage.TokensOut,
		LatencyMs:      th.LatencyMs,
		Hallucination:  th.Hallucination,
		Drift:          th.Drift,
	}
	if state.Active {
		out.CooldownMs = state.CooldownMs
	}
	return nil, out, nil
}

// --- Helpers ---

func toItem(inc incident.Incident) IncidentItem {
	return IncidentItem{
		ID:        inc.ID,
		Type:      string(inc.Type),
		Severity:  string(inc.Severity),
		Message:   inc.Message,
		Status:    string(inc.RemediationStatus),
		Timestamp: inc.TimestampMs,
	}
}

func toItems(incs []incident.Incident) []IncidentItem {
	items := make([]IncidentItem, len(incs))
	for i, inc := range incs {
		items[i] = toItem(inc)
	}
	return items
}

// Package session owns the per-session state of the assistant: the
// telemetry history, the incident list, and the safe-mode breaker. All
// mutation happens on a single logical thread of control in response to a
// completed model call or a manual simulate action; the mutex only fences
// snapshot readers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/alert"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/architect"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/audit"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/budget"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/cost"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/metrics"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/redact"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/safemode"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/score"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/store"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/telemetry"
)

// Boundary rejections surfaced to the caller. Both are recoverable: the
// caller may retry later.
var (
	ErrSafeMode     = errors.New("safe mode active: submissions are temporarily disabled")
	ErrBusy         = errors.New("a submission is already in flight")
	ErrEmptyProblem = errors.New("problem description is empty")
)

// Generator is the external model-calling collaborator. Only redacted text
// may be passed to it.
type Generator interface {
	Generate(ctx context.Context, problem string) (*architect.SolutionRecommendation, error)
	Model() string
}

// HistoryItem pairs a request's recommendation with its telemetry record.
// Solution is nil for failed requests. Problem holds the redacted text;
// raw input is never retained.
type HistoryItem struct {
	ID        string                            `json:"id"`
	Problem   string                            `json:"problem"`
	Solution  *architect.SolutionRecommendation `json:"solution,omitempty"`
	Telemetry telemetry.Record                  `json:"telemetry"`
}

// Result is the outcome of a successful submission.
type Result struct {
	RequestID    string
	Solution     *architect.SolutionRecommendation
	Record       telemetry.Record
	NewIncidents []incident.Incident
}

// Options wires a Session's collaborators. Generator is required; Store,
// Audit, and Alerts are optional, and a nil Scorer falls back to the
// bounded random scorer.
type Options struct {
	Generator  Generator
	Scorer     score.Scorer
	Thresholds incident.Thresholds
	SafeModeN  int
	Cooldown   time.Duration
	BudgetUSD  float64
	Store      *store.Store
	Audit      *audit.Log
	Alerts     *alert.Dispatcher
	ConfigHash string

	// Now and Schedule override time for deterministic tests.
	Now      func() time.Time
	Schedule func(d time.Duration, fn func()) *time.Timer
}

// Session is the request-handling context for one UI session.
type Session struct {
	mu sync.Mutex

	gen        Generator
	scorer     score.Scorer
	thresholds incident.Thresholds
	breaker    *safemode.Controller
	st         *store.Store
	auditLog   *audit.Log
	alerts     *alert.Dispatcher
	configHash string
	now        func() time.Time

	budgetCap float64
	usage     budget.Usage
	burnFired bool

	history   []HistoryItem       // newest first
	incidents []incident.Incident // newest first
	inFlight  bool
}

// New creates a session and loads any persisted history. A corrupt or
// missing history blob is recovered as empty, never an error.
func New(opts Options) (*Session, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("session: generator is required")
	}
	if opts.Scorer == nil {
		opts.Scorer = score.NewRandomScorer()
	}
	if opts.Thresholds == (incident.Thresholds{}) {
		opts.Thresholds = incident.DefaultThresholds()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var smOpts []safemode.Option
	if opts.Schedule != nil {
		smOpts = append(smOpts, safemode.WithSchedule(opts.Schedule))
	}
	smOpts = append(smOpts, safemode.WithOnClear(func() {
		metrics.SafeModeActive.Set(0)
		fmt.Fprintf(os.Stderr, "session: safe mode cleared, submissions re-enabled\n")
	}))

	s := &Session{
		gen:        opts.Generator,
		scorer:     opts.Scorer,
		thresholds: opts.Thresholds,
		breaker:    safemode.New(opts.SafeModeN, opts.Cooldown, smOpts...),
		st:         opts.Store,
		auditLog:   opts.Audit,
		alerts:     opts.Alerts,
		configHash: opts.ConfigHash,
		now:        opts.Now,
		budgetCap:  opts.BudgetUSD,
	}
	s.loadHistory()
	return s, nil
}

// loadHistory reads the persisted blob once at session start.
func (s *Session) loadHistory() {
	if s.st == nil {
		return
	}
	blob, ok, err := s.st.Get(store.HistoryKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session: read history: %v\n", err)
		return
	}
	if !ok {
		return
	}
	var items []HistoryItem
	if err := json.Unmarshal(blob, &items); err != nil {
		fmt.Fprintf(os.Stderr, "session: corrupt history blob, starting empty: %v\n", err)
		return
	}
	s.history = items
}

// persistHistory writes the full history blob. Failures are logged, not
// surfaced: persistence is best-effort.
func (s *Session) persistHistory() {
	if s.st == nil {
		return
	}
	blob, err := json.Marshal(s.history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session: marshal history: %v\n", err)
		return
	}
	if err := s.st.Set(store.HistoryKey, blob); err != nil {
		fmt.Fprintf(os.Stderr, "session: persist history: %v\n", err)
	}
}

// Submit runs one problem through the full pipeline: redact, call the
// model, derive telemetry, classify incidents, update safe mode, persist.
// While the breaker is locked or a call is outstanding the submission is
// rejected at the boundary; nothing is queued.
func (s *Session) Submit(ctx context.Context, problem, identity string) (*Result, error) {
	if problem == "" {
		return nil, ErrEmptyProblem
	}

	now := s.now()
	s.mu.Lock()
	if s.breaker.Active(now) {
		s.mu.Unlock()
		metrics.RequestsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrSafeMode
	}
	if s.inFlight {
		s.mu.Unlock()
		metrics.RequestsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrBusy
	}
	s.inFlight = true
	// Snapshot the reloadable config while the lock is held: the hot-reload
	// goroutine may swap thresholds and the config hash mid-call.
	th := s.thresholds
	cfgHash := s.configHash
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	requestID := uuid.NewString()
	redacted, piiDetected := redact.Redact(problem)

	// The external call is the only suspension point. No timeout is
	// enforced here; slow calls surface as LATENCY incidents afterwards.
	start := s.now()
	sol, callErr := s.gen.Generate(ctx, redacted)
	end := s.now()

	tokensIn := cost.EstimateTokens(redacted)
	tokensOut := 0
	responseText := ""
	if callErr == nil {
		raw, _ := json.Marshal(sol)
		responseText = string(raw)
		tokensOut = cost.EstimateTokens(responseText)
	}
	costUSD := cost.Estimate(s.gen.Model(), tokensIn, tokensOut)

	var hallucination, drift float64
	if callErr == nil {
		hallucination = s.scorer.Hallucination(redacted, responseText)
		drift = s.scorer.Drift()
	}

	rec := telemetry.New(telemetry.Input{
		RequestID:          requestID,
		Start:              start,
		End:                end,
		TokensIn:           tokensIn,
		TokensOut:          tokensOut,
		CostUSD:            costUSD,
		Model:              s.gen.Model(),
		PIIDetected:        piiDetected,
		HallucinationScore: hallucination,
		DriftScore:         drift,
		UserHash:           telemetry.UserHash(identity),
	})

	outcome := incident.Outcome{Record: rec, Succeeded: callErr == nil}
	if callErr != nil {
		outcome.FailureReason = callErr.Error()
	}
	candidates := incident.Classify(outcome, th)

	s.mu.Lock()
	s.history = append([]HistoryItem{{
		ID:        requestID,
		Problem:   redacted,
		Solution:  sol,
		Telemetry: rec,
	}}, s.history...)

	s.usage.Add(rec.CostUSD, rec.TokensIn, rec.TokensOut)
	if res := budget.Check(s.usage, s.budgetCap); res.Exceeded && !s.burnFired {
		s.burnFired = true
		candidates = append(candidates, incident.Candidate{
			Type:    incident.TypeBurnRate,
			Message: res.Reason,
		})
	}

	var created []incident.Incident
	for _, c := range candidates {
		created = append(created, s.appendIncidentLocked(c, requestID, false))
	}
	s.persistHistory()
	s.mu.Unlock()

	s.observeRequest(rec, callErr)
	if s.auditLog != nil {
		if err := s.auditLog.RecordRequest(rec, callErr == nil, outcome.FailureReason, cfgHash); err != nil {
			fmt.Fprintf(os.Stderr, "session: audit request: %v\n", err)
		}
	}

	if callErr != nil {
		return nil, fmt.Errorf("failed to generate solution: %w", callErr)
	}
	return &Result{
		RequestID:    requestID,
		Solution:     sol,
		Record:       rec,
		NewIncidents: created,
	}, nil
}

// SimulateIncident synthesizes an incident of the given type with an
// operator-supplied message — the fire-drill path. It bypasses telemetry
// but still drives the safe-mode check.
func (s *Session) SimulateIncident(t incident.Type, message string) (incident.Incident, error) {
	if !t.Valid() {
		return incident.Incident{}, fmt.Errorf("unknown incident type %q", t)
	}
	if message == "" {
		message = fmt.Sprintf("Simulated %s incident (operator fire drill)", t)
	}

	s.mu.Lock()
	inc := s.appendIncidentLocked(incident.Simulate(t, message), "", true)
	s.mu.Unlock()
	return inc, nil
}

// appendIncidentLocked materializes a candidate, runs the safe-mode check
// against the pre-append count, prepends the incident, and fans out
// observers. Caller holds s.mu.
func (s *Session) appendIncidentLocked(c incident.Candidate, requestID string, simulated bool) incident.Incident {
	now := s.now()
	inc := incident.New(c, now)

	// The breaker reads the count of incidents already stored, before this
	// append. Kept as-is for compatibility with observed behavior.
	if s.breaker.NoteIncident(len(s.incidents), now) {
		metrics.SafeModeActivations.Inc()
		metrics.SafeModeActive.Set(1)
		fmt.Fprintf(os.Stderr, "session: safe mode activated after %d incidents\n", len(s.incidents))
		if s.auditLog != nil {
			if err := s.auditLog.RecordSafeMode(true); err != nil {
				fmt.Fprintf(os.Stderr, "session: audit safe mode: %v\n", err)
			}
		}
	}

	s.incidents = append([]incident.Incident{inc}, s.incidents...)
	metrics.IncidentsTotal.WithLabelValues(string(inc.Type), string(inc.Severity)).Inc()

	if s.auditLog != nil {
		if err := s.auditLog.RecordIncident(inc, requestID, simulated); err != nil {
			fmt.Fprintf(os.Stderr, "session: audit incident: %v\n", err)
		}
	}
	if s.alerts != nil {
		s.alerts.Dispatch(alert.AlertEvent{
			Timestamp:    now.UTC().Format("2006-01-02T15:04:05.000Z"),
			IncidentID:   inc.ID,
			Type:         string(inc.Type),
			Severity:     string(inc.Severity),
			Message:      inc.Message,
			PlaybookLink: inc.PlaybookLink,
			RequestID:    requestID,
			SafeMode:     s.breaker.Active(now),
		})
	}
	return inc
}

func (s *Session) observeRequest(rec telemetry.Record, callErr error) {
	outcome := "success"
	if callErr != nil {
		outcome = "failure"
	}
	metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	metrics.RequestDuration.Observe(float64(rec.LatencyMs) / 1000)
	metrics.TokensTotal.WithLabelValues("in").Add(float64(rec.TokensIn))
	metrics.TokensTotal.WithLabelValues("out").Add(float64(rec.TokensOut))
	metrics.CostUSDTotal.Add(rec.CostUSD)
	if rec.PIIDetected {
		metrics.PIIRedactionsTotal.Inc()
	}
}

// UpdateConfig atomically swaps the reloadable parts of the session:
// classifier thresholds, alert destinations, and the budget cap. Called
// by the config hot-reloader.
func (s *Session) UpdateConfig(th incident.Thresholds, alerts *alert.Dispatcher, budgetUSD float64, configHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds = th
	s.alerts = alerts
	s.budgetCap = budgetUSD
	s.configHash = configHash
}

// Thresholds returns the active classifier thresholds.
func (s *Session) Thresholds() incident.Thresholds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thresholds
}

// History returns a copy of the history list, newest first.
func (s *Session) History() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

// Incidents returns a copy of the incident list, newest first.
func (s *Session) Incidents() []incident.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]incident.Incident, len(s.incidents))
	copy(out, s.incidents)
	return out
}

// SafeMode returns the current breaker snapshot.
func (s *Session) SafeMode() safemode.State {
	return s.breaker.Snapshot(s.now())
}

// Usage returns the session's accumulated consumption.
func (s *Session) Usage() budget.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// ClearIncidents is the operator reset of the incident list. The budget
// latch is re-armed so a sustained burn re-fires after a clear.
func (s *Session) ClearIncidents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = nil
	s.burnFired = false
}

// ClearHistory drops the stored history and persists the empty list.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.persistHistory()
}

// Close cancels the pending safe-mode reset. The session is not usable
// afterwards.
func (s *Session) Close() {
	s.breaker.Stop()
}

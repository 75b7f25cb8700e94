// Package server exposes the session over a local HTTP JSON API, plus
// Prometheus metrics and a config hot-reloader.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/alert"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/export"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/session"
)

// maxRequestBody bounds architect request payloads.
const maxRequestBody = 1 << 20

// Config holds HTTP server configuration.
type Config struct {
	Addr       string
	ConfigPath string
}

// Server serves the session state over HTTP.
type Server struct {
	sess *session.Session
	cfg  Config
	mux  *http.ServeMux
	srv  *http.Server
}

// New wires the routes for a running session.
func New(sess *session.Session, cfg Config) *Server {
	s := &Server{
		sess: sess,
		cfg:  cfg,
		mux:  http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /v1/architect", s.handleArchitect)
	s.mux.HandleFunc("GET /v1/history", s.handleHistory)
	s.mux.HandleFunc("GET /v1/incidents", s.handleIncidents)
	s.mux.HandleFunc("POST /v1/incidents/simulate", s.handleSimulate)
	s.mux.HandleFunc("POST /v1/incidents/clear", s.handleClear)
	s.mux.HandleFunc("GET /v1/status", s.handleStatus)
	s.mux.HandleFunc("GET /v1/export/datadog", s.handleExport)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s
}

// Serve starts the HTTP server on the configured address. Blocks until
// shut down.
func (s *Server) Serve() error {
	s.srv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	fmt.Fprintf(os.Stderr, "server: listening on %s\n", s.cfg.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeOn serves on the given listener. For testing.
func (s *Server) ServeOn(lis net.Listener) error {
	s.srv = &http.Server{Handler: s.mux}
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the route mux. For testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// ReloadConfig re-reads the config file and swaps the session's
// reloadable parameters. Called by the hot-reloader on file change.
func (s *Server) ReloadConfig() error {
	cfg, hash, err := config.LoadConfigWithHash(s.cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	s.sess.UpdateConfig(cfg.Thresholds, alert.NewDispatcher(cfg.Alerts), cfg.Budget.MaxCostUSD, hash)
	return nil
}

type architectRequest struct {
	Problem string `json:"problem"`
	User    string `json:"user,omitempty"`
}

type architectResponse struct {
	RequestID string              `json:"request_id"`
	Solution  any                 `json:"solution"`
	Telemetry any                 `json:"telemetry"`
	Incidents []incident.Incident `json:"incidents"`
}

func (s *Server) handleArchitect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req architectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.sess.Submit(r.Context(), req.Problem, req.User)
	switch {
	case errors.Is(err, session.ErrEmptyProblem):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, session.ErrSafeMode):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	incidents := res.NewIncidents
	if incidents == nil {
		incidents = []incident.Incident{}
	}
	writeJSON(w, http.StatusOK, architectResponse{
		RequestID: res.RequestID,
		Solution:  res.Solution,
		Telemetry: res.Record,
		Incidents: incidents,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.History())
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	incidents := s.sess.Incidents()
	if incidents == nil {
		incidents = []incident.Incident{}
	}
	writeJSON(w, http.StatusOK, incidents)
}

type simulateRequest struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inc, err := s.sess.SimulateIncident(incident.Type(req.Type), req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.sess.ClearIncidents()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// statusResponse is the operator dashboard summary.
type statusResponse struct {
	SafeMode   any                 `json:"safe_mode"`
	Usage      any                 `json:"usage"`
	Thresholds incident.Thresholds `json:"thresholds"`
	Requests   int                 `json:"requests"`
	Incidents  int                 `json:"incidents"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		SafeMode:   s.sess.SafeMode(),
		Usage:      s.sess.Usage(),
		Thresholds: s.sess.Thresholds(),
		Requests:   len(s.sess.History()),
		Incidents:  len(s.sess.Incidents()),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := export.DatadogJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="partner-ai-dashboard.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

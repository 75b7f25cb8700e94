// Package mcp exposes the assistant over the Model Context Protocol so
// agent frontends can request architectures and inspect incidents through
// stdio transport.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/session"
)

// Server wraps the MCP SDK server around a running session.
type Server struct {
	mcpServer *mcpsdk.Server
	sess      *session.Session
}

// New creates an MCP server with the assistant tools registered.
func New(sess *session.Session) *Server {
	s := &Server{sess: sess}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "partnerai",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the session's breaker timer.
func (s *Server) Close() error {
	s.sess.Close()
	return nil
}

// registerTools adds all assistant tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "partnerai_architect",
		Description: "Request a cloud architecture recommendation for a problem statement. PII is redacted before the model call. Rejected while safe mode is active.",
	}, s.handleArchitect)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "partnerai_incidents",
		Description: "List the session's incidents, newest first.",
	}, s.handleIncidents)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "partnerai_simulate",
		Description: "Inject a synthetic incident of a given type to exercise alerting and the safe-mode breaker.",
	}, s.handleSimulate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "partnerai_status",
		Description: "Report safe-mode state, session spend, and active classification thresholds.",
	}, s.handleStatus)
}

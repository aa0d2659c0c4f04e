// ABOUTME: MCP server setup for the stepBox tracker.
// ABOUTME: Exposes read-only tools and resources; mutations stay in the CLI.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stepbox/stepbox/internal/tracker"
)

// Server wraps the MCP server with tracker access. All tools are read-only:
// an AI assistant can inspect progress but never mutate challenge state.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Tracker
}

// NewServer creates a new MCP server over the given tracker.
func NewServer(tr *tracker.Tracker) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "stepbox",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tracker:   tr,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// ABOUTME: MCP server setup for the digestive health assistant.
// ABOUTME: Exposes the entity stores and the AI chat as tools and resources.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/ai"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

// Deps are the stores and services the MCP tools operate on. Identity
// must be resolved before serving; tools fail on a nil current user.
type Deps struct {
	Identity  store.Identity
	Symptoms  *store.SymptomStore
	FoodLogs  *store.FoodLogStore
	Foods     *store.FoodStore
	Reports   *store.ReportStore
	Dashboard *store.DashboardStore
	Chat      *store.ConversationStore
	AI        *ai.Gateway
}

// Server wraps the MCP server with store access.
type Server struct {
	mcpServer *mcp.Server
	deps      Deps
}

// NewServer creates a new MCP server over the given dependencies.
func NewServer(deps Deps) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "digestai",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		deps:      deps,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

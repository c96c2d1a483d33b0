package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Backend is the read side of the dashboard the tools query.
type Backend interface {
	Fetch(ctx context.Context, section string) (map[string]any, error)
	FetchDocuments(ctx context.Context, q string) (map[string]any, error)
}

// Server wraps an MCP server that exposes read-only Hydra tools.
type Server struct {
	backend Backend
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server backed by the given dashboard.
func NewServer(backend Backend) *Server {
	s := &Server{backend: backend}

	s.mcp = server.NewMCPServer(
		"hydradash",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(hydraStatusTool, s.handleHydraStatus)
	s.mcp.AddTool(listLibrariesTool, s.handleListLibraries)
	s.mcp.AddTool(queryDocumentsTool, s.handleQueryDocuments)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

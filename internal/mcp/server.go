package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/registry"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the API catalog to agents.
type Server struct {
	catalog registry.Mutations
	logger  *zap.Logger
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over the given catalog.
func NewServer(catalog registry.Mutations, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog: catalog,
		logger:  logger,
	}

	s.mcp = server.NewMCPServer(
		"apiportal",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listCatalogTool, s.handleListCatalog)
	s.mcp.AddTool(getAPITool, s.handleGetAPI)
	s.mcp.AddTool(addAPITool, s.handleAddAPI)
	s.mcp.AddTool(removeAPITool, s.handleRemoveAPI)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// Package mcp exposes course-material search over the Model Context
// Protocol so AI agents can ground themselves in indexed class content.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/akelani/classchat/internal/catalog"
	"github.com/akelani/classchat/internal/qa"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes course-material search tools.
type Server struct {
	retriever *qa.Retriever
	catalog   *catalog.Catalog
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(retriever *qa.Retriever, cat *catalog.Catalog) *Server {
	s := &Server{
		retriever: retriever,
		catalog:   cat,
	}

	s.mcp = server.NewMCPServer(
		"classchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCourseMaterialsTool, s.handleSearchCourseMaterials)
	s.mcp.AddTool(listCoursesTool, s.handleListCourses)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

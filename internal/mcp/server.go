package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
	"github.com/aidenkiefer/site-assistant/internal/retrieval"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server    *mcp.Server
	store     *corpus.Store
	retriever *retrieval.Retriever
}

// Config holds server dependencies.
type Config struct {
	Store     *corpus.Store
	Retriever *retrieval.Retriever
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "site-assistant-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_content",
		Description: "Search site content by keywords. Returns scored chunks with source paths. Use get_page for the full page.",
	}, makeSearchHandler(cfg.Retriever))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_page",
		Description: "Retrieve a full site page by path (e.g. /services/chatbots). Returns all sections in order.",
	}, makeGetPageHandler(cfg.Store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List all indexed site pages with their paths, titles, and URLs.",
	}, makeListPagesHandler(cfg.Store))

	return &Server{
		server:    server,
		store:     cfg.Store,
		retriever: cfg.Retriever,
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Hacker News search and its history as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/hnquery/internal/searchservice"
)

// SessionID is the local session used for searches made through MCP.
const SessionID = "mcp"

const searchesURI = "hnquery://searches"

// Server wraps the MCP server with hnquery tools.
type Server struct {
	mcp *server.MCPServer
	svc *searchservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *searchservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"hnquery",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_hacker_news",
		mcp.WithDescription("Search Hacker News stories and comments. "+
			"Returns hits with created_at, title, url, author and points. "+
			"Every call is recorded in the search history."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search terms, sent to the API as typed")),
	), s.searchHackerNews)

	s.mcp.AddTool(mcp.NewTool("list_searches",
		mcp.WithDescription("List previous search queries in submission order, duplicates included."),
		mcp.WithString("scope",
			mcp.Description(`"store" for the shared history (default) or "session" for searches made through this server`),
			mcp.Enum("store", "session"),
		),
	), s.listSearches)

	s.mcp.AddResource(
		mcp.NewResource(searchesURI, "Search history",
			mcp.WithResourceDescription("Shared history of submitted search queries."),
			mcp.WithMIMEType("application/json"),
		),
		s.readSearchesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchHackerNews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SubmitAndWait(ctx, SessionID, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listSearches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := "store"
	if v, err := req.RequireString("scope"); err == nil && v != "" {
		scope = v
	}

	var searches []string
	switch scope {
	case "store":
		searches = s.svc.GlobalSearches()
	case "session":
		snap, err := s.svc.Snapshot(SessionID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		searches = snap.Searches
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown scope: %s", scope)), nil
	}

	out, _ := json.Marshal(searches)
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSearchesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(s.svc.GlobalSearches())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      searchesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

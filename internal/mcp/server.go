// Package mcp exposes lango lookups as a Model Context Protocol tool over
// stdio.
package mcp

import (
	"context"
	"os"
	"time"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the MCP server name
	ServerName = "lango"
	// ServerVersion is the current server version
	ServerVersion = "0.1.0"
)

// Lookuper is the part of lookup.Service the tools need.
type Lookuper interface {
	LookupTimed(ctx context.Context, query string, opts lookup.Options) (lookup.Result, time.Duration, error)
}

// Server wraps the MCP server with the lookup service
type Server struct {
	mcp      *server.MCPServer
	svc      Lookuper
	defaults lookup.Options
	log      *log.Logger
}

// NewServer creates an MCP server answering with svc. defaults.MaxExamples
// applies when a call leaves max_examples out.
func NewServer(svc Lookuper, defaults lookup.Options) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		svc:      svc,
		defaults: defaults,
		log:      logger.New("mcp"),
	}
	s.mcp.AddTool(lookupWordTool(), s.handleLookupWord)
	return s
}

// Serve runs the server on stdio and blocks until stdin closes or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Debug("Serving MCP on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// ABOUTME: MCP server initialization and configuration for mood.
// ABOUTME: Exposes mood logging and history tools to AI agents over stdio.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/2389-research/mood/internal/storage"
)

// Server wraps the MCP server with the mood journal.
type Server struct {
	mcp     *gomcp.Server
	journal storage.MoodJournal
	log     zerolog.Logger
	now     func() time.Time
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool activity.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// WithClock overrides the time source used for new entries and range filters.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates an MCP server backed by journal.
func NewServer(journal storage.MoodJournal, version string, opts ...ServerOption) (*Server, error) {
	if journal == nil {
		return nil, fmt.Errorf("mood journal is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "mood",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		journal: journal,
		log:     zerolog.Nop(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerMoodTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Msg("mcp server listening on stdio")
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

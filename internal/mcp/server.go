// ABOUTME: MCP server exposing posts and tags to AI agents.
// ABOUTME: Provides tools, resources and prompts over stdio.

package mcp

import (
	"context"
	"database/sql"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harper/post/internal/charm"
	"github.com/harper/post/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	server  *mcp.Server
	db      *sql.DB
	mirror  *charm.Mirror
	logger  *log.Logger
	version string
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMirror pushes every post changed through a tool to the charm store.
func WithMirror(m *charm.Mirror) Option {
	return func(s *Server) {
		s.mirror = m
	}
}

func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

func NewServer(conn *sql.DB, opts ...Option) *Server {
	s := &Server{
		db:      conn,
		logger:  log.New(io.Discard),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "post",
			Version: s.version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio", "version", s.version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// mirrorPost pushes p when a mirror is configured. Failures are logged; the
// local write already succeeded.
func (s *Server) mirrorPost(p *models.Post) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.PushPost(p); err != nil {
		s.logger.Warn("mirror push failed", "post", p.ID, "err", err)
	}
}

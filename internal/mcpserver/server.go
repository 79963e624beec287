package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/logger"
	"github.com/mobilkita/tradein/internal/requests"
	"github.com/mobilkita/tradein/internal/taxonomy"
)

// Config wires the server to its data.
type Config struct {
	Tree        taxonomy.Tree
	Inventory   inventory.Source
	Showrooms   []string
	PhonePrefix string
	Requests    *requests.Store // nil disables submit-request
	Addr        string          // "" picks a random local port
}

// Server exposes option resolution, step validation and request submission
// as MCP tools over streamable HTTP.
type Server struct {
	cfg        Config
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server. It is not started until Start is called.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	return &Server{cfg: cfg}
}

// Start listens on the configured address and serves /mcp in the
// background. It returns the bound port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"tradein-tools",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	if err := s.registerTools(); err != nil {
		return 0, fmt.Errorf("failed to register tools: %w", err)
	}

	// Listen before serving so the port is known without a TOCTOU race.
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{Handler: mux}
	s.httpServer = mcpHandler

	logger.Debug("Starting MCP server on port %d", s.port)
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL of the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}

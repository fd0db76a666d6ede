// Package server exposes a long-lived hint engine as MCP tools.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/platform"
	"github.com/mj1618/hintnav/internal/version"
)

const serverName = "hintnav"

// Transports accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

// Server wraps the MCP server with the opened backend, its engine and the
// scan cache. Tool calls are serialised on providerMu.
type Server struct {
	provider   *platform.Provider
	engine     *hint.Engine
	cache      *ScanCache
	logger     *slog.Logger
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
	unsub      func()
}

// New creates a server with all hint tools registered. The engine must
// drive provider's backend; the server becomes its listener.
func New(provider *platform.Provider, engine *hint.Engine, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		provider: provider,
		engine:   engine,
		cache:    NewScanCache(cfg.CacheTTL),
		logger:   logger,
	}
	engine.SetListener(s)

	s.mcp = mcpserver.NewMCPServer(serverName, version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Start subscribes the engine and the cache to document changes.
func (s *Server) Start() {
	s.engine.Start()
	if obs, ok := s.provider.Backend.(dom.Observable); ok {
		s.unsub = obs.Subscribe(func(n dom.Notification) {
			if n == dom.SubtreeChanged {
				s.cache.Invalidate()
			}
		})
	}
}

// Stop undoes Start and leaves hint mode.
func (s *Server) Stop() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.engine.Stop()
}

// Serve starts the MCP server with the configured transport. A backend
// watcher, if any, runs until ctx is done.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	if w := s.provider.Watcher; w != nil {
		go func() {
			if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("server: watcher stopped", "err", err)
			}
		}()
	}

	s.Start()
	defer s.Stop()

	s.logger.Info("server: serving", "transport", cfg.Transport, "backend", s.provider.Name, "target", s.provider.Target)
	switch cfg.Transport {
	case TransportStdio:
		return mcpserver.ServeStdio(s.mcp)
	case TransportHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use %s or %s)", cfg.Transport, TransportStdio, TransportHTTP)
	}
}

// HintResolved is called when a session ends in an activation, including
// one triggered by the idle timer between tool calls.
func (s *Server) HintResolved(knownInput bool) {
	s.cache.Invalidate()
	s.logger.Debug("server: hint resolved", "known_input", knownInput)
}

// HintAborted is called when a session is cancelled.
func (s *Server) HintAborted() {
	s.cache.Invalidate()
	s.logger.Debug("server: hint aborted")
}

func (s *Server) registerTools() {
	// hint_scan
	s.mcp.AddTool(
		mcp.NewTool("hint_scan",
			mcp.WithDescription("Enter hint mode and list every actionable element with its label, tag, bounds and badge anchor. Badges are drawn on the page. Calls within the cache TTL reuse the current labels."),
			mcp.WithBoolean("fresh", mcp.Description("Force a rescan even if the current labels are still fresh")),
			mcp.WithBoolean("annotate", mcp.Description("Also return a PNG of the viewport with the badges drawn on it")),
		),
		s.handleScan,
	)

	// hint_keys
	s.mcp.AddTool(
		mcp.NewTool("hint_keys",
			mcp.WithDescription("Type keys into the active hint session, entering hint mode first if needed. Letters narrow the labels; {Backspace}, {Enter} and {Escape} are named keys. A unique full label activates its element."),
			mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to type, e.g. 'as' or 'a{Backspace}s{Enter}'")),
		),
		s.handleKeys,
	)

	// hint_activate
	s.mcp.AddTool(
		mcp.NewTool("hint_activate",
			mcp.WithDescription("Activate the element with the given hint label, entering hint mode first if needed. Reports which dispatch strategy reached the element."),
			mcp.WithString("label", mcp.Required(), mcp.Description("Hint label from hint_scan, e.g. 'AS'")),
		),
		s.handleActivate,
	)

	// hint_exit
	s.mcp.AddTool(
		mcp.NewTool("hint_exit",
			mcp.WithDescription("Leave hint mode and remove all badges from the page"),
		),
		s.handleExit,
	)
}

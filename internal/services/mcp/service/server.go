package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"

	platformgrpc "github.com/therili1/buckshot-roulette-bot/internal/platform/grpc"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/timeouts"
	"github.com/therili1/buckshot-roulette-bot/internal/services/mcp/domain"
	roulettegrpc "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/roulette"
)

const (
	serverName    = "buckshot-roulette"
	serverVersion = "0.1.0"
)

const (
	// TransportStdio serves MCP over stdin/stdout.
	TransportStdio = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP = "http"
)

// Config configures the MCP adapter.
type Config struct {
	// GRPCAddr is the table server address.
	GRPCAddr string
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr  string
	Transport string
	// Defaults seeds the agent context.
	Defaults domain.Context
}

// Server exposes table operations as MCP tools.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn

	ctxMu sync.Mutex
	ctx   domain.Context
}

// New creates a server over client with the given starting context. It does
// not own a connection.
func New(client domain.TableClient, defaults domain.Context) *Server {
	s := &Server{ctx: defaults}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(s.mcpServer, client, s.getContext, s.setContext)
	s.mcpServer.AddResource(domain.ContextResource(), domain.ContextResourceHandler(s.getContext))
	return s
}

// Run connects to the table server and serves MCP on the configured
// transport until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	transport := strings.ToLower(strings.TrimSpace(cfg.Transport))
	if transport == "" {
		transport = TransportStdio
	}
	if transport != TransportStdio && transport != TransportHTTP {
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}

	conn, err := platformgrpc.Connect(ctx, cfg.GRPCAddr, roulettegrpc.ServiceName, timeouts.GRPCDial, log.Printf)
	if err != nil {
		return fmt.Errorf("connect to table server at %s: %w", cfg.GRPCAddr, err)
	}
	s := New(roulettegrpc.NewClient(conn), cfg.Defaults)
	s.conn = conn

	if transport == TransportHTTP {
		return s.serveHTTP(ctx, cfg.HTTPAddr)
	}
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the gRPC connection, if any.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// serveWithTransport runs the MCP session on transport and closes the
// connection on the same exit path for every transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if closeErr := s.Close(); closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
	httpServer := &http.Server{Handler: handler, ReadHeaderTimeout: timeouts.ReadHeader}

	serveErr := make(chan error, 1)
	log.Printf("MCP HTTP listening at %v", listener.Addr())
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("shutdown MCP HTTP: %v", shutdownErr)
	}
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close gRPC connection: %w", closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP HTTP: %w", err)
	}
	return nil
}

func (s *Server) setContext(ctx domain.Context) {
	s.ctxMu.Lock()
	defer s.ctxMu.Unlock()
	s.ctx = ctx
}

func (s *Server) getContext() domain.Context {
	s.ctxMu.Lock()
	defer s.ctxMu.Unlock()
	return s.ctx
}

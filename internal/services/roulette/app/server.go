package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/therili1/buckshot-roulette-bot/internal/platform/timeouts"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/interceptors"
	grpcmeta "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/metadata"
	roulettegrpc "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/roulette"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/httpapi"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/history"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage/sqlite"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
)

// Config holds what the server needs to start.
type Config struct {
	// GRPCAddr is the TableService listen address.
	GRPCAddr string
	// HTTPAddr is the JSON/WebSocket listen address; empty disables HTTP.
	HTTPAddr string
	// DBPath is the match history database; empty disables history.
	DBPath string
	Rules  session.Config
	Seed   int64
}

// Server hosts the table over gRPC and, optionally, HTTP.
type Server struct {
	grpcListener net.Listener
	httpListener net.Listener
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	store        *sqlite.Store
	table        *table.Table
}

// New opens storage, binds listeners and registers services. Nothing is
// served until Serve.
func New(ctx context.Context, cfg Config) (*Server, error) {
	engine, _, err := NewEngine(cfg.Rules, cfg.Seed)
	if err != nil {
		return nil, err
	}

	s := &Server{}
	var hist *history.Service
	opts := []table.Option{}
	if cfg.DBPath != "" {
		store, err := OpenStore(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		s.store = store
		hist = history.New(store)
		opts = append(opts, table.WithRecorder(store))
	}
	s.table = table.New(engine, opts...)

	s.grpcListener, err = net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}
	if cfg.HTTPAddr != "" {
		s.httpListener, err = net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
		}
		s.httpServer = &http.Server{
			Handler:           httpapi.NewRouter(s.table, hist, log.Printf),
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
	}

	s.grpcServer = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.ErrorUnaryInterceptor(),
			interceptors.LoggingUnaryInterceptor(log.Printf),
		),
		grpc.ChainStreamInterceptor(
			grpcmeta.StreamServerInterceptor(nil),
			interceptors.ErrorStreamInterceptor(),
		),
	)
	roulettegrpc.RegisterTableServer(s.grpcServer, roulettegrpc.NewService(s.table, hist))
	s.health = health.NewServer()
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(roulettegrpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return s, nil
}

// Run creates a server and serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

// GRPCAddr returns the bound gRPC address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// HTTPAddr returns the bound HTTP address, or "" when HTTP is disabled.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Table returns the served table.
func (s *Server) Table() *table.Table {
	return s.table
}

// Serve runs until ctx ends or a listener fails, then drains and closes
// everything.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	serveErr := make(chan error, 2)
	log.Printf("roulette gRPC listening at %v", s.grpcListener.Addr())
	go func() {
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- fmt.Errorf("serve gRPC: %w", err)
		}
	}()
	if s.httpServer != nil {
		log.Printf("roulette HTTP listening at %v", s.httpListener.Addr())
		go func() {
			if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("serve HTTP: %w", err)
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}
	s.shutdown()
	return err
}

func (s *Server) shutdown() {
	s.health.Shutdown()
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown HTTP: %v", err)
		}
		cancel()
	}

	// Watch streams only end with their sessions, so the graceful stop is
	// bounded.
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(timeouts.Shutdown):
		s.grpcServer.Stop()
	}
}

// Close releases listeners and storage.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close match store: %v", err)
		}
		s.store = nil
	}
}

// OpenStore opens the match history at path, creating its directory.
func OpenStore(ctx context.Context, path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open match store: %w", err)
	}
	return store, nil
}

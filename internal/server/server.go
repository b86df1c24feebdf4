// Package server hosts the gRPC process for the game core: it wires
// the SQLite stores into the session service and exposes the health
// service for probes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandlotlabs/dugout/internal/game/service"
	"github.com/sandlotlabs/dugout/internal/platform/retry"
	"github.com/sandlotlabs/dugout/internal/roster"
	storagesqlite "github.com/sandlotlabs/dugout/internal/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// sessionServiceName is the health-check identifier for the game
// session service.
const sessionServiceName = "dugout.v1.GameSessionService"

// Server hosts the game session service behind a gRPC listener.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *storagesqlite.Store
	sessions   *service.Service
}

// New creates a configured server listening on the provided port.
func New(port int, dbPath string) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), dbPath)
}

// NewWithAddr creates a configured server listening on the provided
// address.
func NewWithAddr(addr, dbPath string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openSessionStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	sessions := service.New(store, roster.NewValidator(store))

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(sessionServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		sessions:   sessions,
	}, nil
}

// Sessions returns the session service backed by this server's store.
func (s *Server) Sessions() *service.Service {
	return s.sessions
}

// Serve starts the server and blocks until it stops or the context
// ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	log.Printf("server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// Run creates a server and serves until the context ends.
func Run(ctx context.Context, port int, dbPath string) error {
	grpcServer, err := New(port, dbPath)
	if err != nil {
		return err
	}
	return grpcServer.Serve(ctx)
}

// RunWithAddr creates a server on an explicit address and serves until
// the context ends.
func RunWithAddr(ctx context.Context, addr, dbPath string) error {
	grpcServer, err := NewWithAddr(addr, dbPath)
	if err != nil {
		return err
	}
	return grpcServer.Serve(ctx)
}

// openSessionStore opens the SQLite store, retrying transient open
// failures such as WAL lock contention during restarts.
func openSessionStore(path string) (*storagesqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "dugout.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := retry.Do(context.Background(), retry.DefaultPolicy, func() (*storagesqlite.Store, error) {
		return storagesqlite.Open(path)
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

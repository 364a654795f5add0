package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/lifebind/internal/ports"
	"github.com/bft-labs/lifebind/pkg/log"
)

// ShutdownTimeout bounds graceful shutdown of the status server.
const ShutdownTimeout = 5 * time.Second

// Server exposes Prometheus metrics and the runner status over HTTP.
//
// Routes:
//
//	GET /metrics  Prometheus exposition
//	GET /status   current status as JSON
//	GET /healthz  503 once the owner is destroyed, 200 otherwise
type Server struct {
	addr     string
	gatherer prometheus.Gatherer
	status   ports.StatusProvider
	logger   log.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, gatherer prometheus.Gatherer, status ports.StatusProvider, logger log.Logger) *Server {
	return &Server{
		addr:     addr,
		gatherer: gatherer,
		status:   status,
		logger:   log.OrNoop(logger),
	}
}

// Handler returns the router serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/status", s.handleStatus)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Run serves until ctx is canceled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("status server listening", log.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("status server shutdown", log.Err(err))
		return err
	}
	<-errCh
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status.Status()); err != nil {
		s.logger.Error("encode status", log.Err(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.status.Status().Terminal() {
		http.Error(w, "owner destroyed", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

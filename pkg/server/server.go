package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hatchet-dev/console/pkg/middleware"
	"github.com/hatchet-dev/console/pkg/router"
)

// Server serves one resolver over HTTP and WebSocket.
type Server struct {
	resolver *router.Resolver
	config   *Config
	logger   *slog.Logger
	metrics  *middleware.HTTPMetrics
	gatherer prometheus.Gatherer
	tracing  bool
	otelOpts []middleware.OTelOption
	upgrader websocket.Upgrader

	handler    http.Handler
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the server configuration. Unset fields take defaults.
func WithConfig(c *Config) Option {
	return func(s *Server) {
		s.config = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithHTTPMetrics records request and WebSocket metrics.
func WithHTTPMetrics(m *middleware.HTTPMetrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer exposes g on Config.MetricsPath.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithTracing starts a span per request.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(s *Server) {
		s.tracing = true
		s.otelOpts = opts
	}
}

// New creates a server for resolver.
func New(resolver *router.Resolver, opts ...Option) *Server {
	s := &Server{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.config = s.config.withDefaults()
	s.logger = s.logger.With("component", "server")
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(s.logger))
	if s.tracing {
		r.Use(middleware.OpenTelemetry(s.otelOpts...))
	}
	r.Use(s.metrics.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get(clientScriptPath, s.serveClientScript)
	r.Head(clientScriptPath, s.serveClientScript)
	r.Get(s.config.WebSocketPath, s.handleWebSocket)
	r.Get("/*", s.handlePage)
	r.Head("/*", s.handlePage)
	return r
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Resolver returns the resolver the server mounts.
func (s *Server) Resolver() *router.Resolver {
	return s.resolver
}

// Run listens on Config.Addr and blocks until ctx is done or the listener
// fails. On cancellation it shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "basename", s.resolver.Basename())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) writeTimeout() time.Time {
	return time.Now().Add(s.config.WriteTimeout)
}

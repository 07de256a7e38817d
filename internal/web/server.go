package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/textfix/internal/observability"
	"github.com/textfix/internal/web/handlers"
	"github.com/textfix/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Services are the components the HTTP layer exposes.
type Services struct {
	Pipeline    handlers.TextCorrector
	Corrector   handlers.Suggester
	Stats       handlers.StatsProvider
	LexiconSize int
	Metrics     *observability.Metrics
	Gatherer    prometheus.Gatherer
}

// Server represents the web server
type Server struct {
	config     *Config
	services   Services
	logger     *slog.Logger
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
}

// NewServer creates a new web server instance
func NewServer(config *Config, services Services, logger *slog.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if services.Pipeline == nil {
		return nil, errors.New("web server requires a correction pipeline")
	}
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		config:   config,
		services: services,
		logger:   logger,
	}

	// Setup routes
	if err := server.setupRoutes(); err != nil {
		return nil, err
	}

	// Create HTTP server
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.handler,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	s.router = mux.NewRouter()

	apiHandler := &handlers.APIHandler{
		Pipeline:    s.services.Pipeline,
		Stats:       s.services.Stats,
		LexiconSize: s.services.LexiconSize,
		Logger:      s.logger,
	}
	searchHandler := &handlers.SearchHandler{Corrector: s.services.Corrector}
	auth := middleware.Authentication(s.config.Auth.APIKey)

	// Core endpoints
	s.router.HandleFunc("/", apiHandler.Home).Methods("GET")
	s.router.Handle("/correct", auth(http.HandlerFunc(apiHandler.Correct))).Methods("POST")
	s.router.HandleFunc("/healthz", apiHandler.Health).Methods("GET")

	// Dictionary endpoints
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", apiHandler.GetStats).Methods("GET")
	api.HandleFunc("/suggest", searchHandler.Suggest).Methods("GET")
	api.Use(auth)

	if s.config.Features.MetricsEnabled {
		gatherer := s.services.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Static UI
	if s.config.Features.UIEnabled {
		static, err := fs.Sub(staticFiles, "static")
		if err != nil {
			return fmt.Errorf("loading static files: %w", err)
		}
		s.router.Handle("/ui", http.RedirectHandler("/ui/", http.StatusMovedPermanently)).Methods("GET")
		s.router.PathPrefix("/ui/").Handler(http.StripPrefix("/ui/", http.FileServer(http.FS(static)))).Methods("GET")
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Apply middleware
	s.router.Use(middleware.RequestLogging(s.logger, s.services.Metrics))
	s.router.Use(middleware.Recover(s.logger))

	// CORS wraps the router so preflight requests reach it before method matching
	s.handler = middleware.CORS()(s.router)
	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the server until SIGINT or SIGTERM.
func (s *Server) Start() error {
	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run binds the listen address and serves until ctx is cancelled, then
// shuts down gracefully. A bind failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	// Start server in background
	go func() {
		s.logger.Info("starting server", "addr", "http://"+ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	// Graceful shutdown with timeout
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().Server.ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

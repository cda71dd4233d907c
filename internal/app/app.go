package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"techpulse/internal/config"
	apierrors "techpulse/internal/errors"
	"techpulse/internal/infrastructure"
	custommw "techpulse/internal/middleware"
	"techpulse/internal/services"
	handlers "techpulse/internal/transport/http"
	ws "techpulse/internal/websocket"
	"techpulse/pkg/contracts"
)

const AppName = "Tech Employment Pulse"

// Application is the main dependency container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	FrontendFS    fs.FS

	upgrader websocket.Upgrader
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Data     *services.DataService
	Insights *services.InsightsService
	Health   *services.HealthService
}

// NewApplication builds the full application with dependency injection.
// frontendFS holds the embedded dashboard assets and may be nil in tests.
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		FrontendFS:    frontendFS,
	}
	app.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     app.checkWebSocketOrigin,
	}

	app.initializeServices()
	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// initializeServices builds the service graph
func (a *Application) initializeServices() {
	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.WebSocketHub = hub

	dataService := services.NewDataService(a.Config, a.Paths, a.Logger).
		WithBroadcaster(hub)
	insightsService := services.NewInsightsService(dataService, a.Paths, a.Logger)
	healthService := services.NewHealthService(a.Paths, dataService, a.Logger).
		WithClientCounter(hub)

	a.Services = &ServiceContainer{
		Data:     dataService,
		Insights: insightsService,
		Health:   healthService,
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// Only middleware that does not wrap the ResponseWriter may run
	// before the WebSocket upgrade.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	r.With(custommw.WebSocketTraceMiddleware(a.Logger)).HandleFunc("/ws", a.handleWebSocket)

	otelMiddleware, err := custommw.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}
	a.Services.Data.WithMetrics(otelMiddleware.Metrics())

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupFrontendRoutes(r)
	})

	// Prometheus endpoint stays outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes mounts the resource handlers under /api
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Route("/api", func(r chi.Router) {
		r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.GetVersion)

		dataHandler := handlers.NewDataHandler(a.Services.Data, a.Logger, errorHandler)
		r.Mount("/data", dataHandler.Routes())

		insightsHandler := handlers.NewInsightsHandler(a.Services.Insights, a.Logger, errorHandler)
		r.Mount("/insights", insightsHandler.Routes())

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	})
}

// setupFrontendRoutes serves the embedded dashboard
func (a *Application) setupFrontendRoutes(r chi.Router) {
	if a.FrontendFS == nil {
		a.Logger.Warn("frontend filesystem not available, API-only mode")
		return
	}

	r.Route("/static", func(r chi.Router) {
		r.Use(custommw.Compress(5))
		r.Get("/*", a.serveStatic)
	})

	r.Get("/", a.serveIndex)
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		a.serveFrontendFile(w, r, "favicon.ico")
	})
}

// serveIndex serves the dashboard entry page
func (a *Application) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	a.serveFrontendFile(w, r, "index.html")
}

// serveStatic serves embedded assets under /static with content types
func (a *Application) serveStatic(w http.ResponseWriter, r *http.Request) {
	assetPath := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if assetPath == "" || strings.Contains(assetPath, "..") {
		http.NotFound(w, r)
		return
	}

	switch strings.ToLower(filepath.Ext(assetPath)) {
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	case ".ico":
		w.Header().Set("Content-Type", "image/x-icon")
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")

	a.serveFrontendFile(w, r, assetPath)
}

func (a *Application) serveFrontendFile(w http.ResponseWriter, r *http.Request, name string) {
	file, err := a.FrontendFS.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()
	io.Copy(w, file)
}

// handleWebSocket upgrades the connection and registers it with the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	traceID := custommw.GetReqID(r.Context())

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		a.Logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", custommw.GetRealIP(r)))
		return
	}

	ws.ServeWS(a.WebSocketHub, conn, traceID)
}

// checkWebSocketOrigin accepts same-host requests and configured origins
func (a *Application) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range a.Config.Security.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return strings.HasSuffix(origin, "://"+r.Host)
}

// createServer creates the HTTP server from configuration
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until shutdown completes
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening",
			slog.String("addr", a.Server.Addr),
			slog.Int("port", a.Config.Server.Port))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Warm the dataset cache so the first request is fast. A missing
	// source is not fatal at startup.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := a.Services.Data.Dataset(ctx); err != nil {
			a.Logger.Warn("initial dataset load failed",
				slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	return a.Shutdown()
}

// Shutdown stops the server, hub and telemetry providers gracefully
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	a.WebSocketHub.Stop()

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("application stopped")
	return nil
}

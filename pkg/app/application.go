package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"houseboat/internal/quotes/handler"
	"houseboat/pkg/config"
	"houseboat/pkg/contracts"
	"houseboat/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Application struct {
	cfg            *config.Config
	server         *http.Server
	healthHandler  http.Handler
	appHttpHandler http.Handler
	closers        []func() error
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp builds the health and application handlers and the server. The
// health probe pings db.
func (a *Application) SetApp(db handler.Pinger, appHandler contracts.Handler) {
	a.setHealthHandler(db)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// OnShutdown registers a release function that runs after the server stops,
// in registration order.
func (a *Application) OnShutdown(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *Application) setHealthHandler(db handler.Pinger) {
	healthRouter := httprouter.New()
	handler.NewHealthHandler(db, a.cfg.Log).RegisterRoutes(healthRouter)

	a.healthHandler = middleware.Chain(healthRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	a.appHttpHandler = middleware.Chain(appRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.Metrics,
		middleware.MaxRequestSize(a.cfg.MaxRequestSize),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
	)
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

// Handler returns the root handler, for tests and embedding.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", a.appHttpHandler)
	return mux
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.cfg.Log.Error("Failed to release resource", "error", err)
		}
	}

	a.cfg.Log.Info("Server stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"manifest-gallery/internal/fetcher"
	"manifest-gallery/internal/gallery"
	"manifest-gallery/internal/handlers"
	"manifest-gallery/internal/logging"
	"manifest-gallery/internal/manifest"
	"manifest-gallery/internal/middleware"
	"manifest-gallery/internal/startup"
	"manifest-gallery/internal/templates"
	"manifest-gallery/internal/workers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Load startup template configuration, if provided. A malformed
	// unit is fatal: serving with silently-empty templates would just
	// produce empty galleries.
	var set *templates.Set
	if config.TemplatesPath != "" {
		set, err = templates.LoadFile(config.TemplatesPath)
		if err != nil {
			startup.LogFatal("Template configuration error: %v", err)
		}
	}
	imageLabels, videoLabels := 0, 0
	if set != nil {
		imageLabels = len(set.Labels(manifest.ModeImage))
		videoLabels = len(set.Labels(manifest.ModeVideo))
	}
	startup.LogTemplatesInit(config.TemplatesPath, imageLabels, videoLabels)

	// Initialize fetcher and gallery builder
	fetchWorkers := workers.ForIO(config.FetchWorkers)
	startup.LogFetcherInit(config.FetchTimeout, fetchWorkers)
	f := fetcher.New(config.FetchTimeout)
	store := gallery.NewStore(config.PreviewCacheBytes())
	builder := gallery.NewBuilder(f, store, fetchWorkers)

	// Initialize handlers
	h := handlers.New(builder, store, set)

	// Setup router
	router := setupRouter(h, config.StaticDir)
	startup.LogHTTPRoutes(router, config.LogStaticFiles)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics and compression middleware
	metricsHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(metricsHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Optional metrics server
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv)

	// Start server
	startup.LogServerStarted(config.Port, time.Since(startTime))
	if config.MetricsEnabled {
		startup.LogMetricsServerStarted(config.MetricsPort)
	}
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/templates", h.GetTemplates).Methods("GET")
	api.HandleFunc("/templates", h.UploadTemplates).Methods("POST")
	api.HandleFunc("/gallery", h.GetGallery).Methods("GET")
	api.HandleFunc("/gallery", h.BuildGallery).Methods("POST")
	api.HandleFunc("/preview/{id}", h.GetPreview).Methods("GET", "HEAD")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}

package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"manifest-gallery/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StaticDir       string
	TemplatesPath   string
	FetchTimeout    time.Duration
	FetchWorkers    int
	PreviewCacheMB  int
	LogStaticFiles  bool
	LogHealthChecks bool
}

// PreviewCacheBytes returns the preview store budget in bytes.
func (c *Config) PreviewCacheBytes() int64 {
	return int64(c.PreviewCacheMB) << 20
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	staticDir := getEnv("STATIC_DIR", "./static")
	templatesPath := getEnv("TEMPLATES_PATH", "")
	fetchTimeoutStr := getEnv("FETCH_TIMEOUT", "10s")
	fetchWorkers := getEnvInt("FETCH_WORKERS_LIMIT", 32)
	previewCacheMB := getEnvInt("PREVIEW_CACHE_MB", 256)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)

	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  STATIC_DIR:          %s", staticDir)
	logging.Info("  TEMPLATES_PATH:      %s", orNone(templatesPath))
	logging.Info("  FETCH_TIMEOUT:       %s", fetchTimeoutStr)
	logging.Info("  FETCH_WORKERS_LIMIT: %d", fetchWorkers)
	logging.Info("  PREVIEW_CACHE_MB:    %d", previewCacheMB)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil || fetchTimeout <= 0 {
		logging.Warn("  Invalid FETCH_TIMEOUT, using default: 10s")
		fetchTimeout = 10 * time.Second
	}

	if previewCacheMB < 0 {
		logging.Warn("  Invalid PREVIEW_CACHE_MB, using default: 256")
		previewCacheMB = 256
	}

	if templatesPath != "" {
		templatesPath, err = filepath.Abs(templatesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve templates path: %w", err)
		}
		if _, err := os.Stat(templatesPath); err != nil {
			return nil, fmt.Errorf("templates configuration not readable: %w", err)
		}
	}

	return &Config{
		Port:            port,
		MetricsPort:     metricsPort,
		MetricsEnabled:  metricsEnabled,
		StaticDir:       staticDir,
		TemplatesPath:   templatesPath,
		FetchTimeout:    fetchTimeout,
		FetchWorkers:    fetchWorkers,
		PreviewCacheMB:  previewCacheMB,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
	}, nil
}

func printBanner() {
	logging.Printf("============================================================")
	logging.Printf(" Manifest Gallery %s (%s)", Version, Commit)
	logging.Printf(" %s %s/%s", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Printf("============================================================")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logging.Warn("  Invalid %s=%q, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// LogTemplatesInit logs template registry initialization
func LogTemplatesInit(path string, imageLabels, videoLabels int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("TEMPLATE REGISTRY")
	logging.Info("------------------------------------------------------------")
	if path == "" {
		logging.Info("  No startup template configuration; awaiting upload")
		return
	}
	logging.Info("  Loaded %s", path)
	logging.Info("  [OK] %d image templates, %d video templates", imageLabels, videoLabels)
}

// LogFetcherInit logs fetcher initialization
func LogFetcherInit(timeout time.Duration, workers int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("FALLBACK FETCHER")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Per-mirror timeout: %v", timeout)
	logging.Info("  Fetch workers:      %d", workers)
}

// LogServerStarted logs successful server startup
func LogServerStarted(port string, startupDuration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER READY")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Listening on :%s (started in %v)", port, startupDuration.Round(time.Millisecond))
}

// LogMetricsServerStarted logs metrics server startup
func LogMetricsServerStarted(port string) {
	logging.Info("  Metrics on :%s/metrics", port)
}

// LogShutdownInitiated logs the beginning of graceful shutdown
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN (%s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Info("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs completion of graceful shutdown
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()
		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	return routes, nil
}

// LogHTTPRoutes logs all registered routes at startup
func LogHTTPRoutes(router *mux.Router, logStaticFiles bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP ROUTES")
	logging.Info("------------------------------------------------------------")

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("  Failed to enumerate routes: %v", err)
		return
	}

	for _, route := range routes {
		if !logStaticFiles && route.Method == "*" {
			continue
		}
		logging.Info("  %-7s %s", route.Method, route.Path)
	}
}

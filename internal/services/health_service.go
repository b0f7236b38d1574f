package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"shopmetrics/internal/config"
	"shopmetrics/internal/infrastructure"
	"shopmetrics/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents one dependency check
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   contracts.Version,
		buildTime: contracts.BuildTime,
		paths:     paths,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// Health returns the full health status including the dataset check.
// The service is degraded, not down, when the dataset directory is
// incomplete: the process can still serve health and version queries.
func (s *HealthService) Health(ctx context.Context) HealthStatus {
	checks := map[string]CheckResult{
		"dataset": s.datasetCheck(),
	}

	status := "healthy"
	for _, c := range checks {
		if c.Status != "ok" {
			status = "degraded"
			break
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Checks: checks,
	}
}

// Ready reports whether the service can serve analytics requests
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.paths.ValidateDataDir() == nil
}

// Version returns the build version information
func (s *HealthService) Version(ctx context.Context) contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (s *HealthService) datasetCheck() CheckResult {
	if err := s.paths.ValidateDataDir(); err != nil {
		return CheckResult{Status: "unavailable", Message: err.Error()}
	}
	return CheckResult{Status: "ok"}
}

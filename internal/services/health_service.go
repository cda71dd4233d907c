package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"techpulse/internal/config"
	"techpulse/pkg/contracts"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// ServiceHealth describes one checked subsystem
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthStatus is the readiness report for the whole application
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Runtime   RuntimeInfo              `json:"runtime"`
	Services  map[string]ServiceHealth `json:"services"`
}

// RuntimeInfo carries process-level diagnostics
type RuntimeInfo struct {
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Goroutines int    `json:"goroutines"`
}

// ClientCounter reports the number of connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// HealthService aggregates liveness and readiness checks
type HealthService struct {
	paths     *config.Paths
	data      *DataService
	clients   ClientCounter
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthService creates a new health service
func NewHealthService(paths *config.Paths, data *DataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		paths:     paths,
		data:      data,
		logger:    logger.With(slog.String("component", "health_service")),
		startedAt: time.Now(),
	}
}

// WithClientCounter attaches the websocket hub for connection reporting
func (s *HealthService) WithClientCounter(c ClientCounter) *HealthService {
	s.clients = c
	return s
}

// Liveness reports whether the process is up. It never touches disk.
func (s *HealthService) Liveness() HealthStatus {
	return HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Runtime:   runtimeInfo(),
	}
}

// Readiness checks the data directory and source files and reports the
// aggregate status. A missing source degrades the service rather than
// failing it, since the dashboard can still serve cached data.
func (s *HealthService) Readiness(ctx context.Context) HealthStatus {
	services := map[string]ServiceHealth{
		"data_directory": s.checkDirectory(s.paths.DataDir),
		"reports":        s.checkDirectory(s.paths.ReportsDir),
		"layoffs_source": s.checkSource(s.paths.LayoffsCSV),
		"hiring_source":  s.checkSource(s.paths.HiringCSV),
		"dataset":        s.checkDataset(ctx),
	}
	if s.clients != nil {
		services["websocket"] = ServiceHealth{
			Status:  StatusHealthy,
			Message: fmt.Sprintf("%d connected clients", s.clients.ClientCount()),
		}
	}

	status := HealthStatus{
		Status:    aggregateStatus(services),
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Runtime:   runtimeInfo(),
		Services:  services,
	}

	if status.Status != StatusHealthy {
		s.logger.WarnContext(ctx, "readiness check degraded",
			slog.String("status", status.Status))
	}
	return status
}

func (s *HealthService) checkDirectory(dir string) ServiceHealth {
	info, err := os.Stat(dir)
	if err != nil {
		return ServiceHealth{Status: StatusUnhealthy, Message: fmt.Sprintf("missing: %s", dir)}
	}
	if !info.IsDir() {
		return ServiceHealth{Status: StatusUnhealthy, Message: fmt.Sprintf("not a directory: %s", dir)}
	}
	return ServiceHealth{Status: StatusHealthy}
}

// checkSource accepts either the configured CSV or its XLSX sibling
func (s *HealthService) checkSource(csvPath string) ServiceHealth {
	if _, err := s.data.findSource(csvPath); err != nil {
		return ServiceHealth{Status: StatusDegraded, Message: fmt.Sprintf("source not found: %s", csvPath)}
	}
	return ServiceHealth{Status: StatusHealthy}
}

func (s *HealthService) checkDataset(ctx context.Context) ServiceHealth {
	dataset, err := s.data.Dataset(ctx)
	if err != nil {
		return ServiceHealth{Status: StatusDegraded, Message: err.Error()}
	}
	return ServiceHealth{
		Status: StatusHealthy,
		Message: fmt.Sprintf("%d events loaded at %s",
			len(dataset.Layoffs)+len(dataset.Hires),
			dataset.LoadedAt.Format(time.RFC3339)),
	}
}

// aggregateStatus collapses the per-service statuses: any unhealthy
// service makes the whole report unhealthy, any degraded one degrades it.
func aggregateStatus(services map[string]ServiceHealth) string {
	status := StatusHealthy
	for _, svc := range services {
		switch svc.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

func runtimeInfo() RuntimeInfo {
	return RuntimeInfo{
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Goroutines: runtime.NumGoroutine(),
	}
}

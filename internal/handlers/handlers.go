package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/0X4227/Arina/internal/backend"
)

// StatusReporter reports the registered client instances
type StatusReporter interface {
	Status() []backend.AppStatus
}

// HealthStatus represents health check status
type HealthStatus int

const (
	HealthStatusHealthy HealthStatus = iota
	HealthStatusUnhealthy
)

// String returns the string representation of the health status
func (h HealthStatus) String() string {
	switch h {
	case HealthStatusHealthy:
		return "healthy"
	case HealthStatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler interface
func (h HealthStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    HealthStatus         `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	Apps      map[string]AppHealth `json:"apps"`
}

// AppHealth describes one registered instance
type AppHealth struct {
	Handles []string `json:"handles"`
}

// Handlers contains the HTTP handlers with shared dependencies
type Handlers struct {
	status StatusReporter
	logger backend.Logger
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(status StatusReporter, logger backend.Logger) *Handlers {
	return &Handlers{
		status: status,
		logger: logger.With("component", "handlers"),
	}
}

// HealthCheckHandler handles GET /health requests. It is unhealthy while no client
// instance is registered.
func (h *Handlers) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Apps:      make(map[string]AppHealth),
	}

	for _, app := range h.status.Status() {
		response.Apps[app.Name] = AppHealth{Handles: app.Handles}
	}

	statusCode := http.StatusOK
	if len(response.Apps) == 0 {
		response.Status = HealthStatusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode health response", "error", err)
	}

	h.logger.Debug("health check completed",
		"status", response.Status,
		"apps_count", len(response.Apps))
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"appointment_booking/internal/storage"
)

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks"`
}

// HealthChecker проверяет состояние системы
type HealthChecker struct {
	storage   storage.Storage
	startTime time.Time
	version   string
}

// NewHealthChecker создает новый health checker
func NewHealthChecker(storage storage.Storage, version string) *HealthChecker {
	return &HealthChecker{
		storage:   storage,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthHandler обрабатывает запросы health check
func (h *HealthChecker) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"
	statusCode := http.StatusOK

	if err := h.checkDatabase(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode health response", http.StatusInternalServerError)
	}
}

// checkDatabase проверяет доступность хранилища
func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	if h.storage == nil {
		return nil
	}
	return h.storage.Ping(ctx)
}

package server

import (
	"context"
	"net/http"

	"appointment_booking/internal/config"
	"appointment_booking/internal/middleware"
	"appointment_booking/internal/storage"
	"appointment_booking/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет локальный ops HTTP сервер (health и metrics).
// Это не сервисная поверхность приложения: слушает только loopback
// и существует исключительно для наблюдаемости.
type Server struct {
	httpServer    *http.Server
	config        *config.Config
	logger        *logger.Logger
	healthChecker *HealthChecker
}

// New создает новый ops сервер
func New(cfg *config.Config, log *logger.Logger, store storage.Storage, version string) *Server {
	server := &Server{
		config:        cfg,
		logger:        log,
		healthChecker: NewHealthChecker(store, version),
	}

	server.httpServer = &http.Server{
		Addr:           cfg.Ops.Addr,
		Handler:        server.setupRoutes(),
		ReadTimeout:    cfg.Ops.ReadTimeout,
		WriteTimeout:   cfg.Ops.WriteTimeout,
		IdleTimeout:    cfg.Ops.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	return server
}

// setupRoutes настраивает маршруты с middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthChecker.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.PrometheusMiddleware(mux)
}

// Start запускает HTTP сервер; блокируется до остановки
func (s *Server) Start() error {
	s.logger.Info("Ops server listening", logger.String("addr", s.httpServer.Addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown корректно останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down ops server")
	return s.httpServer.Shutdown(ctx)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appointment_booking/internal/booking"
	"appointment_booking/internal/config"
	"appointment_booking/internal/maintenance"
	"appointment_booking/internal/schedule"
	"appointment_booking/internal/server"
	"appointment_booking/internal/storage/sqlite"
	"appointment_booking/pkg/logger"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting appointment booking service...")

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализируем логгер
	appLogger := logger.New(logger.ParseLevel(cfg.Logging.Level))
	appLogger.Info("Configuration loaded successfully")

	// Инициализируем хранилище
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	appLogger.Info("Storage initialized successfully",
		logger.String("path", cfg.Database.Path))

	// Прогреваем доступность на сегодня
	warmupCtx, cancelWarmup := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
	session := booking.NewSession(store, appLogger)
	today := time.Now().Format(schedule.DateFormat)
	if err := session.SelectDate(warmupCtx, today); err != nil {
		appLogger.Warn("Failed to resolve availability for today", logger.Error(err))
	} else {
		appLogger.Info("Availability resolved",
			logger.String("date", today),
			logger.Int("free_slots", len(session.FreeSlots())),
		)
	}
	cancelWarmup()

	// Запускаем фоновую очистку по сроку хранения
	reaper := maintenance.NewReaper(store, appLogger,
		cfg.Retention.Days, cfg.Retention.CleanupInterval)
	if err := reaper.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start retention cleanup: %v", err)
	}
	defer func() {
		if err := reaper.Stop(); err != nil {
			appLogger.Error("Failed to stop retention cleanup", logger.Error(err))
		}
	}()

	// Опциональный локальный ops сервер (health + metrics)
	var opsServer *server.Server
	if cfg.Ops.Addr != "" {
		opsServer = server.New(cfg, appLogger, store, version)
		go func() {
			if err := opsServer.Start(); err != nil {
				appLogger.Error("Ops server failed", logger.Error(err))
			}
		}()
	}

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")

	if opsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Ops server shutdown failed", logger.Error(err))
		}
	}

	appLogger.Info("Shutdown complete")
}

package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Database  DatabaseConfig  `json:"database"`
	Logging   LoggingConfig   `json:"logging"`
	Ops       OpsConfig       `json:"ops"`
	Retention RetentionConfig `json:"retention"`
}

// DatabaseConfig содержит настройки базы данных
type DatabaseConfig struct {
	Path        string        `json:"path"`
	ConnTimeout time.Duration `json:"conn_timeout"`
}

// LoggingConfig содержит настройки логирования
type LoggingConfig struct {
	Level string `json:"level"`
}

// OpsConfig содержит настройки локального ops-сервера (health/metrics).
// Пустой адрес — сервер не запускается.
type OpsConfig struct {
	Addr         string        `json:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// RetentionConfig содержит настройки срока хранения записей.
// Days == 0 отключает очистку.
type RetentionConfig struct {
	Days            int           `json:"days"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// Load загружает конфигурацию из .env файла и переменных окружения
func Load() (*Config, error) {
	// .env файл опционален
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Path:        getEnv("DB_FILE", "appointments.db"),
			ConnTimeout: getEnvAsDuration("DB_CONN_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ops: OpsConfig{
			Addr:         getEnv("OPS_ADDR", ""),
			ReadTimeout:  getEnvAsDuration("OPS_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("OPS_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvAsDuration("OPS_IDLE_TIMEOUT", 60*time.Second),
		},
		Retention: RetentionConfig{
			Days:            getEnvAsInt("RETENTION_DAYS", 0),
			CleanupInterval: getEnvAsDuration("CLEANUP_INTERVAL", 12*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DB_FILE must not be empty")
	}

	if c.Retention.Days < 0 {
		return fmt.Errorf("RETENTION_DAYS must be non-negative")
	}

	if c.Retention.Days > 0 && c.Retention.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be positive when retention is enabled")
	}

	// Ops-сервер служебный и слушает только loopback
	if c.Ops.Addr != "" {
		host, _, err := net.SplitHostPort(c.Ops.Addr)
		if err != nil {
			return fmt.Errorf("invalid OPS_ADDR: %w", err)
		}
		if host != "localhost" {
			ip := net.ParseIP(host)
			if ip == nil || !ip.IsLoopback() {
				return fmt.Errorf("OPS_ADDR must bind to loopback, got %q", host)
			}
		}
	}

	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvAsInt получает переменную окружения как число
func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvAsDuration получает переменную окружения как duration
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

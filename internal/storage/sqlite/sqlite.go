package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"appointment_booking/internal/storage/models"
	apperrors "appointment_booking/pkg/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStorage реализует интерфейс Storage для SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New создает новое подключение к SQLite базе данных
func New(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite поддерживает только одно write-подключение
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	storage := &SQLiteStorage{db: db}

	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return storage, nil
}

// migrate выполняет миграции базы данных; безопасен при повторных вызовах
func (s *SQLiteStorage) migrate() error {
	// Включаем WAL mode для лучшей конкурентности
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			description TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(date, time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_created_at ON appointments(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

// Close закрывает подключение к базе данных
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping проверяет подключение к базе данных
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Insert добавляет запись на прием. ID назначается базой (AUTOINCREMENT,
// не переиспользуется после удаления), created_at проставляется здесь
// в момент вставки как RFC 3339 UTC.
func (s *SQLiteStorage) Insert(ctx context.Context, appt *models.Appointment) error {
	createdAt := time.Now().UTC()

	query := `INSERT INTO appointments (name, date, time, description, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		appt.Name, appt.Date, appt.Time, appt.Description,
		createdAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrSlotTaken.WithError(err).WithContext(map[string]interface{}{
				"date": appt.Date,
				"time": appt.Time,
			})
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get appointment ID: %w", err)
	}

	appt.ID = id
	appt.CreatedAt = createdAt
	return nil
}

// QueryByDate возвращает все записи с точным совпадением даты
func (s *SQLiteStorage) QueryByDate(ctx context.Context, date string) ([]*models.Appointment, error) {
	query := `SELECT id, name, date, time, description, created_at
			  FROM appointments WHERE date = ?
			  ORDER BY time`

	rows, err := s.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments by date: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// QueryAll возвращает все записи, новые первыми
func (s *SQLiteStorage) QueryAll(ctx context.Context) ([]*models.Appointment, error) {
	query := `SELECT id, name, date, time, description, created_at
			  FROM appointments
			  ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all appointments: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// DeleteByID удаляет запись по ID. Отсутствующий ID не является ошибкой
func (s *SQLiteStorage) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteOlderThan удаляет записи с датой приема раньше cutoffDate
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoffDate string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE date < ?`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old appointments: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

// scanAppointments читает строки результата в типизированные записи.
// created_at хранится текстом RFC 3339 и парсится на границе хранилища.
func scanAppointments(rows *sql.Rows) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	for rows.Next() {
		appt := &models.Appointment{}
		var createdAt string

		err := rows.Scan(&appt.ID, &appt.Name, &appt.Date, &appt.Time,
			&appt.Description, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}

		appt.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}

		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return appointments, nil
}

// isUniqueViolation распознает нарушение UNIQUE(date, time)
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

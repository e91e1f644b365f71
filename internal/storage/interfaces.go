package storage

import (
	"context"

	"appointment_booking/internal/storage/models"
)

// AppointmentRepository определяет интерфейс для работы с записями на прием
type AppointmentRepository interface {
	// Insert добавляет запись; хранилище назначает ID и createdAt.
	// Дубликат пары (date, time) возвращает errors.ErrSlotTaken.
	Insert(ctx context.Context, appt *models.Appointment) error

	// QueryByDate возвращает все записи с точным совпадением даты
	QueryByDate(ctx context.Context, date string) ([]*models.Appointment, error)

	// QueryAll возвращает все записи, новые первыми (createdAt по убыванию)
	QueryAll(ctx context.Context) ([]*models.Appointment, error)

	// DeleteByID удаляет запись по ID; отсутствующий ID — no-op (false, nil)
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// DeleteOlderThan удаляет записи с датой приема раньше cutoffDate
	DeleteOlderThan(ctx context.Context, cutoffDate string) (int64, error)
}

// Storage объединяет репозиторий и управление подключением
type Storage interface {
	AppointmentRepository
	Close() error
	Ping(ctx context.Context) error
}

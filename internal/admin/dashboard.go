package admin

import (
	"context"

	"appointment_booking/internal/storage"
	"appointment_booking/internal/storage/models"
	apperrors "appointment_booking/pkg/errors"
	"appointment_booking/pkg/logger"
	"appointment_booking/pkg/metrics"
)

// Entry представляет запись в списке администратора
type Entry struct {
	*models.Appointment

	// Requested — относительное время создания заявки для отображения
	Requested string
}

// Dashboard предоставляет операции администратора:
// список всех заявок и удаление по ID
type Dashboard struct {
	repo   storage.AppointmentRepository
	logger *logger.Logger
}

// NewDashboard создает новый дашборд администратора
func NewDashboard(repo storage.AppointmentRepository, log *logger.Logger) *Dashboard {
	return &Dashboard{
		repo:   repo,
		logger: log,
	}
}

// List возвращает все записи, новые заявки первыми
func (d *Dashboard) List(ctx context.Context) ([]Entry, error) {
	appointments, err := d.repo.QueryAll(ctx)
	if err != nil {
		metrics.RecordStorageError("query_all")
		d.logger.Error("Failed to load appointments", logger.Error(err))
		return nil, apperrors.ErrStorageUnavailable.WithError(err)
	}

	entries := make([]Entry, 0, len(appointments))
	for _, appt := range appointments {
		entries = append(entries, Entry{
			Appointment: appt,
			Requested:   appt.RequestedAgo(),
		})
	}

	return entries, nil
}

// Delete удаляет запись по ID. Отсутствующий ID — no-op (false, nil),
// освободившийся слот станет доступен при следующем пересчете доступности.
func (d *Dashboard) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, apperrors.ErrInvalidAppointmentID.WithContext(map[string]interface{}{
			"id": id,
		})
	}

	deleted, err := d.repo.DeleteByID(ctx, id)
	if err != nil {
		metrics.RecordStorageError("delete")
		d.logger.Error("Failed to delete appointment",
			logger.Int64("id", id),
			logger.Error(err),
		)
		return false, apperrors.ErrStorageUnavailable.WithError(err)
	}

	if deleted {
		metrics.AppointmentsDeleted.Inc()
		d.logger.Info("Appointment deleted", logger.Int64("id", id))
	} else {
		d.logger.Warn("Delete requested for missing appointment", logger.Int64("id", id))
	}

	return deleted, nil
}

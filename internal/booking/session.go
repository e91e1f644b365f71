package booking

import (
	"context"

	"appointment_booking/internal/schedule"
	"appointment_booking/internal/storage"
	"appointment_booking/internal/storage/models"
	"appointment_booking/internal/validation"
	apperrors "appointment_booking/pkg/errors"
	"appointment_booking/pkg/logger"
	"appointment_booking/pkg/metrics"
)

// Confirmation представляет результат успешной отправки формы
type Confirmation struct {
	Appointment *models.Appointment
	Message     string
}

// Session представляет одну клиентскую сессию записи на прием:
// текущее состояние формы и последний вычисленный список свободных слотов.
// Сессия не рассчитана на конкурентное использование — вызовы идут
// последовательно из одного интерактивного клиента.
type Session struct {
	repo   storage.AppointmentRepository
	logger *logger.Logger
	form   FormState
	free   []string
}

// NewSession создает новую сессию записи
func NewSession(repo storage.AppointmentRepository, log *logger.Logger) *Session {
	return &Session{
		repo:   repo,
		logger: log,
	}
}

// Form возвращает текущее состояние формы
func (s *Session) Form() FormState {
	return s.form
}

// FreeSlots возвращает копию последнего вычисленного списка свободных слотов
func (s *Session) FreeSlots() []string {
	free := make([]string, len(s.free))
	copy(free, s.free)
	return free
}

// SetName устанавливает имя заявителя
func (s *Session) SetName(name string) {
	s.form = s.form.WithName(name)
}

// SetDescription устанавливает описание причины приема
func (s *Session) SetDescription(description string) {
	s.form = s.form.WithDescription(description)
}

// SelectDate выбирает дату приема и пересчитывает свободные слоты.
// Пустая дата — no-op, прежний результат не трогается.
func (s *Session) SelectDate(ctx context.Context, date string) error {
	if date == "" {
		return nil
	}

	if err := validation.ValidateDate(date); err != nil {
		return err
	}

	s.form = s.form.WithDate(date)
	return s.resolve(ctx, date)
}

// SelectTime выбирает время приема. Метка должна входить в
// каноническое расписание и быть свободной на выбранную дату.
func (s *Session) SelectTime(timeLabel string) error {
	if err := validation.ValidateTime(timeLabel); err != nil {
		return err
	}

	if !s.isFree(timeLabel) {
		return apperrors.ErrSlotNotAvailable.WithContext(map[string]interface{}{
			"date": s.form.Date,
			"time": timeLabel,
		})
	}

	s.form = s.form.WithTime(timeLabel)
	return nil
}

// Refresh пересчитывает свободные слоты для текущей выбранной даты
func (s *Session) Refresh(ctx context.Context) error {
	if s.form.Date == "" {
		return nil
	}
	return s.resolve(ctx, s.form.Date)
}

// Submit валидирует форму и сохраняет запись.
// При успехе форма сбрасывается и доступность пересчитывается
// для только что отправленной даты; при ошибке форма сохраняется.
func (s *Session) Submit(ctx context.Context) (*Confirmation, error) {
	if err := s.form.Validate(); err != nil {
		return nil, err
	}

	if !s.isFree(s.form.Time) {
		return nil, apperrors.ErrSlotNotAvailable.WithContext(map[string]interface{}{
			"date": s.form.Date,
			"time": s.form.Time,
		})
	}

	appt := &models.Appointment{
		Name:        s.form.Name,
		Date:        s.form.Date,
		Time:        s.form.Time,
		Description: s.form.Description,
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		if _, ok := apperrors.GetAppError(err); !ok {
			metrics.RecordStorageError("insert")
		}
		s.logger.Error("Failed to insert appointment",
			logger.String("date", appt.Date),
			logger.String("time", appt.Time),
			logger.Error(err),
		)
		return nil, err
	}

	metrics.AppointmentsCreated.Inc()
	s.logger.Info("Appointment scheduled",
		logger.Int64("id", appt.ID),
		logger.String("date", appt.Date),
		logger.String("time", appt.Time),
	)

	submittedDate := appt.Date
	s.form = s.form.Reset()

	// Список слотов для этой даты устарел — пересчитываем сразу,
	// дата передается явно, а не берется из уже сброшенной формы
	if err := s.resolve(ctx, submittedDate); err != nil {
		s.logger.Warn("Failed to refresh availability after submit",
			logger.String("date", submittedDate),
			logger.Error(err),
		)
	}

	return &Confirmation{
		Appointment: appt,
		Message:     "Запись успешно создана",
	}, nil
}

// resolve запрашивает занятые слоты на дату и вычисляет свободные.
// При ошибке хранилища прежний список остается нетронутым (stale-but-safe),
// а ошибка возвращается вызывающему для показа уведомления.
func (s *Session) resolve(ctx context.Context, date string) error {
	appointments, err := s.repo.QueryByDate(ctx, date)
	if err != nil {
		metrics.RecordAvailabilityQuery("error")
		metrics.RecordStorageError("query_by_date")
		s.logger.Error("Failed to fetch appointments for date",
			logger.String("date", date),
			logger.Error(err),
		)
		return apperrors.ErrStorageUnavailable.WithError(err)
	}

	booked := make([]string, 0, len(appointments))
	for _, appt := range appointments {
		booked = append(booked, appt.Time)
	}

	s.free = schedule.Free(booked)
	metrics.RecordAvailabilityQuery("success")
	metrics.SetFreeSlots(date, len(s.free))

	// Выбранное время могло стать занятым — молча сбрасываем
	if s.form.Time != "" && !s.isFree(s.form.Time) {
		s.form = s.form.WithTime("")
	}

	return nil
}

// isFree проверяет, есть ли метка в последнем вычисленном списке свободных
func (s *Session) isFree(timeLabel string) bool {
	for _, slot := range s.free {
		if slot == timeLabel {
			return true
		}
	}
	return false
}

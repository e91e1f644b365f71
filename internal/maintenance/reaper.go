package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"appointment_booking/internal/schedule"
	"appointment_booking/internal/storage"
	"appointment_booking/pkg/logger"
	"appointment_booking/pkg/metrics"
)

// Reaper периодически удаляет записи, чья дата приема старше срока хранения.
// При retentionDays == 0 очистка отключена.
type Reaper struct {
	repo          storage.AppointmentRepository
	logger        *logger.Logger
	retentionDays int
	interval      time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  bool
	stopOnce sync.Once
}

// NewReaper создает новый reaper
func NewReaper(repo storage.AppointmentRepository, log *logger.Logger, retentionDays int, interval time.Duration) *Reaper {
	return &Reaper{
		repo:          repo,
		logger:        log,
		retentionDays: retentionDays,
		interval:      interval,
	}
}

// Start запускает фоновую очистку
func (r *Reaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return fmt.Errorf("reaper is stopped")
	}

	if r.retentionDays <= 0 {
		r.logger.Info("Retention cleanup disabled")
		return nil
	}

	if r.done != nil {
		return fmt.Errorf("reaper already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(runCtx)

	r.logger.Info("Retention cleanup started",
		logger.Int("retention_days", r.retentionDays),
		logger.Duration("interval", r.interval),
	)
	return nil
}

// Stop останавливает очистку; повторные вызовы безопасны
func (r *Reaper) Stop() error {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		cancel := r.cancel
		done := r.done
		r.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}
	})

	return nil
}

// run выполняет цикл очистки до отмены контекста
func (r *Reaper) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Первая очистка сразу при старте
	r.reap(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

// reap удаляет записи старше среза хранения
func (r *Reaper) reap(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -r.retentionDays).Format(schedule.DateFormat)

	deleted, err := r.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		metrics.RecordStorageError("delete_older_than")
		r.logger.Error("Retention cleanup failed",
			logger.String("cutoff", cutoff),
			logger.Error(err),
		)
		return
	}

	if deleted > 0 {
		metrics.AppointmentsReaped.Add(float64(deleted))
		r.logger.Info("Old appointments removed",
			logger.String("cutoff", cutoff),
			logger.Int64("deleted", deleted),
		)
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики приложения записи на прием
var (
	// Метрики записей
	AppointmentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_appointments_created_total",
			Help: "Общее количество созданных записей",
		},
	)

	AppointmentsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_appointments_deleted_total",
			Help: "Общее количество удаленных записей",
		},
	)

	AppointmentsReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_appointments_reaped_total",
			Help: "Общее количество записей, удаленных по сроку хранения",
		},
	)

	// Метрики доступности слотов
	AvailabilityQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_availability_queries_total",
			Help: "Общее количество запросов свободных слотов",
		},
		[]string{"status"},
	)

	FreeSlots = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "booking_free_slots",
			Help: "Количество свободных слотов по дням",
		},
		[]string{"date"},
	)

	// Метрики хранилища
	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_storage_errors_total",
			Help: "Общее количество ошибок хранилища по операциям",
		},
		[]string{"operation"},
	)

	// HTTP метрики ops-сервера
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordAvailabilityQuery записывает результат запроса доступности
func RecordAvailabilityQuery(status string) {
	AvailabilityQueries.WithLabelValues(status).Inc()
}

// RecordStorageError записывает ошибку хранилища
func RecordStorageError(operation string) {
	StorageErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest записывает HTTP запрос
func RecordHTTPRequest(method, path, status string) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// SetFreeSlots обновляет количество свободных слотов на дату
func SetFreeSlots(date string, count int) {
	FreeSlots.WithLabelValues(date).Set(float64(count))
}

package testutil

import (
	"context"
	"testing"

	"appointment_booking/internal/storage/models"
	"appointment_booking/internal/storage/sqlite"
	"appointment_booking/pkg/logger"
)

// SetupTestDB создает in-memory SQLite базу данных для тестов
func SetupTestDB(t *testing.T) *sqlite.SQLiteStorage {
	t.Helper()

	storage, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		storage.Close()
	})

	return storage
}

// SetupTestLogger создает тестовый логгер
func SetupTestLogger() *logger.Logger {
	return logger.New(logger.LevelError)
}

// TestContext создает контекст для тестов
func TestContext() context.Context {
	return context.Background()
}

// SeedAppointment вставляет запись и возвращает ее
func SeedAppointment(t *testing.T, store *sqlite.SQLiteStorage, name, date, timeLabel, description string) *models.Appointment {
	t.Helper()

	appt := &models.Appointment{
		Name:        name,
		Date:        date,
		Time:        timeLabel,
		Description: description,
	}

	if err := store.Insert(TestContext(), appt); err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}

	return appt
}

// AssertEqual проверяет равенство значений
func AssertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()

	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

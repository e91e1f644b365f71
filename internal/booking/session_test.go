package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"appointment_booking/internal/schedule"
	"appointment_booking/internal/storage/models"
	"appointment_booking/internal/testutil"
	apperrors "appointment_booking/pkg/errors"
)

const testDate = "2026-09-15"

func newTestSession(t *testing.T) (*Session, *brokenRepo) {
	t.Helper()

	store := testutil.SetupTestDB(t)
	repo := &brokenRepo{inner: store}
	return NewSession(repo, testutil.SetupTestLogger()), repo
}

// brokenRepo проксирует реальное хранилище и по флагу начинает падать
type brokenRepo struct {
	inner interface {
		Insert(ctx context.Context, appt *models.Appointment) error
		QueryByDate(ctx context.Context, date string) ([]*models.Appointment, error)
		QueryAll(ctx context.Context) ([]*models.Appointment, error)
		DeleteByID(ctx context.Context, id int64) (bool, error)
		DeleteOlderThan(ctx context.Context, cutoffDate string) (int64, error)
	}
	failQuery  bool
	failInsert bool
}

var errBroken = errors.New("disk I/O error")

func (b *brokenRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	if b.failInsert {
		return errBroken
	}
	return b.inner.Insert(ctx, appt)
}

func (b *brokenRepo) QueryByDate(ctx context.Context, date string) ([]*models.Appointment, error) {
	if b.failQuery {
		return nil, errBroken
	}
	return b.inner.QueryByDate(ctx, date)
}

func (b *brokenRepo) QueryAll(ctx context.Context) ([]*models.Appointment, error) {
	return b.inner.QueryAll(ctx)
}

func (b *brokenRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	return b.inner.DeleteByID(ctx, id)
}

func (b *brokenRepo) DeleteOlderThan(ctx context.Context, cutoffDate string) (int64, error) {
	return b.inner.DeleteOlderThan(ctx, cutoffDate)
}

func TestSession_SelectDate_AllSlotsFree(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}

	if !reflect.DeepEqual(session.FreeSlots(), schedule.Slots()) {
		t.Errorf("expected all 19 slots free, got %v", session.FreeSlots())
	}
}

func TestSession_SelectDate_EmptyIsNoop(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	before := session.FreeSlots()

	// Пустая дата — no-op, прежний результат не трогается
	if err := session.SelectDate(ctx, ""); err != nil {
		t.Fatalf("empty date must be a no-op, got %v", err)
	}
	if !reflect.DeepEqual(session.FreeSlots(), before) {
		t.Error("free slots must be untouched after empty-date call")
	}
	if session.Form().Date != testDate {
		t.Errorf("form date must be untouched, got %q", session.Form().Date)
	}
}

func TestSession_SelectDate_SubtractsBooked(t *testing.T) {
	session, repo := newTestSession(t)
	ctx := testutil.TestContext()

	store := repo.inner
	for _, label := range []string{"09:00", "09:30"} {
		appt := &models.Appointment{Name: "X", Date: testDate, Time: label, Description: "d"}
		if err := store.Insert(ctx, appt); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}

	free := session.FreeSlots()
	if len(free) != 17 {
		t.Fatalf("expected 17 free slots, got %d", len(free))
	}
	if free[0] != "10:00" || free[len(free)-1] != "18:00" {
		t.Errorf("expected [10:00 ... 18:00], got [%s ... %s]", free[0], free[len(free)-1])
	}
}

func TestSession_Resolve_Idempotent(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	first := session.FreeSlots()

	if err := session.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if !reflect.DeepEqual(first, session.FreeSlots()) {
		t.Error("resolving twice with no writes must yield the same result")
	}
}

func TestSession_SelectDate_StorageErrorKeepsPreviousSlots(t *testing.T) {
	session, repo := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	before := session.FreeSlots()

	repo.failQuery = true
	err := session.SelectDate(ctx, "2026-09-16")
	if err == nil {
		t.Fatal("expected storage error to be reported")
	}
	if !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}

	// Stale-but-safe: прежний список остается
	if !reflect.DeepEqual(session.FreeSlots(), before) {
		t.Error("free slots must stay at previous value after a failed query")
	}
}

func TestSession_SelectTime(t *testing.T) {
	session, repo := newTestSession(t)
	ctx := testutil.TestContext()

	store := repo.inner
	appt := &models.Appointment{Name: "X", Date: testDate, Time: "10:00", Description: "d"}
	if err := store.Insert(ctx, appt); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}

	// Занятый слот нельзя выбрать
	err := session.SelectTime("10:00")
	if !errors.Is(err, apperrors.ErrSlotNotAvailable) {
		t.Errorf("expected ErrSlotNotAvailable for a booked slot, got %v", err)
	}

	// Метка вне рабочего окна отклоняется
	err = session.SelectTime("18:30")
	if !errors.Is(err, apperrors.ErrUnknownSlot) {
		t.Errorf("expected ErrUnknownSlot, got %v", err)
	}

	if err := session.SelectTime("10:30"); err != nil {
		t.Fatalf("expected free slot to be selectable: %v", err)
	}
	if session.Form().Time != "10:30" {
		t.Errorf("expected selected time 10:30, got %q", session.Form().Time)
	}
}

func TestSession_DateChangeClearsStaleSelection(t *testing.T) {
	session, repo := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	if err := session.SelectTime("10:00"); err != nil {
		t.Fatalf("select time failed: %v", err)
	}

	// На другой дате слот 10:00 занят
	store := repo.inner
	appt := &models.Appointment{Name: "X", Date: "2026-09-16", Time: "10:00", Description: "d"}
	if err := store.Insert(ctx, appt); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	if err := session.SelectDate(ctx, "2026-09-16"); err != nil {
		t.Fatalf("select date failed: %v", err)
	}

	if session.Form().Time != "" {
		t.Errorf("expected stale time selection to be cleared, got %q", session.Form().Time)
	}
}

func TestSession_Submit_Success(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	session.SetName("Ivan Petrov")
	session.SetDescription("Consultation")
	if err := session.SelectTime("10:00"); err != nil {
		t.Fatalf("select time failed: %v", err)
	}

	conf, err := session.Submit(ctx)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if conf.Appointment.ID <= 0 {
		t.Error("expected stored appointment with assigned id")
	}
	if conf.Message == "" {
		t.Error("expected a confirmation message")
	}

	// Форма сброшена
	if session.Form() != (FormState{}) {
		t.Errorf("expected form to be reset, got %+v", session.Form())
	}

	// Доступность пересчитана для отправленной даты: 10:00 более не свободен
	for _, slot := range session.FreeSlots() {
		if slot == "10:00" {
			t.Error("submitted slot must not remain free")
		}
	}
	if len(session.FreeSlots()) != 18 {
		t.Errorf("expected 18 free slots after submit, got %d", len(session.FreeSlots()))
	}
}

func TestSession_Submit_ValidationError(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	session.SetName("Ivan")
	// Описание и время не заполнены

	if _, err := session.Submit(ctx); err == nil {
		t.Fatal("expected validation error for incomplete form")
	}

	// Хранилище не тронуто
	rows, err := session.repo.QueryByDate(ctx, testDate)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("validation failure must not touch the store, got %d rows", len(rows))
	}
}

func TestSession_Submit_StorageErrorKeepsForm(t *testing.T) {
	session, repo := newTestSession(t)
	ctx := testutil.TestContext()

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	session.SetName("Ivan")
	session.SetDescription("Consultation")
	if err := session.SelectTime("10:00"); err != nil {
		t.Fatalf("select time failed: %v", err)
	}

	repo.failInsert = true
	if _, err := session.Submit(ctx); err == nil {
		t.Fatal("expected submit to surface the write failure")
	}

	// Форма не сбрасывается при ошибке записи
	form := session.Form()
	if form.Name != "Ivan" || form.Time != "10:00" || form.Date != testDate {
		t.Errorf("form must be kept intact on write failure, got %+v", form)
	}
}

func TestSession_DeleteFreesSlot(t *testing.T) {
	session, repo := newTestSession(t)
	ctx := testutil.TestContext()

	store := repo.inner
	appt := &models.Appointment{Name: "X", Date: testDate, Time: "10:00", Description: "d"}
	if err := store.Insert(ctx, appt); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	if err := session.SelectDate(ctx, testDate); err != nil {
		t.Fatalf("select date failed: %v", err)
	}
	if len(session.FreeSlots()) != 18 {
		t.Fatalf("expected 18 free slots before delete, got %d", len(session.FreeSlots()))
	}

	if _, err := store.DeleteByID(ctx, appt.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// Резолвер всегда перечитывает живое состояние
	if err := session.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	found := false
	for _, slot := range session.FreeSlots() {
		if slot == "10:00" {
			found = true
		}
	}
	if !found {
		t.Error("deleted appointment's slot must be free again")
	}
}

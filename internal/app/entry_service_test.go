package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/entry"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestUser(t *testing.T, repo *fakeUserRepo, telegramID int64) *user.User {
	t.Helper()
	u := &user.User{
		TelegramID:           telegramID,
		CycleLength:          28,
		NotificationsEnabled: true,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func TestRecordDayFirstEntry(t *testing.T) {
	t.Parallel()

	userRepo := newFakeUserRepo()
	entryRepo := &fakeEntryRepo{}
	newTestUser(t, userRepo, 100)

	svc := NewEntryService(userRepo, entryRepo, testLogger())

	result, err := svc.RecordDay(context.Background(), 100, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transition {
		t.Error("first entry must not report a transition")
	}
	if result.PhaseInfo.Phase != cycle.PhaseOvulatory {
		t.Errorf("phase = %q, want %q", result.PhaseInfo.Phase, cycle.PhaseOvulatory)
	}
	if len(entryRepo.entries) != 1 {
		t.Fatalf("stored entries = %d, want 1", len(entryRepo.entries))
	}
	if entryRepo.entries[0].Phase != string(cycle.PhaseOvulatory) {
		t.Errorf("stored phase label = %q, want %q", entryRepo.entries[0].Phase, cycle.PhaseOvulatory)
	}
}

func TestRecordDayDetectsTransition(t *testing.T) {
	t.Parallel()

	userRepo := newFakeUserRepo()
	entryRepo := &fakeEntryRepo{}
	u := newTestUser(t, userRepo, 100)

	entryRepo.entries = append(entryRepo.entries, &entry.Entry{
		ID:        1,
		UserID:    u.ID,
		DayNumber: 5,
		Phase:     string(cycle.PhaseMenstrual),
		EntryDate: time.Now().Add(-24 * time.Hour),
	})

	svc := NewEntryService(userRepo, entryRepo, testLogger())

	result, err := svc.RecordDay(context.Background(), 100, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Transition {
		t.Error("day 5 -> 6 must report a menstrual -> postmenstrual transition")
	}
}

func TestRecordDayRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	userRepo := newFakeUserRepo()
	entryRepo := &fakeEntryRepo{}
	newTestUser(t, userRepo, 100)

	svc := NewEntryService(userRepo, entryRepo, testLogger())

	if _, err := svc.RecordDay(context.Background(), 100, 36); !errors.Is(err, cycle.ErrDayOutOfRange) {
		t.Fatalf("error = %v, want ErrDayOutOfRange", err)
	}
	if len(entryRepo.entries) != 0 {
		t.Fatal("rejected day must not be persisted")
	}
}

func TestRecordDayUnknownUser(t *testing.T) {
	t.Parallel()

	svc := NewEntryService(newFakeUserRepo(), &fakeEntryRepo{}, testLogger())

	if _, err := svc.RecordDay(context.Background(), 999, 10); !errors.Is(err, idb.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestRecordDayFallsBackToDefaultCycleLength(t *testing.T) {
	t.Parallel()

	userRepo := newFakeUserRepo()
	entryRepo := &fakeEntryRepo{}
	u := &user.User{
		TelegramID:           100,
		CycleLength:          0, // never configured
		NotificationsEnabled: true,
		Username:             sql.NullString{},
	}
	if err := userRepo.Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	svc := NewEntryService(userRepo, entryRepo, testLogger())

	result, err := svc.RecordDay(context.Background(), 100, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PhaseInfo.CycleLength != cycle.DefaultCycleLength {
		t.Errorf("cycle length = %d, want default %d", result.PhaseInfo.CycleLength, cycle.DefaultCycleLength)
	}
}

func TestDayFromPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase cycle.Phase
		want  int
	}{
		{cycle.PhaseMenstrual, 3},      // (1+5)/2
		{cycle.PhasePostmenstrual, 9},  // (6+12)/2
		{cycle.PhaseOvulatory, 14},     // (13+15)/2
		{cycle.PhasePostovulatory, 20}, // (16+24)/2
		{cycle.PhasePMS, 26},           // (25+28)/2
	}
	for _, tt := range tests {
		got, err := DayFromPhase(tt.phase, 28)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.phase, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: day = %d, want %d", tt.phase, got, tt.want)
		}
	}

	if _, err := DayFromPhase(cycle.PhaseMenstrual, 0); !errors.Is(err, cycle.ErrInvalidCycleLength) {
		t.Fatalf("zero length: error = %v, want ErrInvalidCycleLength", err)
	}
}

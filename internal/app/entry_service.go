package app

import (
	"context"
	"fmt"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/entry"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// RecordResult is what a saved cycle-day observation looks like to a handler.
type RecordResult struct {
	PhaseInfo  *cycle.PhaseInfo
	Transition bool // True when the phase changed against the previous entry
}

// EntryService records cycle-day observations, classifying them through the
// cycle package before persisting.
type EntryService struct {
	userRepo  user.Repository
	entryRepo entry.Repository
	logger    *logrus.Entry
}

func NewEntryService(ur user.Repository, er entry.Repository, logger *logrus.Entry) *EntryService {
	return &EntryService{
		userRepo:  ur,
		entryRepo: er,
		logger:    logger,
	}
}

// RecordDay validates and stores a cycle-day observation for the user behind
// telegramID. Out-of-range or unclassifiable days surface the cycle package's
// sentinel errors; the handler owns the user-facing wording.
func (s *EntryService) RecordDay(ctx context.Context, telegramID int64, dayNumber int) (*RecordResult, error) {
	u, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	cycleLength := u.CycleLength
	if cycleLength < 1 {
		cycleLength = cycle.DefaultCycleLength
	}

	phaseInfo, err := cycle.GetPhaseInfo(dayNumber, cycleLength)
	if err != nil {
		return nil, err
	}

	// Transition is judged against the latest stored entry, if any.
	transition := false
	lastEntry, err := s.entryRepo.GetLatestByUser(ctx, u.ID)
	switch {
	case err == nil:
		previousDay := lastEntry.DayNumber
		transition, err = cycle.IsPhaseTransition(dayNumber, &previousDay, cycleLength)
		if err != nil {
			return nil, fmt.Errorf("failed to check phase transition: %w", err)
		}
	case err != idb.ErrEntryNotFound:
		return nil, fmt.Errorf("failed to fetch latest entry: %w", err)
	}

	newEntry := &entry.Entry{
		UserID:    u.ID,
		DayNumber: dayNumber,
		Phase:     string(phaseInfo.Phase),
		EntryDate: time.Now(),
	}
	if err := s.entryRepo.Create(ctx, newEntry); err != nil {
		return nil, fmt.Errorf("failed to save cycle entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    u.ID,
		"day_number": dayNumber,
		"phase":      phaseInfo.Phase,
		"transition": transition,
	}).Info("Cycle entry recorded")

	return &RecordResult{PhaseInfo: phaseInfo, Transition: transition}, nil
}

// DayFromPhase estimates a cycle day for a user who reports a phase instead
// of a number: the midpoint of the phase's range.
func DayFromPhase(phase cycle.Phase, cycleLength int) (int, error) {
	boundaries, err := cycle.PhaseBoundaries(cycleLength)
	if err != nil {
		return 0, err
	}
	b := boundaries[phase]
	return (b.Start + b.End) / 2, nil
}

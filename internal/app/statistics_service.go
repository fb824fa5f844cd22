package app

import (
	"context"
	"fmt"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/entry"
	"cycle_companion_bot/internal/domain/user"
)

// StatisticsService computes aggregate cycle statistics from a user's stored
// observation history. The math lives in the cycle package; this service only
// fetches the snapshot and adapts it.
type StatisticsService struct {
	userRepo  user.Repository
	entryRepo entry.Repository
}

func NewStatisticsService(ur user.Repository, er entry.Repository) *StatisticsService {
	return &StatisticsService{
		userRepo:  ur,
		entryRepo: er,
	}
}

// GetUserStatistics fetches the user's full ordered history and segments it
// into cycles. A user with no entries gets the zero statistics value.
func (s *StatisticsService) GetUserStatistics(ctx context.Context, telegramID int64) (cycle.UserStatistics, error) {
	u, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return cycle.UserStatistics{}, err
	}

	entries, err := s.entryRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return cycle.UserStatistics{}, fmt.Errorf("failed to list entries for statistics: %w", err)
	}

	cycleLength := u.CycleLength
	if cycleLength < 1 {
		cycleLength = cycle.DefaultCycleLength
	}

	return cycle.ComputeUserStatistics(toObservations(entries), cycleLength)
}

func toObservations(entries []*entry.Entry) []cycle.Observation {
	observations := make([]cycle.Observation, 0, len(entries))
	for _, e := range entries {
		observations = append(observations, cycle.Observation{
			DayNumber:  e.DayNumber,
			EntryDate:  e.EntryDate,
			PhaseLabel: e.Phase,
		})
	}
	return observations
}

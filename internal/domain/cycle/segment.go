// internal/domain/cycle/segment.go
package cycle

import (
	"errors"
	"time"
)

// ErrNoObservations signals an empty history passed to the segmenter.
var ErrNoObservations = errors.New("observation history is empty")

// Observation is one historical cycle-day record, as read back from storage.
// The segmenter expects observations ordered ascending by EntryDate.
type Observation struct {
	DayNumber  int
	EntryDate  time.Time
	PhaseLabel string
}

// CycleStats describes one reconstructed cycle segment. Length is nil while
// the cycle is still open or when the segment holds a single observation.
type CycleStats struct {
	StartDate    time.Time
	EndDate      time.Time
	Length       *int
	EntriesCount int
}

// UserStatistics aggregates a user's full observation history.
type UserStatistics struct {
	TotalCycles        int
	AverageCycleLength *float64
	CurrentCycleDay    *int
	CurrentPhase       string
	CyclesHistory      []CycleStats
	TotalEntries       int
}

// SegmentCycles replays an ordered observation history and reconstructs the
// discrete cycles in it. A new cycle starts when:
//
//  1. it is the very first observation;
//  2. the day number drops back to the start (<= 3) from late in the previous
//     cycle (previous day past cycleLength-5);
//  3. two early-cycle observations (both <= 3) are at least 20 days apart,
//     which implies a second menstruation even without a late-cycle entry in
//     between.
//
// The final segment is always emitted open (nil Length). These rules are
// heuristics tuned for the default 28-day cycle and are kept as-is for other
// lengths so stored histories keep their established segmentation.
func SegmentCycles(observations []Observation, cycleLength int) ([]CycleStats, error) {
	if cycleLength < 1 {
		return nil, ErrInvalidCycleLength
	}
	if len(observations) == 0 {
		return nil, ErrNoObservations
	}

	var (
		cycles       []CycleStats
		segment      []Observation
		segmentStart time.Time
		previousDay  *int
	)

	for i := range observations {
		obs := observations[i]

		isNewCycle := false
		switch {
		case previousDay == nil:
			isNewCycle = true
		case obs.DayNumber <= 3 && *previousDay > cycleLength-5:
			isNewCycle = true
		case obs.DayNumber <= 3 && *previousDay <= 3:
			if !segmentStart.IsZero() && daysBetween(segmentStart, obs.EntryDate) >= 20 {
				isNewCycle = true
			}
		}

		if isNewCycle {
			if len(segment) > 0 {
				cycles = append(cycles, closeSegment(segment, segmentStart, cycleLength))
			}
			segmentStart = obs.EntryDate
			segment = segment[:0]
		}
		segment = append(segment, obs)

		day := obs.DayNumber
		previousDay = &day
	}

	// The most recent cycle is still open: no closing length, ever.
	last := segment[len(segment)-1]
	cycles = append(cycles, CycleStats{
		StartDate:    segmentStart,
		EndDate:      last.EntryDate,
		Length:       nil,
		EntriesCount: len(segment),
	})

	return cycles, nil
}

// closeSegment turns the accumulated observations into a completed cycle.
// A single observation gives no length. When the last observed day is below
// the first, the segment wrapped a cycle boundary that the detection rules
// did not split on, and the length is counted across the wrap.
func closeSegment(segment []Observation, start time.Time, cycleLength int) CycleStats {
	var length *int
	if len(segment) > 1 {
		firstDay := segment[0].DayNumber
		lastDay := segment[len(segment)-1].DayNumber

		var days int
		if lastDay < firstDay {
			days = lastDay + (cycleLength - firstDay) + 1
		} else {
			days = lastDay - firstDay + 1
		}
		length = &days
	}

	return CycleStats{
		StartDate:    start,
		EndDate:      segment[len(segment)-1].EntryDate,
		Length:       length,
		EntriesCount: len(segment),
	}
}

// ComputeUserStatistics derives the aggregate view of a user's history. An
// empty history is a valid state and yields zero statistics.
func ComputeUserStatistics(observations []Observation, cycleLength int) (UserStatistics, error) {
	if cycleLength < 1 {
		return UserStatistics{}, ErrInvalidCycleLength
	}
	if len(observations) == 0 {
		return UserStatistics{}, nil
	}

	cycles, err := SegmentCycles(observations, cycleLength)
	if err != nil {
		return UserStatistics{}, err
	}

	completed := 0
	lengthSum := 0
	for _, c := range cycles {
		if c.Length != nil {
			completed++
			lengthSum += *c.Length
		}
	}

	var average *float64
	if completed > 0 {
		avg := float64(lengthSum) / float64(completed)
		average = &avg
	}

	last := observations[len(observations)-1]
	currentDay := last.DayNumber

	return UserStatistics{
		TotalCycles:        completed,
		AverageCycleLength: average,
		CurrentCycleDay:    &currentDay,
		CurrentPhase:       last.PhaseLabel,
		CyclesHistory:      cycles,
		TotalEntries:       len(observations),
	}, nil
}

// daysBetween counts whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

package cycle

import (
	"errors"
	"testing"
	"time"
)

var segBase = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// obsAt builds an observation at an offset of whole days from segBase.
func obsAt(day int, daysFromBase int) Observation {
	return Observation{
		DayNumber:  day,
		EntryDate:  segBase.AddDate(0, 0, daysFromBase),
		PhaseLabel: string(PhaseMenstrual),
	}
}

func TestSegmentCyclesSingleOpenCycle(t *testing.T) {
	t.Parallel()

	observations := []Observation{
		obsAt(1, 0),
		obsAt(5, 4),
		obsAt(10, 9),
		obsAt(15, 14),
		obsAt(20, 19),
		obsAt(28, 27),
	}

	cycles, err := SegmentCycles(observations, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}

	got := cycles[0]
	if got.Length != nil {
		t.Errorf("open cycle length = %d, want nil", *got.Length)
	}
	if got.EntriesCount != 6 {
		t.Errorf("entries count = %d, want 6", got.EntriesCount)
	}
	if !got.StartDate.Equal(observations[0].EntryDate) {
		t.Errorf("start date = %v, want %v", got.StartDate, observations[0].EntryDate)
	}
	if !got.EndDate.Equal(observations[5].EntryDate) {
		t.Errorf("end date = %v, want %v", got.EndDate, observations[5].EntryDate)
	}
}

func TestSegmentCyclesWrapAroundBoundary(t *testing.T) {
	t.Parallel()

	// Day 2 after day 25 (past cycleLength-5) starts a new cycle.
	observations := []Observation{
		obsAt(1, 0),
		obsAt(10, 9),
		obsAt(25, 24),
		obsAt(2, 26),
	}

	cycles, err := SegmentCycles(observations, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(cycles))
	}

	closed := cycles[0]
	if closed.Length == nil {
		t.Fatal("closed cycle length is nil, want a value")
	}
	if *closed.Length != 25 { // 25 - 1 + 1
		t.Errorf("closed cycle length = %d, want 25", *closed.Length)
	}
	if closed.EntriesCount != 3 {
		t.Errorf("closed cycle entries = %d, want 3", closed.EntriesCount)
	}

	open := cycles[1]
	if open.Length != nil {
		t.Errorf("open cycle length = %d, want nil", *open.Length)
	}
	if open.EntriesCount != 1 {
		t.Errorf("open cycle entries = %d, want 1", open.EntriesCount)
	}
	if !open.StartDate.Equal(observations[3].EntryDate) {
		t.Errorf("open cycle start = %v, want %v", open.StartDate, observations[3].EntryDate)
	}
}

func TestSegmentCyclesTwoEarlyObservationsFarApart(t *testing.T) {
	t.Parallel()

	// Both observations are early-cycle days; 21 days apart means a second
	// menstruation even though no late-cycle entry was seen in between.
	observations := []Observation{
		obsAt(2, 0),
		obsAt(3, 21),
	}

	cycles, err := SegmentCycles(observations, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(cycles))
	}

	// The closed segment holds a single entry, so no length can be derived.
	if cycles[0].Length != nil {
		t.Errorf("single-entry segment length = %d, want nil", *cycles[0].Length)
	}
	if cycles[0].EntriesCount != 1 {
		t.Errorf("first segment entries = %d, want 1", cycles[0].EntriesCount)
	}
}

func TestSegmentCyclesTwoEarlyObservationsClose(t *testing.T) {
	t.Parallel()

	// Early-cycle observations only 2 days apart stay in one cycle.
	observations := []Observation{
		obsAt(2, 0),
		obsAt(3, 2),
	}

	cycles, err := SegmentCycles(observations, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	if cycles[0].EntriesCount != 2 {
		t.Errorf("entries = %d, want 2", cycles[0].EntriesCount)
	}
}

func TestSegmentCyclesWrappedSegmentLength(t *testing.T) {
	t.Parallel()

	// Day 2 after day 20 does not trigger any boundary rule (20 is not past
	// cycleLength-5), so the segment itself wraps. When a later observation
	// finally closes it, the length counts across the wrap.
	observations := []Observation{
		obsAt(20, 0),
		obsAt(2, 5),
		obsAt(1, 25),
	}

	cycles, err := SegmentCycles(observations, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(cycles))
	}

	closed := cycles[0]
	if closed.Length == nil {
		t.Fatal("closed cycle length is nil, want a value")
	}
	if *closed.Length != 11 { // 2 + (28 - 20) + 1
		t.Errorf("wrapped segment length = %d, want 11", *closed.Length)
	}
}

func TestSegmentCyclesValidation(t *testing.T) {
	t.Parallel()

	if _, err := SegmentCycles(nil, 28); !errors.Is(err, ErrNoObservations) {
		t.Errorf("empty history: error = %v, want ErrNoObservations", err)
	}
	if _, err := SegmentCycles([]Observation{obsAt(1, 0)}, 0); !errors.Is(err, ErrInvalidCycleLength) {
		t.Errorf("zero cycle length: error = %v, want ErrInvalidCycleLength", err)
	}
}

func TestComputeUserStatistics(t *testing.T) {
	t.Parallel()

	observations := []Observation{
		// First cycle.
		obsAt(1, 0),
		obsAt(15, 14),
		obsAt(25, 24),
		// Second cycle (wrap from day 25 to day 2).
		obsAt(2, 28),
		obsAt(14, 40),
		obsAt(26, 52),
		// Current open cycle.
		{DayNumber: 1, EntryDate: segBase.AddDate(0, 0, 56), PhaseLabel: string(PhaseMenstrual)},
	}

	stats, err := ComputeUserStatistics(observations, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalCycles != 2 {
		t.Errorf("total cycles = %d, want 2", stats.TotalCycles)
	}
	if stats.AverageCycleLength == nil {
		t.Fatal("average cycle length is nil, want a value")
	}
	if *stats.AverageCycleLength != 25.0 { // both closed cycles span 25 days
		t.Errorf("average cycle length = %v, want 25.0", *stats.AverageCycleLength)
	}
	if stats.CurrentCycleDay == nil || *stats.CurrentCycleDay != 1 {
		t.Errorf("current cycle day = %v, want 1", stats.CurrentCycleDay)
	}
	if stats.CurrentPhase != string(PhaseMenstrual) {
		t.Errorf("current phase = %q, want %q", stats.CurrentPhase, PhaseMenstrual)
	}
	if stats.TotalEntries != 7 {
		t.Errorf("total entries = %d, want 7", stats.TotalEntries)
	}
	if len(stats.CyclesHistory) != 3 {
		t.Errorf("history length = %d, want 3", len(stats.CyclesHistory))
	}
}

func TestComputeUserStatisticsEmptyHistory(t *testing.T) {
	t.Parallel()

	stats, err := ComputeUserStatistics(nil, 28)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalEntries != 0 || stats.TotalCycles != 0 {
		t.Fatalf("empty history stats = %+v, want zero value", stats)
	}
	if stats.AverageCycleLength != nil || stats.CurrentCycleDay != nil {
		t.Fatalf("empty history stats carry values: %+v", stats)
	}
}

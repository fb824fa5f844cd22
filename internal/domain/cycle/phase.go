// internal/domain/cycle/phase.go
package cycle

import (
	"errors"
	"fmt"
	"time"
)

// Phase is one of the five named segments of a menstrual cycle.
// The string values are stable serialization labels: they are stored in the
// cycle_entries table and shown to users as-is.
type Phase string

const (
	PhaseMenstrual     Phase = "менструальная"
	PhasePostmenstrual Phase = "постменструальная"
	PhaseOvulatory     Phase = "овуляторная"
	PhasePostovulatory Phase = "постовуляторная"
	PhasePMS           Phase = "пмс"
)

// MaxCycleDay is the highest day number the calculator accepts.
const MaxCycleDay = 35

// DefaultCycleLength is assumed when a user has not configured one.
const DefaultCycleLength = 28

var (
	// ErrInvalidCycleLength reflects a configuration or data error, not user
	// input, so it is a loud failure rather than a quiet "no phase".
	ErrInvalidCycleLength = errors.New("cycle length must be a positive number of days")
	// ErrDayOutOfRange signals a day number outside [1, MaxCycleDay]. An
	// expected, frequent condition callers branch on.
	ErrDayOutOfRange = fmt.Errorf("cycle day must be between 1 and %d", MaxCycleDay)
	// ErrUnclassifiableDay signals a day that is in range but not covered by
	// any phase. Boundary scaling for non-28-day cycles can leave small gaps.
	ErrUnclassifiableDay = errors.New("no phase range covers this cycle day")
)

// Boundary is an inclusive day-number range of a phase.
type Boundary struct {
	Start int
	End   int
}

// Boundaries maps every phase to its day range for one cycle length.
type Boundaries map[Phase]Boundary

// PhaseInfo describes the classification of a single cycle day.
type PhaseInfo struct {
	Phase       Phase
	DayNumber   int
	PhaseStart  int
	PhaseEnd    int
	CycleLength int
}

// Reference boundaries for the standard 28-day cycle.
var defaultBoundaries = Boundaries{
	PhaseMenstrual:     {1, 5},
	PhasePostmenstrual: {6, 12},
	PhaseOvulatory:     {13, 15},
	PhasePostovulatory: {16, 24},
	PhasePMS:           {25, 28},
}

// phasePriority is the lookup order for DeterminePhase. Scaled boundaries may
// overlap at the edges; the more specific phases win deliberately. Changing
// this order changes classification of days stored in existing histories.
var phasePriority = [...]Phase{
	PhaseOvulatory,
	PhasePMS,
	PhaseMenstrual,
	PhasePostmenstrual,
	PhasePostovulatory,
}

// CalculateCycleDay computes the 1-based cycle day from the start of the last
// period, inclusive of the start date. Returns ErrDayOutOfRange when the start
// date is in the future relative to asOf or when more than MaxCycleDay days
// have elapsed.
func CalculateCycleDay(lastPeriodStart, asOf time.Time) (int, error) {
	if lastPeriodStart.After(asOf) {
		return 0, ErrDayOutOfRange
	}

	dayNumber := int(asOf.Sub(lastPeriodStart).Hours()/24) + 1
	if dayNumber > MaxCycleDay {
		return 0, ErrDayOutOfRange
	}
	return dayNumber, nil
}

// PhaseBoundaries builds the phase table for the given cycle length. For 28
// days it is the fixed reference table; for any other length the reference
// ranges are scaled proportionally, with two overrides: PMS always spans the
// last days up to the cycle end, and the ovulatory phase is centered on the
// midpoint. The result may not tile [1, cycleLength] perfectly; DeterminePhase
// resolves overlaps by priority order and gaps as ErrUnclassifiableDay.
func PhaseBoundaries(cycleLength int) (Boundaries, error) {
	if cycleLength < 1 {
		return nil, ErrInvalidCycleLength
	}

	if cycleLength == DefaultCycleLength {
		boundaries := make(Boundaries, len(defaultBoundaries))
		for phase, b := range defaultBoundaries {
			boundaries[phase] = b
		}
		return boundaries, nil
	}

	scale := float64(cycleLength) / float64(DefaultCycleLength)

	boundaries := make(Boundaries, len(defaultBoundaries))
	for phase, b := range defaultBoundaries {
		newStart := int(float64(b.Start) * scale)
		if newStart < 1 {
			newStart = 1
		}
		newEnd := int(float64(b.End) * scale)
		if newEnd > cycleLength {
			newEnd = cycleLength
		}

		switch phase {
		case PhasePMS:
			// PMS covers the final stretch regardless of scaling.
			newStart = cycleLength - 7
			if newStart < 1 {
				newStart = 1
			}
			newEnd = cycleLength
		case PhaseOvulatory:
			// Ovulation stays a short window around the midpoint.
			mid := cycleLength / 2
			newStart = mid - 1
			if newStart < 1 {
				newStart = 1
			}
			newEnd = mid + 2
			if newEnd > cycleLength {
				newEnd = cycleLength
			}
		}

		boundaries[phase] = Boundary{Start: newStart, End: newEnd}
	}

	return boundaries, nil
}

// DeterminePhase classifies a cycle day. Phases are checked in priority order
// so that overlapping scaled ranges resolve deterministically.
func DeterminePhase(dayNumber, cycleLength int) (Phase, error) {
	if dayNumber < 1 || dayNumber > MaxCycleDay {
		return "", ErrDayOutOfRange
	}

	boundaries, err := PhaseBoundaries(cycleLength)
	if err != nil {
		return "", err
	}

	for _, phase := range phasePriority {
		b := boundaries[phase]
		if b.Start <= dayNumber && dayNumber <= b.End {
			return phase, nil
		}
	}

	return "", ErrUnclassifiableDay
}

// GetPhaseInfo combines DeterminePhase and PhaseBoundaries into a full
// classification of one day.
func GetPhaseInfo(dayNumber, cycleLength int) (*PhaseInfo, error) {
	phase, err := DeterminePhase(dayNumber, cycleLength)
	if err != nil {
		return nil, err
	}

	boundaries, err := PhaseBoundaries(cycleLength)
	if err != nil {
		return nil, err
	}
	b := boundaries[phase]

	return &PhaseInfo{
		Phase:       phase,
		DayNumber:   dayNumber,
		PhaseStart:  b.Start,
		PhaseEnd:    b.End,
		CycleLength: cycleLength,
	}, nil
}

// IsPhaseTransition reports whether the phase changed between two cycle days.
// A nil previousDay means there is nothing to compare against. Days that fail
// to classify count as a distinct "no phase" label: unclassifiable versus a
// concrete phase is a transition, unclassifiable versus unclassifiable is not.
func IsPhaseTransition(currentDay int, previousDay *int, cycleLength int) (bool, error) {
	if previousDay == nil {
		return false, nil
	}

	currentPhase, err := DeterminePhase(currentDay, cycleLength)
	if err != nil && !isNoPhase(err) {
		return false, err
	}
	previousPhase, err := DeterminePhase(*previousDay, cycleLength)
	if err != nil && !isNoPhase(err) {
		return false, err
	}

	return currentPhase != previousPhase, nil
}

// isNoPhase distinguishes expected "cannot classify" outcomes from
// configuration errors.
func isNoPhase(err error) bool {
	return errors.Is(err, ErrDayOutOfRange) || errors.Is(err, ErrUnclassifiableDay)
}

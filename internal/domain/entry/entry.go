package entry

import (
	"time"
)

// Entry is one recorded cycle-day observation.
type Entry struct {
	ID        int64
	UserID    int64
	DayNumber int       // 1..35
	Phase     string    // Stored phase label at classification time
	EntryDate time.Time // When the day was reported
	CreatedAt time.Time
}

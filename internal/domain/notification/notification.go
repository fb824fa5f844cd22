// internal/domain/notification/notification.go
package notification

import (
	"database/sql"
	"time"
)

// Type labels what a sent notification was about.
type Type string

const (
	TypePhaseChange        Type = "phase_change"
	TypePartnerPhaseChange Type = "partner_phase_change"
	TypeWeeklyReminder     Type = "weekly_reminder"
)

// Record is an audit row for a delivered notification. PartnerID is set only
// for partner-directed messages.
type Record struct {
	ID        int64
	UserID    int64
	PartnerID sql.NullInt64
	Type      Type
	SentAt    time.Time
}

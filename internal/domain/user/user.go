package user

import (
	"database/sql"
	"time"
)

// User represents a person tracking their cycle with the bot.
type User struct {
	ID                   int64
	TelegramID           int64
	Username             sql.NullString // Telegram usernames are optional
	CycleLength          int            // Configured cycle length in days, default 28
	LastPeriodDate       sql.NullTime   // Start date of the last period, if reported
	NotificationsEnabled bool
	NotificationTime     sql.NullString // Preferred delivery time, "HH:MM"
	CreatedAt            time.Time
}

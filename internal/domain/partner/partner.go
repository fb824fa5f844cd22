package partner

import (
	"database/sql"
	"time"
)

// Partner is a person designated by a user to receive phase notifications.
type Partner struct {
	ID         int64
	TelegramID int64
	Username   sql.NullString
	UserID     int64 // Owning user (users.id)
	CreatedAt  time.Time
}

// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository defines operations for the notification audit log.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	// ListRecentByUser returns notifications sent to a user (or their
	// partners) since the given time, newest first.
	ListRecentByUser(ctx context.Context, userID int64, since time.Time) ([]*Record, error)
}

package entry

import (
	"context"
)

// Repository defines the operations for persisting and retrieving cycle entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// GetLatestByUser returns the most recent entry by entry date.
	GetLatestByUser(ctx context.Context, userID int64) (*Entry, error)
	// ListByUser returns the full history ordered ascending by entry date,
	// which is the input contract of the cycle segmenter.
	ListByUser(ctx context.Context, userID int64) ([]*Entry, error)
}

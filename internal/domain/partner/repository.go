package partner

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Partner entities.
type Repository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id int64) (*Partner, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Partner, error)
	ListByUser(ctx context.Context, userID int64) ([]*Partner, error)
	Delete(ctx context.Context, id int64, userID int64) error
}

// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cycle_companion_bot/internal/domain/notification"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Record) error {
	query := `INSERT INTO notifications (user_id, partner_id, notification_type, sent_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.PartnerID, n.Type, n.SentAt).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("error creating notification record: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListRecentByUser(ctx context.Context, userID int64, since time.Time) ([]*notification.Record, error) {
	query := `SELECT id, user_id, partner_id, notification_type, sent_at
               FROM notifications
               WHERE user_id = $1 AND sent_at >= $2
               ORDER BY sent_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("error querying recent notifications: %w", err)
	}
	defer rows.Close()

	records := make([]*notification.Record, 0)
	for rows.Next() {
		n := &notification.Record{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.PartnerID, &n.Type, &n.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning notification record: %w", err)
		}
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification records: %w", err)
	}
	return records, nil
}

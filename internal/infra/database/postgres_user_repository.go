package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cycle_companion_bot/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrDuplicateTelegramID = fmt.Errorf("user with this Telegram ID already exists")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (telegram_id, username, cycle_length, last_period_date, notifications_enabled, notification_time)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		u.TelegramID, u.Username, u.CycleLength, u.LastPeriodDate, u.NotificationsEnabled, u.NotificationTime,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "users_telegram_id_key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT id, telegram_id, username, cycle_length, last_period_date, notifications_enabled, notification_time, created_at
               FROM users WHERE id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.CycleLength, &u.LastPeriodDate,
		&u.NotificationsEnabled, &u.NotificationTime, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	query := `SELECT id, telegram_id, username, cycle_length, last_period_date, notifications_enabled, notification_time, created_at
               FROM users WHERE telegram_id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.CycleLength, &u.LastPeriodDate,
		&u.NotificationsEnabled, &u.NotificationTime, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by Telegram ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u *user.User) error {
	query := `UPDATE users
               SET username = $1, cycle_length = $2, last_period_date = $3, notifications_enabled = $4, notification_time = $5
               WHERE id = $6
               RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.CycleLength, u.LastPeriodDate, u.NotificationsEnabled, u.NotificationTime, u.ID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) ListNotifiable(ctx context.Context) ([]*user.User, error) {
	query := `SELECT id, telegram_id, username, cycle_length, last_period_date, notifications_enabled, notification_time, created_at
               FROM users WHERE notifications_enabled = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing notifiable users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(
			&u.ID, &u.TelegramID, &u.Username, &u.CycleLength, &u.LastPeriodDate,
			&u.NotificationsEnabled, &u.NotificationTime, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning notifiable user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifiable users: %w", err)
	}
	return users, nil
}

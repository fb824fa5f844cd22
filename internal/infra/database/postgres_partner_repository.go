package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cycle_companion_bot/internal/domain/partner"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors specific to partner repository
var ErrPartnerNotFound = fmt.Errorf("partner not found")
var ErrDuplicatePartner = fmt.Errorf("partner with this Telegram ID already exists")

type PostgresPartnerRepository struct {
	db *sql.DB
}

func NewPostgresPartnerRepository(db *sql.DB) *PostgresPartnerRepository {
	return &PostgresPartnerRepository{db: db}
}

func (r *PostgresPartnerRepository) Create(ctx context.Context, p *partner.Partner) error {
	query := `INSERT INTO partners (telegram_id, username, user_id)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.TelegramID, p.Username, p.UserID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "partners_telegram_id_key") {
			return ErrDuplicatePartner
		}
		return fmt.Errorf("error creating partner: %w", err)
	}
	return nil
}

func (r *PostgresPartnerRepository) GetByID(ctx context.Context, id int64) (*partner.Partner, error) {
	query := `SELECT id, telegram_id, username, user_id, created_at FROM partners WHERE id = $1`
	p := &partner.Partner{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.TelegramID, &p.Username, &p.UserID, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("error getting partner by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPartnerRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*partner.Partner, error) {
	query := `SELECT id, telegram_id, username, user_id, created_at FROM partners WHERE telegram_id = $1`
	p := &partner.Partner{}
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&p.ID, &p.TelegramID, &p.Username, &p.UserID, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("error getting partner by Telegram ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPartnerRepository) ListByUser(ctx context.Context, userID int64) ([]*partner.Partner, error) {
	query := `SELECT id, telegram_id, username, user_id, created_at
               FROM partners WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing partners for user: %w", err)
	}
	defer rows.Close()

	partners := make([]*partner.Partner, 0)
	for rows.Next() {
		p := &partner.Partner{}
		if err := rows.Scan(&p.ID, &p.TelegramID, &p.Username, &p.UserID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partners: %w", err)
	}
	return partners, nil
}

// Delete removes a partner, but only if it belongs to the given user.
func (r *PostgresPartnerRepository) Delete(ctx context.Context, id int64, userID int64) error {
	query := `DELETE FROM partners WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting partner: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted partner rows: %w", err)
	}
	if affected == 0 {
		return ErrPartnerNotFound
	}
	return nil
}

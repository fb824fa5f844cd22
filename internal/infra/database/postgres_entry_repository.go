package database

import (
	"context"
	"database/sql"
	"fmt"

	"cycle_companion_bot/internal/domain/entry"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrEntryNotFound is returned when a user has no cycle entries yet.
var ErrEntryNotFound = fmt.Errorf("cycle entry not found")

type PostgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	query := `INSERT INTO cycle_entries (user_id, day_number, phase, entry_date)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, e.UserID, e.DayNumber, e.Phase, e.EntryDate).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating cycle entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) GetLatestByUser(ctx context.Context, userID int64) (*entry.Entry, error) {
	query := `SELECT id, user_id, day_number, phase, entry_date, created_at
               FROM cycle_entries WHERE user_id = $1
               ORDER BY entry_date DESC LIMIT 1`
	e := &entry.Entry{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&e.ID, &e.UserID, &e.DayNumber, &e.Phase, &e.EntryDate, &e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("error getting latest cycle entry: %w", err)
	}
	return e, nil
}

func (r *PostgresEntryRepository) ListByUser(ctx context.Context, userID int64) ([]*entry.Entry, error) {
	// Ascending order by entry date: the segmenter's input contract.
	query := `SELECT id, user_id, day_number, phase, entry_date, created_at
               FROM cycle_entries WHERE user_id = $1
               ORDER BY entry_date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing cycle entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*entry.Entry, 0)
	for rows.Next() {
		e := &entry.Entry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.DayNumber, &e.Phase, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning cycle entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle entries: %w", err)
	}
	return entries, nil
}

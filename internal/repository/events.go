package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"idol-guess-bot/internal/model"
)

// EventRepository records points changes for auditability.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository instance.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create inserts a point event.
func (r *EventRepository) Create(ctx context.Context, userID int64, amount int64, reason string) (*model.PointEvent, error) {
	const query = `
		INSERT INTO point_events (user_id, amount, reason, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, user_id, amount, reason, created_at
	`

	var e model.PointEvent
	err := r.pool.QueryRow(ctx, query, userID, amount, reason).Scan(
		&e.ID,
		&e.UserID,
		&e.Amount,
		&e.Reason,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create point event: %w", err)
	}

	return &e, nil
}

// GetByUser returns the most recent events for a user, newest first.
func (r *EventRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*model.PointEvent, error) {
	const query = `
		SELECT id, user_id, amount, reason, created_at
		FROM point_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query point events: %w", err)
	}
	defer rows.Close()

	var events []*model.PointEvent
	for rows.Next() {
		var e model.PointEvent
		err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating point events: %w", err)
	}

	return events, nil
}

// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"idol-guess-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrPlayerNotFound = errors.New("player not found")
)

// PointsRepository handles leaderboard points persistence.
type PointsRepository struct {
	pool *pgxpool.Pool
}

// NewPointsRepository creates a new PointsRepository instance.
func NewPointsRepository(pool *pgxpool.Pool) *PointsRepository {
	return &PointsRepository{pool: pool}
}

// AddPoints adds amount to the player's points, creating the row on first
// contact. The username is refreshed on every award so the leaderboard stays
// current when players rename themselves.
func (r *PointsRepository) AddPoints(ctx context.Context, userID int64, username string, amount int64) (*model.Player, error) {
	const query = `
		INSERT INTO players (user_id, username, points, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET points = players.points + $3,
		    username = CASE WHEN $2 <> '' THEN $2 ELSE players.username END,
		    updated_at = NOW()
		RETURNING user_id, username, points, created_at, updated_at
	`

	var p model.Player
	err := r.pool.QueryRow(ctx, query, userID, username, amount).Scan(
		&p.UserID,
		&p.Username,
		&p.Points,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add points: %w", err)
	}

	return &p, nil
}

// SubtractPoints removes amount from the player's points.
// Returns ErrPlayerNotFound if the player has never scored.
func (r *PointsRepository) SubtractPoints(ctx context.Context, userID int64, amount int64) (*model.Player, error) {
	const query = `
		UPDATE players
		SET points = points - $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, username, points, created_at, updated_at
	`

	var p model.Player
	err := r.pool.QueryRow(ctx, query, userID, amount).Scan(
		&p.UserID,
		&p.Username,
		&p.Points,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to subtract points: %w", err)
	}

	return &p, nil
}

// RemovePlayer deletes the player from the leaderboard.
// Returns ErrPlayerNotFound if there was nothing to remove.
func (r *PointsRepository) RemovePlayer(ctx context.Context, userID int64) error {
	const query = `DELETE FROM players WHERE user_id = $1`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// GetByID retrieves a player by user ID.
// Returns ErrPlayerNotFound if the player does not exist.
func (r *PointsRepository) GetByID(ctx context.Context, userID int64) (*model.Player, error) {
	const query = `
		SELECT user_id, username, points, created_at, updated_at
		FROM players
		WHERE user_id = $1
	`

	var p model.Player
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Username,
		&p.Points,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &p, nil
}

// GetLeaderboard returns players ordered by points descending.
func (r *PointsRepository) GetLeaderboard(ctx context.Context, limit int) ([]*model.Player, error) {
	const query = `
		SELECT user_id, username, points, created_at, updated_at
		FROM players
		ORDER BY points DESC, updated_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var players []*model.Player
	for rows.Next() {
		var p model.Player
		err := rows.Scan(
			&p.UserID,
			&p.Username,
			&p.Points,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return players, nil
}

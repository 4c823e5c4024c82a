// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"idol-guess-bot/internal/model"
	"idol-guess-bot/internal/repository"
)

// PointsService handles leaderboard point operations.
type PointsService struct {
	pointsRepo *repository.PointsRepository
	eventRepo  *repository.EventRepository
}

// NewPointsService creates a new PointsService instance.
func NewPointsService(pointsRepo *repository.PointsRepository, eventRepo *repository.EventRepository) *PointsService {
	return &PointsService{
		pointsRepo: pointsRepo,
		eventRepo:  eventRepo,
	}
}

// AddPoints credits points to a player and records the change.
func (s *PointsService) AddPoints(ctx context.Context, userID int64, username string, amount int64, reason string) (*model.Player, error) {
	player, err := s.pointsRepo.AddPoints(ctx, userID, username, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add points: %w", err)
	}

	if _, err := s.eventRepo.Create(ctx, userID, amount, reason); err != nil {
		// Non-fatal: the points were already credited.
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record point event")
	}

	return player, nil
}

// SubtractPoints debits points from a player and records the change.
func (s *PointsService) SubtractPoints(ctx context.Context, userID int64, amount int64, reason string) (*model.Player, error) {
	player, err := s.pointsRepo.SubtractPoints(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	if _, err := s.eventRepo.Create(ctx, userID, -amount, reason); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record point event")
	}

	return player, nil
}

// RemovePlayer deletes a player from the leaderboard.
func (s *PointsService) RemovePlayer(ctx context.Context, userID int64) error {
	return s.pointsRepo.RemovePlayer(ctx, userID)
}

// GetLeaderboard returns the top players by points.
func (s *PointsService) GetLeaderboard(ctx context.Context, limit int) ([]*model.Player, error) {
	return s.pointsRepo.GetLeaderboard(ctx, limit)
}

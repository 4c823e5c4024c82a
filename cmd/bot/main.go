// Package main is the entry point for the idol guessing bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"idol-guess-bot/internal/ai"
	"idol-guess-bot/internal/bot"
	"idol-guess-bot/internal/config"
	"idol-guess-bot/internal/currency"
	"idol-guess-bot/internal/game/guess"
	"idol-guess-bot/internal/hint"
	"idol-guess-bot/internal/pkg/db"
	"idol-guess-bot/internal/pkg/lock"
	"idol-guess-bot/internal/repository"
	"idol-guess-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories and services
	pointsRepo := repository.NewPointsRepository(dbPool.Pool)
	eventRepo := repository.NewEventRepository(dbPool.Pool)
	pointsService := service.NewPointsService(pointsRepo, eventRepo)

	// External integrations
	currencyClient := currency.NewClient(currency.Config{
		BaseURL: cfg.Currency.BaseURL,
		Token:   cfg.Currency.Token,
		GuildID: cfg.Currency.GuildID,
	})
	if !currencyClient.Configured() {
		log.Info().Msg("Currency integration disabled (no API token configured)")
	}

	completer := ai.NewClient(ai.Config{
		BaseURL: cfg.Hint.BaseURL,
		APIKey:  cfg.Hint.APIKey,
		Model:   cfg.Hint.Model,
	})
	coordinator := hint.New(completer, cfg.HintCooldown())

	// Game state
	sessionStore := guess.NewStore()
	chatLock := lock.NewChatLock()

	guessService := service.NewGuessService(
		sessionStore,
		pointsService,
		currencyClient,
		coordinator,
		chatLock,
		cfg.Game.Reward,
	)

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:        cfg,
		SessionStore:  sessionStore,
		PointsService: pointsService,
		GuessService:  guessService,
	}

	// Initialize bot
	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create players table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS players (
			user_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			points BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_players_points ON players(points DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: players table created")

	// Migration 2: Create point_events table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS point_events (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			reason VARCHAR(50) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_point_events_user_time ON point_events(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: point_events table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}

// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"idol-guess-bot/internal/config"
	"idol-guess-bot/internal/game/guess"
	"idol-guess-bot/internal/handler"
	"idol-guess-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot   *tele.Bot
	cfg   *config.Config
	store *guess.Store

	gameHandler        *handler.GameHandler
	guessHandler       *handler.GuessHandler
	leaderboardHandler *handler.LeaderboardHandler
	adminHandler       *handler.AdminHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config        *config.Config
	SessionStore  *guess.Store
	PointsService *service.PointsService
	GuessService  *service.GuessService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:   teleBot,
		cfg:   deps.Config,
		store: deps.SessionStore,
	}

	// Initialize handlers
	b.gameHandler = handler.NewGameHandler(deps.SessionStore)
	b.guessHandler = handler.NewGuessHandler(deps.Config.Game.GuessPrefix, deps.GuessService)
	b.leaderboardHandler = handler.NewLeaderboardHandler(deps.PointsService)
	b.adminHandler = handler.NewAdminHandler(deps.PointsService, &chatResolver{bot: teleBot})

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(RecoveryMiddleware())
}

// registerHandlers registers all command and message handlers.
func (b *Bot) registerHandlers() {
	// Round lifecycle
	b.bot.Handle("/idol_start", b.gameHandler.HandleStart)
	b.bot.Handle("/idol_end", b.gameHandler.HandleEnd)

	// Leaderboard
	b.bot.Handle("/idol_top", b.leaderboardHandler.HandleLeaderboard)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_addpoints", b.adminHandler.HandleAddPoints)
	adminGroup.Handle("/admin_subpoints", b.adminHandler.HandleSubtractPoints)
	adminGroup.Handle("/admin_removeplayer", b.adminHandler.HandleRemovePlayer)

	// Guess intake: every plain text message is screened for the guess prefix
	b.bot.Handle(tele.OnText, b.guessHandler.HandleText)
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}

// chatResolver resolves user display names through the Telegram API.
type chatResolver struct {
	bot *tele.Bot
}

// Resolve looks up a user's display name by ID.
func (r *chatResolver) Resolve(userID int64) (string, error) {
	chat, err := r.bot.ChatByID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	if chat.Username != "" {
		return chat.Username, nil
	}
	return chat.FirstName, nil
}

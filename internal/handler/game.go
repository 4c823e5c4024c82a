// Package handler provides Telegram bot command handlers.
package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"idol-guess-bot/internal/game/guess"
)

// GameHandler handles round lifecycle commands.
type GameHandler struct {
	store *guess.Store
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(store *guess.Store) *GameHandler {
	return &GameHandler{store: store}
}

// HandleStart handles the /idol_start command.
// Format: /idol_start <name> <limit> [group] [image]
func (h *GameHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 2 {
		return c.Reply("❌ Usage: /idol_start <name> <limit> [group] [image]\nExample: /idol_start aria 3 brightstars")
	}

	name := args[0]
	limit, err := strconv.Atoi(args[1])
	if err != nil || limit < 0 {
		return c.Reply("❌ The wrong-guess limit must be a non-negative integer")
	}

	var group, image string
	if len(args) > 2 {
		group = args[2]
	}
	if len(args) > 3 {
		image = args[3]
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	session := &guess.Session{
		Target:      name,
		Limit:       limit,
		GroupName:   group,
		ImageURL:    image,
		StarterID:   sender.ID,
		StarterName: username,
	}

	if err := h.store.Create(chat.ID, session); err != nil {
		if errors.Is(err, guess.ErrSessionExists) {
			return c.Reply("⚠️ A game is already active!")
		}
		return c.Reply("❌ Failed to start the game, please try again")
	}

	log.Info().
		Int64("chat_id", chat.ID).
		Int64("starter_id", sender.ID).
		Int("limit", limit).
		Bool("has_group", group != "").
		Msg("Guessing round started")

	announcement := fmt.Sprintf(
		"%s started a 🎮 Guess-the-Idol 🎮 game!\nType !idolname to guess. You have %d tries.",
		username, limit,
	)
	if group != "" {
		announcement += "\nA group name has been provided!"
	}
	return c.Send(announcement)
}

// HandleEnd handles the /idol_end command.
func (h *GameHandler) HandleEnd(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	session, err := h.store.Deactivate(chat.ID)
	if err != nil {
		return c.Reply("No game to end.")
	}

	log.Info().Int64("chat_id", chat.ID).Msg("Guessing round ended by command")

	if err := c.Send("🛑 Game ended."); err != nil {
		return err
	}
	if session.ImageURL != "" {
		return c.Send("Here is the idol image!\n" + session.ImageURL)
	}
	return c.Send("No image was provided for this round.")
}

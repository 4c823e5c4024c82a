package handler

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"

	"idol-guess-bot/internal/game/guess"
	"idol-guess-bot/internal/service"
)

// GuessHandler routes plain chat messages carrying the guess prefix into the
// guess-intake pipeline.
type GuessHandler struct {
	prefix       string
	guessService *service.GuessService
}

// NewGuessHandler creates a new GuessHandler.
func NewGuessHandler(prefix string, guessService *service.GuessService) *GuessHandler {
	if prefix == "" {
		prefix = "!"
	}
	return &GuessHandler{
		prefix:       prefix,
		guessService: guessService,
	}
}

// HandleText handles every text message and picks out guesses.
func (h *GuessHandler) HandleText(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil || sender.IsBot {
		return nil
	}

	text := c.Text()
	if !strings.HasPrefix(text, h.prefix) {
		return nil
	}
	g := guess.Normalize(strings.TrimPrefix(text, h.prefix))
	if g == "" {
		return nil
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	return h.guessService.ProcessGuess(context.Background(), service.GuessMessage{
		ChatID:   chat.ID,
		UserID:   sender.ID,
		Username: username,
		Text:     g,
	}, &teleResponder{c: c, bot: c.Bot(), chatID: chat.ID})
}

// teleResponder adapts a telebot context to the pipeline's Responder.
// Send captures the bot and chat ID so the hint coordinator can deliver
// replies after the originating handler has returned.
type teleResponder struct {
	c      tele.Context
	bot    *tele.Bot
	chatID int64
}

// React replies to the guess message with a reaction emoji.
func (r *teleResponder) React(emoji string) error {
	return r.c.Reply(emoji)
}

// Send posts a message to the chat.
func (r *teleResponder) Send(text string) error {
	_, err := r.bot.Send(tele.ChatID(r.chatID), text)
	return err
}

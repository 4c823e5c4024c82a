package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"idol-guess-bot/internal/game/guess"
	"idol-guess-bot/internal/hint"
	"idol-guess-bot/internal/model"
	"idol-guess-bot/internal/pkg/lock"
)

// Reaction emojis mirrored from the chat surface.
const (
	ReactWrong      = "❌"
	ReactPartial    = "✅"
	ReactEliminated = "☠️"
)

// numberEmoji maps remaining attempt counts 0-10 to their emoji.
var numberEmoji = []string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// Points awarded on a win, independent of the currency integration.
const (
	WinnerPoints  = 3
	StarterPoints = 1
)

// Responder delivers reactions and messages back to the chat. Implemented by
// the Telegram handler in production and by fakes in tests.
type Responder interface {
	React(emoji string) error
	Send(text string) error
}

// Awarder is the external currency API surface.
type Awarder interface {
	Configured() bool
	Award(ctx context.Context, userID int64, amount int64) error
}

// PointsAwarder is the leaderboard surface the pipeline needs.
type PointsAwarder interface {
	AddPoints(ctx context.Context, userID int64, username string, amount int64, reason string) (*model.Player, error)
}

// HintDispatcher is the cooldown coordinator surface.
type HintDispatcher interface {
	HandleWrongGuess(chatID int64, g hint.WrongGuess, send hint.SendFunc)
}

// GuessMessage is one incoming guess, prefix already stripped.
type GuessMessage struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

// GuessService is the guess-intake pipeline: it ties the session store,
// classification, rewards, and the hint cooldown coordinator together.
type GuessService struct {
	store    *guess.Store
	points   PointsAwarder
	currency Awarder
	hints    HintDispatcher
	chatLock *lock.ChatLock
	reward   int64
}

// NewGuessService creates a new GuessService instance.
func NewGuessService(
	store *guess.Store,
	points PointsAwarder,
	currency Awarder,
	hints HintDispatcher,
	chatLock *lock.ChatLock,
	reward int64,
) *GuessService {
	return &GuessService{
		store:    store,
		points:   points,
		currency: currency,
		hints:    hints,
		chatLock: chatLock,
		reward:   reward,
	}
}

// StarterCut is the coordinator's share of the win reward.
func StarterCut(reward int64) int64 {
	return int64(math.Ceil(float64(reward) * 0.60))
}

// ProcessGuess handles one guess message for a chat.
//
// The per-chat lock serializes everything up to and including the cooldown
// coordinator's state transition, so two near-simultaneous wrong guesses from
// the same player can never read the same pre-increment count and a winning
// guess removes the session before the next guess in the chat is evaluated.
// Reactions and reward calls happen after the lock is released.
func (s *GuessService) ProcessGuess(ctx context.Context, msg GuessMessage, out Responder) error {
	s.chatLock.Lock(msg.ChatID)

	session := s.store.Get(msg.ChatID)
	if session == nil {
		s.chatLock.Unlock(msg.ChatID)
		return nil
	}

	if s.store.LimitReached(msg.ChatID, msg.UserID) {
		s.chatLock.Unlock(msg.ChatID)
		return out.React(ReactEliminated)
	}

	switch guess.Classify(session, msg.Text) {
	case guess.Correct:
		ended, err := s.store.Deactivate(msg.ChatID)
		s.chatLock.Unlock(msg.ChatID)
		if err != nil {
			// Another guess won in the meantime; this one is a no-op.
			return nil
		}
		return s.handleWin(ctx, msg, ended, out)

	case guess.Partial:
		s.chatLock.Unlock(msg.ChatID)
		return out.React(ReactPartial)

	default:
		count, ok := s.store.RecordWrongGuess(msg.ChatID, msg.UserID)
		if !ok {
			s.chatLock.Unlock(msg.ChatID)
			return nil
		}
		remaining := session.Limit - count

		s.hints.HandleWrongGuess(msg.ChatID, hint.WrongGuess{
			Guess:       msg.Text,
			GuesserName: msg.Username,
			Remaining:   remaining,
			Target:      session.Target,
			GroupName:   session.GroupName,
		}, out.Send)
		s.chatLock.Unlock(msg.ChatID)

		return s.reactWrong(remaining, out)
	}
}

// reactWrong emits the wrong-guess reaction, the remaining-attempts emoji
// when it fits the 0-10 range, and the elimination marker at zero remaining.
func (s *GuessService) reactWrong(remaining int, out Responder) error {
	if err := out.React(ReactWrong); err != nil {
		return err
	}
	if remaining >= 0 && remaining <= 10 {
		if err := out.React(numberEmoji[remaining]); err != nil {
			return err
		}
	}
	if remaining <= 0 {
		return out.React(ReactEliminated)
	}
	return nil
}

// handleWin reveals the answer, awards currency when the integration is
// configured, and credits leaderboard points. Reward failures are logged and
// never roll back the already-removed session.
func (s *GuessService) handleWin(ctx context.Context, msg GuessMessage, session *guess.Session, out Responder) error {
	starterCut := StarterCut(s.reward)

	reveal := fmt.Sprintf("🎉 %s guessed right! It was *%s*.", msg.Username, session.Target)

	if s.currency.Configured() {
		if err := s.currency.Award(ctx, msg.UserID, s.reward); err != nil {
			log.Error().Err(err).Int64("user_id", msg.UserID).Msg("Failed to award win currency")
		}
		if err := s.currency.Award(ctx, session.StarterID, starterCut); err != nil {
			log.Error().Err(err).Int64("user_id", session.StarterID).Msg("Failed to award starter currency")
		}
		reveal += fmt.Sprintf(" +%d coins awarded!\nA percentage of the prize was also given to the coordinator. +%d", s.reward, starterCut)
	}

	if _, err := s.points.AddPoints(ctx, msg.UserID, msg.Username, WinnerPoints, model.ReasonWin); err != nil {
		log.Error().Err(err).Int64("user_id", msg.UserID).Msg("Failed to add winner points")
	}
	if _, err := s.points.AddPoints(ctx, session.StarterID, session.StarterName, StarterPoints, model.ReasonStarter); err != nil {
		log.Error().Err(err).Int64("user_id", session.StarterID).Msg("Failed to add starter points")
	}

	if session.ImageURL != "" {
		reveal += fmt.Sprintf("\nImage reveal:\n%s", session.ImageURL)
	}

	return out.Send(reveal)
}

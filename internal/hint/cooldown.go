// Package hint turns wrong guesses into AI-generated taunt/hint replies,
// throttled so a burst of wrong guesses in one chat produces a single
// immediate reply plus at most one batched follow-up per cooldown window.
package hint

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultWindow is the cooldown duration between immediate hint requests.
const DefaultWindow = 10 * time.Second

// completionTimeout bounds a single hint-generation call.
const completionTimeout = 30 * time.Second

// Completer generates a reply for a prompt. Failures are reported as errors,
// never panics; a failed completion only costs the chat its hint message.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SendFunc delivers a generated reply to the chat.
type SendFunc func(text string) error

// Schedule registers fn to run once after d. Production uses time.AfterFunc;
// tests substitute a deterministic scheduler.
type Schedule func(d time.Duration, fn func())

// WrongGuess carries the context the prompt builder needs.
type WrongGuess struct {
	Guess       string
	GuesserName string
	Remaining   int // limit - wrongCount for the guessing player
	Target      string
	GroupName   string // "" if the session has no group name
}

// chatState is the per-chat debounce state. pending is non-empty only while
// onCooldown is true; it is drained exactly once when the window elapses.
type chatState struct {
	onCooldown bool
	pending    []string
}

// Coordinator debounces hint requests per chat. A wrong guess while idle
// fires an individual request and starts the window; wrong guesses during
// the window are queued and flushed as one batched request when it elapses.
type Coordinator struct {
	completer Completer
	window    time.Duration
	schedule  Schedule

	mu    sync.Mutex
	chats map[int64]*chatState
}

// New creates a Coordinator using a real timer for the cooldown window.
func New(completer Completer, window time.Duration) *Coordinator {
	return NewWithSchedule(completer, window, func(d time.Duration, fn func()) {
		time.AfterFunc(d, fn)
	})
}

// NewWithSchedule creates a Coordinator with a custom scheduler.
func NewWithSchedule(completer Completer, window time.Duration, schedule Schedule) *Coordinator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Coordinator{
		completer: completer,
		window:    window,
		schedule:  schedule,
		chats:     make(map[int64]*chatState),
	}
}

// state returns the chat's state, creating it lazily. Caller must hold c.mu.
func (c *Coordinator) state(chatID int64) *chatState {
	st, ok := c.chats[chatID]
	if !ok {
		st = &chatState{}
		c.chats[chatID] = st
	}
	return st
}

// HandleWrongGuess runs the per-chat state machine for one wrong guess.
// The state transition (idle -> cooling, or queueing) completes before this
// function returns; only the completion call itself runs asynchronously, so
// two near-simultaneous guesses for the same chat cannot both trigger an
// immediate request.
func (c *Coordinator) HandleWrongGuess(chatID int64, g WrongGuess, send SendFunc) {
	c.mu.Lock()
	st := c.state(chatID)
	if st.onCooldown {
		st.pending = append(st.pending, g.Guess)
		c.mu.Unlock()
		return
	}
	st.onCooldown = true
	c.mu.Unlock()

	c.schedule(c.window, func() {
		c.flush(chatID, g, send)
	})

	go c.deliver(chatID, IndividualPrompt(g), send)
}

// flush runs when the cooldown window elapses. It always returns the chat to
// idle, then issues one batched request iff guesses were queued. Guesses
// queued during the flush's own completion call do not re-trigger; only a
// genuinely new wrong guess starts the next cycle.
func (c *Coordinator) flush(chatID int64, g WrongGuess, send SendFunc) {
	c.mu.Lock()
	st := c.state(chatID)
	st.onCooldown = false
	pending := st.pending
	st.pending = nil
	c.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	c.deliver(chatID, BatchedPrompt(g, pending), send)
}

// deliver performs one completion call and sends the reply. Errors are
// logged; they never propagate into the guess-intake path.
func (c *Coordinator) deliver(chatID int64, prompt string, send SendFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	reply, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Hint generation failed")
		return
	}
	if err := send(reply); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send hint reply")
	}
}

// Pending returns a copy of the queued guesses for a chat. Test helper.
func (c *Coordinator) Pending(chatID int64) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.chats[chatID]
	if !ok {
		return nil
	}
	out := make([]string, len(st.pending))
	copy(out, st.pending)
	return out
}

// OnCooldown reports whether the chat is inside a cooldown window.
func (c *Coordinator) OnCooldown(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.chats[chatID]
	return ok && st.onCooldown
}

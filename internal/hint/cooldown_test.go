package hint

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler captures scheduled callbacks so tests can fire the cooldown
// timer deterministically.
type fakeScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

// FireAll runs every scheduled callback once, in order.
func (s *fakeScheduler) FireAll() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *fakeScheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// fakeCompleter records prompts and optionally fails every call.
type fakeCompleter struct {
	mu       sync.Mutex
	prompts  []string
	err      error
	failures int
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		f.failures++
		return "", f.err
	}
	f.prompts = append(f.prompts, prompt)
	return "reply to: " + prompt, nil
}

func (f *fakeCompleter) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCompleter) Failures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures
}

func (f *fakeCompleter) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// recorder collects sent replies.
type recorder struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (r *recorder) Send(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("send failed")
	}
	r.sent = append(r.sent, text)
	return nil
}

func (r *recorder) Sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	copy(out, r.sent)
	return out
}

func newTestCoordinator(completer Completer) (*Coordinator, *fakeScheduler) {
	sched := &fakeScheduler{}
	return NewWithSchedule(completer, 10*time.Second, sched.Schedule), sched
}

func wrongGuess(guess string) WrongGuess {
	return WrongGuess{
		Guess:       guess,
		GuesserName: "mina",
		Remaining:   5,
		Target:      "aria",
		GroupName:   "brightstars",
	}
}

func TestCoordinator_SingleGuess(t *testing.T) {
	completer := &fakeCompleter{}
	coord, sched := newTestCoordinator(completer)
	out := &recorder{}

	coord.HandleWrongGuess(1, wrongGuess("bria"), out.Send)

	assert.True(t, coord.OnCooldown(1))
	assert.Equal(t, 1, sched.Count())

	// The individual request fires asynchronously
	require.Eventually(t, func() bool {
		return len(completer.Prompts()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, completer.Prompts()[0], `"bria"`)
	assert.Contains(t, completer.Prompts()[0], "mina")

	// Timer fires with nothing queued: no batched request
	sched.FireAll()
	assert.Len(t, completer.Prompts(), 1)
	assert.False(t, coord.OnCooldown(1))
	assert.Empty(t, coord.Pending(1))

	require.Eventually(t, func() bool {
		return len(out.Sent()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCoordinator_BurstProducesTwoRequests(t *testing.T) {
	completer := &fakeCompleter{}
	coord, sched := newTestCoordinator(completer)
	out := &recorder{}

	guesses := []string{"bria", "tria", "dria", "bria", "kria"}
	for _, g := range guesses {
		coord.HandleWrongGuess(1, wrongGuess(g), out.Send)
	}

	// Only the first guess triggered an immediate request; the rest queued
	assert.Equal(t, []string{"tria", "dria", "bria", "kria"}, coord.Pending(1))
	assert.Equal(t, 1, sched.Count())

	sched.FireAll()

	require.Eventually(t, func() bool {
		return len(completer.Prompts()) == 2
	}, time.Second, 10*time.Millisecond)

	var batched string
	for _, p := range completer.Prompts() {
		if strings.Contains(p, "Multiple people") {
			batched = p
		}
	}
	require.NotEmpty(t, batched, "expected a batched prompt")
	for _, g := range []string{"tria", "dria", "kria"} {
		assert.Contains(t, batched, g)
	}
	// Duplicates collapse to one mention
	assert.Equal(t, 1, strings.Count(batched, "bria"))

	assert.False(t, coord.OnCooldown(1))
	assert.Empty(t, coord.Pending(1))

	require.Eventually(t, func() bool {
		return len(out.Sent()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestCoordinator_FlushFailureStillResets(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("api down")}
	coord, sched := newTestCoordinator(completer)
	out := &recorder{}

	coord.HandleWrongGuess(1, wrongGuess("bria"), out.Send)
	coord.HandleWrongGuess(1, wrongGuess("tria"), out.Send)

	sched.FireAll()

	// Both requests failed, nothing was sent, but the state machine is idle
	require.Eventually(t, func() bool {
		return completer.Failures() == 2
	}, time.Second, 10*time.Millisecond)
	assert.False(t, coord.OnCooldown(1))
	assert.Empty(t, coord.Pending(1))
	assert.Empty(t, out.Sent())

	// A new wrong guess starts a fresh cycle
	completer.SetErr(nil)
	coord.HandleWrongGuess(1, wrongGuess("nria"), out.Send)
	assert.True(t, coord.OnCooldown(1))
	require.Eventually(t, func() bool {
		return len(completer.Prompts()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCoordinator_SendFailureDoesNotPanic(t *testing.T) {
	completer := &fakeCompleter{}
	coord, sched := newTestCoordinator(completer)
	out := &recorder{fail: true}

	coord.HandleWrongGuess(1, wrongGuess("bria"), out.Send)
	sched.FireAll()

	assert.False(t, coord.OnCooldown(1))
}

func TestCoordinator_ChatsAreIndependent(t *testing.T) {
	completer := &fakeCompleter{}
	coord, sched := newTestCoordinator(completer)
	out := &recorder{}

	coord.HandleWrongGuess(1, wrongGuess("bria"), out.Send)
	coord.HandleWrongGuess(2, wrongGuess("tria"), out.Send)

	// Each chat got its own immediate request and its own timer
	assert.True(t, coord.OnCooldown(1))
	assert.True(t, coord.OnCooldown(2))
	assert.Equal(t, 2, sched.Count())

	require.Eventually(t, func() bool {
		return len(completer.Prompts()) == 2
	}, time.Second, 10*time.Millisecond)
}

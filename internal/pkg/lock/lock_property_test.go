// Property-based tests for per-chat lock safety.
package lock

import (
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentGuessCountSafetyProperty verifies that concurrent
// read-modify-write updates to a chat's guess counter, serialized by the
// chat lock, match sequential execution.
func TestConcurrentGuessCountSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 30).Draw(t, "numOps")
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")

		cl := NewChatLock()
		count := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				cl.Lock(chatID)
				defer cl.Unlock(chatID)
				current := count
				count = current + 1
			}()
		}
		wg.Wait()

		if count != numOps {
			t.Fatalf("Count mismatch with locking: expected %d, got %d", numOps, count)
		}
	})
}

// TestWithLockSerializesProperty verifies WithLock serializes the callback.
func TestWithLockSerializesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(5, 30).Draw(t, "numOps")
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")

		cl := NewChatLock()
		count := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = cl.WithLock(chatID, func() error {
					count++
					return nil
				})
			}()
		}
		wg.Wait()

		if count != numOps {
			t.Fatalf("Count mismatch with WithLock: expected %d, got %d", numOps, count)
		}
	})
}

// TestChatsAreIndependentProperty verifies that locks for different chats do
// not interfere with each other's counters.
func TestChatsAreIndependentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numChats := rapid.IntRange(2, 10).Draw(t, "numChats")
		opsPerChat := rapid.IntRange(5, 20).Draw(t, "opsPerChat")

		cl := NewChatLock()
		counts := make([]int, numChats)

		var wg sync.WaitGroup
		wg.Add(numChats * opsPerChat)
		for c := 0; c < numChats; c++ {
			for j := 0; j < opsPerChat; j++ {
				go func(idx int) {
					defer wg.Done()
					chatID := int64(idx + 1)
					cl.Lock(chatID)
					defer cl.Unlock(chatID)
					counts[idx]++
				}(c)
			}
		}
		wg.Wait()

		for c := 0; c < numChats; c++ {
			if counts[c] != opsPerChat {
				t.Fatalf("Chat %d count mismatch: expected %d, got %d", c+1, opsPerChat, counts[c])
			}
		}
	})
}

// TestTryLockProperty verifies TryLock contention and release behavior.
func TestTryLockProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		cl := NewChatLock()

		var successCount atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)
		startCh := make(chan struct{})

		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-startCh
				if cl.TryLock(chatID) {
					successCount.Add(1)
					cl.Unlock(chatID)
				}
			}()
		}

		close(startCh)
		wg.Wait()

		if successCount.Load() < 1 {
			t.Fatalf("At least one TryLock should succeed, got %d successes", successCount.Load())
		}

		if !cl.TryLock(chatID) {
			t.Fatal("Lock should be available after all attempts complete")
		}
		cl.Unlock(chatID)
	})
}

// TestLockUnlockSymmetryProperty verifies repeated lock/unlock cycles leave
// the lock available.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		cl := NewChatLock()
		for i := 0; i < numCycles; i++ {
			cl.Lock(chatID)
			cl.Unlock(chatID)
		}

		if !cl.TryLock(chatID) {
			t.Fatal("Lock should be available after symmetric lock/unlock cycles")
		}
		cl.Unlock(chatID)
	})
}

package suggestions

import (
	"sync"
	"time"
)

// RateLimiter enforces a per-user cooldown between submissions.
type RateLimiter struct {
	users map[string]time.Time
	mu    sync.Mutex
	limit time.Duration
}

// NewRateLimiter returns a limiter; a zero limit never blocks.
func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		users: make(map[string]time.Time),
		limit: limit,
	}
}

// Allow records a use at now when the user is outside the cooldown.
func (rl *RateLimiter) Allow(userID string, now time.Time) bool {
	if rl == nil || rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lastUse, exists := rl.users[userID]
	if !exists || now.Sub(lastUse) >= rl.limit {
		rl.users[userID] = now
		return true
	}
	return false
}

// Release forgets the last use so a failed submission does not count.
func (rl *RateLimiter) Release(userID string) {
	if rl == nil || rl.limit <= 0 {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.users, userID)
}

// Remaining returns how long userID must still wait.
func (rl *RateLimiter) Remaining(userID string, now time.Time) time.Duration {
	if rl == nil || rl.limit <= 0 {
		return 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lastUse, exists := rl.users[userID]
	if !exists {
		return 0
	}
	elapsed := now.Sub(lastUse)
	if elapsed >= rl.limit {
		return 0
	}
	return rl.limit - elapsed
}

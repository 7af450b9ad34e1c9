package utils

import (
	"sync"
	"time"
)

// RateLimiter controls the rate of command execution with a fixed window
// per user and command.
type RateLimiter struct {
	limits map[string]*userLimit
	mu     sync.Mutex

	limit  int
	window time.Duration
	now    func() time.Time
}

// userLimit tracks rate limiting for a specific user
type userLimit struct {
	lastAccess time.Time
	count      int
}

// NewRateLimiter allows limit commands per window for each user and command.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*userLimit),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow checks if a user is allowed to execute a command
// Returns true if allowed, false if rate limited
func (rl *RateLimiter) Allow(userID, command string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := userID + ":" + command
	now := rl.now()

	limit, exists := rl.limits[key]
	if !exists || now.Sub(limit.lastAccess) >= rl.window {
		rl.limits[key] = &userLimit{lastAccess: now, count: 1}
		return true
	}

	if limit.count >= rl.limit {
		return false
	}

	limit.count++
	return true
}

// RetryAfter returns how long the user has to wait before trying again
func (rl *RateLimiter) RetryAfter(userID, command string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := rl.limits[userID+":"+command]
	if !exists {
		return 0
	}

	elapsed := rl.now().Sub(limit.lastAccess)
	if elapsed >= rl.window {
		return 0
	}
	return rl.window - elapsed
}

// Prune drops windows that have run out.
func (rl *RateLimiter) Prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, limit := range rl.limits {
		if now.Sub(limit.lastAccess) >= rl.window {
			delete(rl.limits, key)
		}
	}
}

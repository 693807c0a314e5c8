package service

import (
	"sync"
	"time"
)

// RateLimiter bounds how often a single user may call the AI generation
// endpoints. Counting is per process; the window slides continuously.
type RateLimiter interface {
	// Allow records a request for userID and reports whether it is within
	// the limit. A disallowed request is not recorded.
	Allow(userID string) bool
	// Remaining returns how many requests userID may still make in the
	// current window.
	Remaining(userID string) int
	// ResetAfter returns how long until the oldest recorded request falls
	// out of the window, i.e. when capacity frees up. Zero when the window
	// is empty.
	ResetAfter(userID string) time.Duration
}

type slidingWindowLimiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu         sync.Mutex
	timestamps map[string][]time.Time
}

// NewRateLimiter returns a sliding-window limiter allowing maxRequests per
// window per user.
func NewRateLimiter(maxRequests int, window time.Duration) RateLimiter {
	return &slidingWindowLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		timestamps:  make(map[string][]time.Time),
	}
}

func (l *slidingWindowLimiter) Allow(userID string) bool {
	if userID == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stamps := l.prune(userID, now)
	if len(stamps) >= l.maxRequests {
		return false
	}
	l.timestamps[userID] = append(stamps, now)
	return true
}

func (l *slidingWindowLimiter) Remaining(userID string) int {
	if userID == "" {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.maxRequests - len(l.prune(userID, l.now()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *slidingWindowLimiter) ResetAfter(userID string) time.Duration {
	if userID == "" {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stamps := l.prune(userID, now)
	if len(stamps) == 0 {
		return 0
	}
	reset := stamps[0].Add(l.window).Sub(now)
	if reset < 0 {
		return 0
	}
	return reset
}

// prune drops timestamps older than the window and stores the survivors.
// Caller must hold l.mu.
func (l *slidingWindowLimiter) prune(userID string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	stamps := l.timestamps[userID]

	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		stamps = stamps[i:]
		if len(stamps) == 0 {
			delete(l.timestamps, userID)
		} else {
			l.timestamps[userID] = stamps
		}
	}
	return stamps
}

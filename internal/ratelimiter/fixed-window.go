package ratelimiter

import (
	"sync"
	"time"
)

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(client string) (bool, time.Duration)
}

type clientWindow struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter allows limit requests per client in each window.
// A client's window starts with its first request.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
	swept   time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// WithClock swaps the time source, for tests.
func (rl *FixedWindowRateLimiter) WithClock(now func() time.Time) *FixedWindowRateLimiter {
	rl.now = now
	return rl
}

// Allow counts a request from client. When the limit is reached it returns
// false and how long until the client's window resets.
func (rl *FixedWindowRateLimiter) Allow(client string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.clients[client]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[client] = &clientWindow{start: now, count: 1}
		return true, 0
	}
	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, w.start.Add(rl.window).Sub(now)
}

// sweep drops expired windows at most once per window length, so the map
// does not grow with every client ever seen.
func (rl *FixedWindowRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.swept) < rl.window {
		return
	}
	for client, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, client)
		}
	}
	rl.swept = now
}

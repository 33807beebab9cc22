package web

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const throttleIdle = 10 * time.Minute

type throttleEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// throttle keeps one token bucket per key (client IP).
type throttle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newThrottle(perSecond float64, burst int) *throttle {
	return &throttle{
		entries: make(map[string]*throttleEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow takes one token from key's bucket.
func (t *throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e, ok := t.entries[key]
	if !ok {
		if len(t.entries) >= 1024 {
			t.pruneLocked(now)
		}
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.entries[key] = e
	}
	e.seen = now
	return e.limiter.AllowN(now, 1)
}

func (t *throttle) pruneLocked(now time.Time) {
	for k, e := range t.entries {
		if now.Sub(e.seen) > throttleIdle {
			delete(t.entries, k)
		}
	}
}

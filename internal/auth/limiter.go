package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per email. Emails left idle until
// their bucket has refilled are dropped, since a fresh limiter behaves the
// same.
type LoginLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*loginEntry
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type loginEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows burst immediate attempts per email, refilled at
// perMinute attempts per minute.
func NewLoginLimiter(perMinute float64, burst int) *LoginLimiter {
	limit := rate.Limit(perMinute / 60)
	idle := time.Hour
	if limit > 0 {
		idle = time.Duration(float64(burst) / float64(limit) * float64(time.Second))
	}
	if idle < time.Minute {
		idle = time.Minute
	}
	return &LoginLimiter{
		limiters: make(map[string]*loginEntry),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

// Allow consumes one attempt for email.
func (l *LoginLimiter) Allow(email string) bool {
	l.mu.Lock()
	now := l.now()
	l.sweep(now)
	entry, ok := l.limiters[email]
	if !ok {
		entry = &loginEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[email] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

// Reset forgets the attempts made for email.
func (l *LoginLimiter) Reset(email string) {
	l.mu.Lock()
	delete(l.limiters, email)
	l.mu.Unlock()
}

// sweep drops idle entries, at most once per idle window. Callers hold mu.
func (l *LoginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for email, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idle {
			delete(l.limiters, email)
		}
	}
}

func (l *LoginLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

package ratelimit

import (
	"sync"
	"time"
)

const (
	longestWindow   = time.Hour
	cleanupInterval = 5 * time.Minute
)

type request struct {
	at    time.Time
	class Class
}

// MemoryLimiter is the in-process sliding-window limiter. State lives
// for the process lifetime, bounded by lazy eviction and a periodic full
// sweep. The mutex covers the whole check-and-record sequence; the sweep
// runs under the same lock so it never races admission checks.
type MemoryLimiter struct {
	mu          sync.Mutex
	requests    map[string][]request
	configs     map[Class]ClassConfig
	lastCleanup time.Time

	now func() time.Time // injectable for tests
}

// NewMemoryLimiter builds a limiter with the given per-class budgets.
// Nil configs fall back to the defaults.
func NewMemoryLimiter(configs map[Class]ClassConfig) *MemoryLimiter {
	if configs == nil {
		configs = DefaultClassConfigs()
	}
	return &MemoryLimiter{
		requests:    make(map[string][]request),
		configs:     configs,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow checks the burst, per-minute and per-hour windows in that order;
// the first violated window determines the rejection reason. Admitted
// requests are recorded before the lock is released.
func (l *MemoryLimiter) Allow(clientID, path string) Decision {
	class := ClassForPath(path)
	cfg, ok := l.configs[class]
	if !ok {
		cfg = l.configs[ClassDefault]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeSweep(now)

	// Lazy per-client eviction: drop entries past the longest window.
	cutoff := now.Add(-longestWindow)
	kept := l.requests[clientID][:0]
	for _, r := range l.requests[clientID] {
		if r.at.After(cutoff) {
			kept = append(kept, r)
		}
	}
	l.requests[clientID] = kept

	var burst, minute, hour int
	burstCutoff := now.Add(-time.Duration(cfg.BurstWindow) * time.Second)
	minuteCutoff := now.Add(-time.Minute)
	for _, r := range kept {
		if r.class != class {
			continue
		}
		hour++
		if r.at.After(minuteCutoff) {
			minute++
		}
		if r.at.After(burstCutoff) {
			burst++
		}
	}

	switch {
	case burst >= cfg.BurstLimit:
		return reject(burstReason(cfg.BurstWindow))
	case minute >= cfg.PerMinute:
		return reject(minuteReason)
	case hour >= cfg.PerHour:
		return reject(hourReason)
	}

	l.requests[clientID] = append(l.requests[clientID], request{at: now, class: class})
	return allow()
}

// maybeSweep evicts stale entries across all clients at most once per
// cleanup interval, deleting empty buckets to bound memory. Caller must
// hold the lock.
func (l *MemoryLimiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastCleanup) < cleanupInterval {
		return
	}
	cutoff := now.Add(-longestWindow)
	for clientID, reqs := range l.requests {
		kept := reqs[:0]
		for _, r := range reqs {
			if r.at.After(cutoff) {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(l.requests, clientID)
		} else {
			l.requests[clientID] = kept
		}
	}
	l.lastCleanup = now
}

// clients reports the number of tracked client buckets. Test hook.
func (l *MemoryLimiter) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

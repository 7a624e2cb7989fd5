package ratelimit

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock drives the limiter deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(clock *fakeClock) *MemoryLimiter {
	l := NewMemoryLimiter(nil)
	l.now = clock.now
	l.lastCleanup = clock.now()
	return l
}

func TestClassForPath(t *testing.T) {
	testCases := []struct {
		path string
		want Class
	}{
		{"/scan/url", ClassScan},
		{"/scan/text", ClassScan},
		{"/chat", ClassChat},
		{"/community/reports", ClassCommunity},
		{"/auth/login", ClassAuth},
		{"/health", ClassDefault},
	}
	for _, tc := range testCases {
		if got := ClassForPath(tc.path); got != tc.want {
			t.Errorf("ClassForPath(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestBurstLimit(t *testing.T) {
	// scan class: burst_limit=5 within burst_window=10s. The 6th request
	// inside the window is rejected; after the window elapses a new
	// request is admitted again.
	clock := newFakeClock()
	l := newTestLimiter(clock)
	client := HashClientIP("203.0.113.7")

	for i := 0; i < 5; i++ {
		if d := l.Allow(client, "/scan/url"); !d.Allowed {
			t.Fatalf("request %d should be admitted, got %q", i+1, d.Reason)
		}
		clock.advance(time.Second)
	}

	d := l.Allow(client, "/scan/url")
	if d.Allowed {
		t.Fatal("6th request within burst window should be rejected")
	}
	if !strings.Contains(d.Reason, "Too many requests") {
		t.Errorf("expected burst reason, got %q", d.Reason)
	}
	if d.RetryAfter != 60*time.Second {
		t.Errorf("expected 60s retry-after, got %v", d.RetryAfter)
	}

	// Rejected requests are not recorded; once the burst window has
	// passed the client is admitted again.
	clock.advance(11 * time.Second)
	if d := l.Allow(client, "/scan/url"); !d.Allowed {
		t.Errorf("request after burst window should be admitted, got %q", d.Reason)
	}
}

func TestPerMinuteLimit(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	client := HashClientIP("203.0.113.8")

	// Stay under the burst limit (5/10s) while filling the minute
	// budget (20/min) for the scan class.
	admitted := 0
	for i := 0; i < 20; i++ {
		if d := l.Allow(client, "/scan/url"); d.Allowed {
			admitted++
		}
		clock.advance(2500 * time.Millisecond)
	}
	if admitted != 20 {
		t.Fatalf("expected 20 admitted under the minute budget, got %d", admitted)
	}

	// 20 requests consumed 47.5s of clock; the window still holds all
	// of them, so the 21st violates the per-minute cap.
	d := l.Allow(client, "/scan/url")
	if d.Allowed {
		t.Fatal("21st request within a minute should be rejected")
	}
	if !strings.Contains(d.Reason, "wait a minute") {
		t.Errorf("expected per-minute reason, got %q", d.Reason)
	}
}

func TestPerHourLimit(t *testing.T) {
	clock := newFakeClock()
	cfg := map[Class]ClassConfig{
		ClassScan:    {PerMinute: 100, PerHour: 3, BurstLimit: 100, BurstWindow: 10},
		ClassDefault: {PerMinute: 60, PerHour: 1000, BurstLimit: 20, BurstWindow: 10},
	}
	l := NewMemoryLimiter(cfg)
	l.now = clock.now
	l.lastCleanup = clock.now()
	client := HashClientIP("203.0.113.9")

	for i := 0; i < 3; i++ {
		if d := l.Allow(client, "/scan/url"); !d.Allowed {
			t.Fatalf("request %d should be admitted", i+1)
		}
		clock.advance(time.Minute)
	}

	d := l.Allow(client, "/scan/url")
	if d.Allowed {
		t.Fatal("4th request within the hour should be rejected")
	}
	if !strings.Contains(d.Reason, "Hourly") {
		t.Errorf("expected hourly reason, got %q", d.Reason)
	}

	// Entries age out of the hour window lazily.
	clock.advance(59 * time.Minute)
	if d := l.Allow(client, "/scan/url"); !d.Allowed {
		t.Errorf("request after entries aged out should be admitted, got %q", d.Reason)
	}
}

func TestClassesAreIsolated(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	client := HashClientIP("203.0.113.10")

	// Exhaust the scan burst budget.
	for i := 0; i < 5; i++ {
		l.Allow(client, "/scan/url")
	}
	if d := l.Allow(client, "/scan/url"); d.Allowed {
		t.Fatal("scan class should be exhausted")
	}

	// Chat budget is separate and still open.
	if d := l.Allow(client, "/chat"); !d.Allowed {
		t.Errorf("chat class should be unaffected, got %q", d.Reason)
	}
}

func TestClientsAreIsolated(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	a := HashClientIP("203.0.113.11")
	b := HashClientIP("203.0.113.12")

	for i := 0; i < 5; i++ {
		l.Allow(a, "/scan/url")
	}
	if d := l.Allow(a, "/scan/url"); d.Allowed {
		t.Fatal("client a should be exhausted")
	}
	if d := l.Allow(b, "/scan/url"); !d.Allowed {
		t.Errorf("client b should be unaffected, got %q", d.Reason)
	}
}

func TestSweepRemovesEmptyBuckets(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	l.Allow(HashClientIP("203.0.113.13"), "/scan/url")
	l.Allow(HashClientIP("203.0.113.14"), "/chat")
	if got := l.clients(); got != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", got)
	}

	// Past the longest window plus the sweep interval, a request from a
	// third client triggers the sweep and the stale buckets are dropped.
	clock.advance(longestWindow + cleanupInterval + time.Second)
	l.Allow(HashClientIP("203.0.113.15"), "/scan/url")

	if got := l.clients(); got != 1 {
		t.Errorf("expected stale buckets removed, got %d clients", got)
	}
}

func TestConcurrentAdmissionRespectsCap(t *testing.T) {
	// Check-and-record is atomic under the limiter lock: concurrent
	// requests can never overshoot the burst cap.
	l := NewMemoryLimiter(nil)
	client := HashClientIP("203.0.113.16")

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := l.Allow(client, "/scan/url"); d.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted > 5 {
		t.Errorf("burst cap overshot: %d admitted, limit 5", admitted)
	}
}

func TestHashClientIP(t *testing.T) {
	h := HashClientIP("198.51.100.1")
	if strings.Contains(h, "198.51.100.1") {
		t.Error("hash must not contain the raw IP")
	}
	if h != HashClientIP("198.51.100.1") {
		t.Error("hash must be deterministic")
	}
	if h == HashClientIP("198.51.100.2") {
		t.Error("distinct IPs must hash differently")
	}
}

package ratelimit

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestLimiter(t *testing.T, clock *fakeClock) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rdb.Close() })

	l := NewRedisLimiter(rdb, nil)
	l.now = clock.now
	return l, s
}

func TestRedisBurstLimit(t *testing.T) {
	clock := newFakeClock()
	l, _ := newRedisTestLimiter(t, clock)
	client := HashClientIP("203.0.113.20")

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

	clock.advance(11 * time.Second)
	if d := l.Allow(client, "/scan/url"); !d.Allowed {
		t.Errorf("request after burst window should be admitted, got %q", d.Reason)
	}
}

func TestRedisPerMinuteLimit(t *testing.T) {
	clock := newFakeClock()
	l, _ := newRedisTestLimiter(t, clock)
	client := HashClientIP("203.0.113.21")

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

	d := l.Allow(client, "/scan/url")
	if d.Allowed {
		t.Fatal("21st request within a minute should be rejected")
	}
	if !strings.Contains(d.Reason, "wait a minute") {
		t.Errorf("expected per-minute reason, got %q", d.Reason)
	}
}

func TestRedisClientsAreIsolated(t *testing.T) {
	clock := newFakeClock()
	l, _ := newRedisTestLimiter(t, clock)

	a := HashClientIP("203.0.113.22")
	b := HashClientIP("203.0.113.23")

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

func TestRedisFailsOpen(t *testing.T) {
	// An unreachable counter store must not block scans.
	clock := newFakeClock()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	l := NewRedisLimiter(rdb, nil)
	l.now = clock.now

	s.Close()
	rdb.Close()

	if d := l.Allow(HashClientIP("203.0.113.24"), "/scan/url"); !d.Allowed {
		t.Errorf("expected fail-open admission on redis error, got %q", d.Reason)
	}
}

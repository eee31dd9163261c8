package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

const slidingWindow = time.Minute

// Reason distinguishes which ceiling rejected a request
type Reason string

const (
	ReasonPerMinute Reason = "per_minute"
	ReasonPerDay    Reason = "per_day"
)

// Result is the outcome of an admission check
type Result struct {
	Allowed bool
	Reason  Reason
	Message string
}

// Clock abstracts time.Now so tests can advance time deterministically
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Governor admits or rejects generation requests before any model call.
//
// Counters are process-wide and in-memory: a sliding 60-second window of
// request timestamps plus a per-UTC-day counter. This is NOT consistent
// across multiple process instances - a known limitation, accepted because
// the service targets single-instance free-tier deployments. A shared
// counter store can replace the maps behind this same interface later.
type Governor struct {
	mu         sync.Mutex
	timestamps []time.Time
	daily      map[string]int

	perMinuteLimit int
	perDayLimit    int
	clock          Clock
}

// NewGovernor creates a governor with the given ceilings and the system clock
func NewGovernor(perMinuteLimit, perDayLimit int) *Governor {
	return NewGovernorWithClock(perMinuteLimit, perDayLimit, systemClock{})
}

// NewGovernorWithClock creates a governor with an injectable clock (for tests)
func NewGovernorWithClock(perMinuteLimit, perDayLimit int, clock Clock) *Governor {
	return &Governor{
		daily:          make(map[string]int),
		perMinuteLimit: perMinuteLimit,
		perDayLimit:    perDayLimit,
		clock:          clock,
	}
}

// CheckAndRecord admits or rejects one request. Check and record happen as a
// single unit under the lock so concurrent requests cannot oversubscribe the
// window between the check and the record.
func (g *Governor) CheckAndRecord() Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	cutoff := now.Add(-slidingWindow)

	// Lazily evict timestamps that fell out of the window
	for len(g.timestamps) > 0 && g.timestamps[0].Before(cutoff) {
		g.timestamps = g.timestamps[1:]
	}

	if len(g.timestamps) >= g.perMinuteLimit {
		return Result{
			Allowed: false,
			Reason:  ReasonPerMinute,
			Message: fmt.Sprintf(
				"Rate limit exceeded. Free tier allows %d requests per minute. Please wait a moment.",
				g.perMinuteLimit),
		}
	}

	today := now.UTC().Format("2006-01-02")
	if g.daily[today] >= g.perDayLimit {
		return Result{
			Allowed: false,
			Reason:  ReasonPerDay,
			Message: fmt.Sprintf(
				"Daily limit reached. Free tier allows %d requests per day. Please try again tomorrow.",
				g.perDayLimit),
		}
	}

	g.timestamps = append(g.timestamps, now)
	g.daily[today]++

	return Result{Allowed: true}
}

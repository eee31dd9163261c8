package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time manually
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestGovernorAdmitsUnderLimit(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(3, 100, clock)

	for i := 0; i < 3; i++ {
		result := g.CheckAndRecord()
		require.True(t, result.Allowed, "request %d should be admitted", i+1)
	}
}

func TestGovernorRejectsOverPerMinuteLimit(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(3, 100, clock)

	for i := 0; i < 3; i++ {
		require.True(t, g.CheckAndRecord().Allowed)
	}

	result := g.CheckAndRecord()
	assert.False(t, result.Allowed)
	assert.Equal(t, ReasonPerMinute, result.Reason)
	assert.Contains(t, result.Message, "per minute")
}

func TestGovernorWindowSlides(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(2, 100, clock)

	require.True(t, g.CheckAndRecord().Allowed)
	require.True(t, g.CheckAndRecord().Allowed)
	require.False(t, g.CheckAndRecord().Allowed)

	// After the window slides past the earlier timestamps, admission resumes
	clock.advance(61 * time.Second)
	result := g.CheckAndRecord()
	assert.True(t, result.Allowed)
}

func TestGovernorRejectsOverDailyLimit(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(1000, 5, clock)

	for i := 0; i < 5; i++ {
		require.True(t, g.CheckAndRecord().Allowed)
		// Spread requests out so the per-minute window never fills
		clock.advance(2 * time.Minute)
	}

	result := g.CheckAndRecord()
	assert.False(t, result.Allowed)
	assert.Equal(t, ReasonPerDay, result.Reason)
	assert.Contains(t, result.Message, "per day")
}

func TestGovernorDailyLimitWinsRegardlessOfWindow(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(1000, 2, clock)

	require.True(t, g.CheckAndRecord().Allowed)
	require.True(t, g.CheckAndRecord().Allowed)

	// Window is empty after an hour, but the daily counter still rejects
	clock.advance(time.Hour)
	result := g.CheckAndRecord()
	assert.False(t, result.Allowed)
	assert.Equal(t, ReasonPerDay, result.Reason)
}

func TestGovernorNewDayResetsCounter(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(1000, 1, clock)

	require.True(t, g.CheckAndRecord().Allowed)
	require.False(t, g.CheckAndRecord().Allowed)

	clock.advance(24 * time.Hour)
	assert.True(t, g.CheckAndRecord().Allowed)
}

func TestGovernorRejectionDoesNotConsumeQuota(t *testing.T) {
	clock := newFakeClock()
	g := NewGovernorWithClock(1, 2, clock)

	require.True(t, g.CheckAndRecord().Allowed)

	// Rejected requests must not push the daily counter forward
	for i := 0; i < 10; i++ {
		require.False(t, g.CheckAndRecord().Allowed)
	}

	clock.advance(2 * time.Minute)
	assert.True(t, g.CheckAndRecord().Allowed)
}

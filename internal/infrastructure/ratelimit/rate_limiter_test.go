package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(map[string]Rule{ActionSendMessage: {Burst: 2, Every: time.Minute}})
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	ok, _ := rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)

	ok, wait := rl.Allow("u1", ActionSendMessage)
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	ok, _ = rl.Allow("u2", ActionSendMessage)
	assert.True(t, ok, "buckets are per user")
}

func TestAllowRefills(t *testing.T) {
	rl := NewRateLimiter(map[string]Rule{ActionSendMessage: {Burst: 1, Every: time.Second}})
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	ok, _ := rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.False(t, ok)

	clock = clock.Add(2 * time.Second)
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(DefaultRules(30))
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("u1", ActionStartConversation)
	assert.Equal(t, 1, rl.size())

	clock = clock.Add(2 * time.Hour)
	rl.Cleanup(time.Hour)
	assert.Equal(t, 0, rl.size())
}

func TestPerMinute(t *testing.T) {
	r := PerMinute(30)
	assert.Equal(t, 30, r.Burst)
	assert.Equal(t, 2*time.Second, r.Every)
}

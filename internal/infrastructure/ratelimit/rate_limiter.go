package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage       = "send_message"
	ActionStartConversation = "start_conversation"
)

// Rule allows Burst actions at once, refilled one every Every.
type Rule struct {
	Burst int
	Every time.Duration
}

// PerMinute spreads n actions evenly over a minute.
func PerMinute(n int) Rule {
	if n <= 0 {
		n = 1
	}
	return Rule{Burst: n, Every: time.Minute / time.Duration(n)}
}

// DefaultRules returns the per-action limits; messagesPerMinute drives
// ActionSendMessage.
func DefaultRules(messagesPerMinute int) map[string]Rule {
	return map[string]Rule{
		ActionSendMessage:       PerMinute(messagesPerMinute),
		ActionStartConversation: {Burst: 10, Every: 6 * time.Minute},
	}
}

var defaultRule = Rule{Burst: 20, Every: 3 * time.Second}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	rules   map[string]Rule
	buckets map[string]*bucket
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter(rules map[string]Rule) *RateLimiter {
	if rules == nil {
		rules = map[string]Rule{}
	}
	return &RateLimiter{
		rules:   rules,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes a token for userID's action. When none is available it
// reports how long until one is.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, exists := rl.buckets[key]
	if !exists {
		rule, ok := rl.rules[action]
		if !ok {
			rule = defaultRule
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Every(rule.Every), rule.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			}
		}
	}()
}

func (rl *RateLimiter) size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}

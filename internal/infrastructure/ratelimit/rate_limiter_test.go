package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsAndReportsWait(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestTokenBucketRefills(t *testing.T) {
	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)

	allowed, _ = bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 6; i++ {
		allowed, _ := rl.Allow("alice", "place_bid")
		assert.True(t, allowed)
	}
	allowed, _ := rl.Allow("alice", "place_bid")
	assert.False(t, allowed)

	// A different user and a different action are untouched.
	allowed, _ = rl.Allow("bob", "place_bid")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("alice", "send_message")
	assert.True(t, allowed)
}

func TestCleanupKeepsActiveBuckets(t *testing.T) {
	rl := NewRateLimiter()

	rl.Allow("alice", "send_message")
	rl.Cleanup()

	rl.mutex.RLock()
	_, ok := rl.buckets["alice:send_message"]
	rl.mutex.RUnlock()
	assert.True(t, ok)
}

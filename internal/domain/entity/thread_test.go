package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadKeyProductScoped(t *testing.T) {
	assert.Equal(t, "p:prod-1:alice:bob", ThreadKey("prod-1", "alice", "bob"))

	// Role order matters for product threads.
	assert.NotEqual(t, ThreadKey("prod-1", "alice", "bob"), ThreadKey("prod-1", "bob", "alice"))
}

func TestThreadKeyDirectPairIsSymmetric(t *testing.T) {
	assert.Equal(t, ThreadKey("", "alice", "bob"), ThreadKey("", "bob", "alice"))
	assert.Equal(t, "d:alice:bob", ThreadKey("", "bob", "alice"))
}

func TestParticipants(t *testing.T) {
	thread := &Thread{BuyerID: "alice", SellerID: "bob"}

	assert.True(t, thread.HasParticipant("alice"))
	assert.True(t, thread.HasParticipant("bob"))
	assert.False(t, thread.HasParticipant("carol"))

	assert.Equal(t, "bob", thread.Counterpart("alice"))
	assert.Equal(t, "alice", thread.Counterpart("bob"))
	assert.Equal(t, "", thread.Counterpart("carol"))
}

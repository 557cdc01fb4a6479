package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t,
		ConversationKey([]string{"alice", "bob"}, "svc-1", ""),
		ConversationKey([]string{"bob", "alice"}, "svc-1", ""),
	)
}

func TestConversationKeyDistinguishesScope(t *testing.T) {
	pair := []string{"alice", "bob"}

	unscoped := ConversationKey(pair, "", "")
	service := ConversationKey(pair, "svc-1", "")
	booking := ConversationKey(pair, "", "svc-1")

	assert.NotEqual(t, unscoped, service)
	assert.NotEqual(t, service, booking)
	assert.NotEqual(t, unscoped, booking)
	assert.Len(t, unscoped, 40)
}

func TestNormalizeParticipants(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeParticipants("b", "", "a", "b"))
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceFilterMatches(t *testing.T) {
	s := &Service{
		ProviderID: "p1",
		Title:      "Jazz Quartet for Weddings",
		Category:   "Music",
		Location:   "Austin, TX",
		Price:      500,
		IsActive:   true,
	}

	assert.True(t, ServiceFilter{}.Matches(s))
	assert.True(t, ServiceFilter{Query: "jazz", Category: "music", Location: "austin"}.Matches(s))
	assert.True(t, ServiceFilter{MinPrice: 500, MaxPrice: 500}.Matches(s))
	assert.False(t, ServiceFilter{MaxPrice: 499}.Matches(s))
	assert.False(t, ServiceFilter{ProviderID: "p2"}.Matches(s))

	s.IsActive = false
	assert.False(t, ServiceFilter{ActiveOnly: true}.Matches(s))
}

func TestConversationFilterScope(t *testing.T) {
	c := &Conversation{Participants: []string{"a", "b"}, ServiceID: "svc"}
	empty := ""
	svc := "svc"

	assert.True(t, ConversationFilter{ParticipantID: "a"}.Matches(c))
	assert.False(t, ConversationFilter{ParticipantID: "z"}.Matches(c))
	assert.True(t, ConversationFilter{ParticipantID: "b", ServiceID: &svc}.Matches(c))
	assert.False(t, ConversationFilter{ParticipantID: "b", BookingID: &svc}.Matches(c))
	assert.True(t, ConversationFilter{ParticipantID: "b", BookingID: &empty}.Matches(c))
}

package entity

import "time"

type Conversation struct {
	ID            string         `json:"id" firestore:"id"`
	Participants  []string       `json:"participants" firestore:"participants"`
	ServiceID     string         `json:"service_id,omitempty" firestore:"serviceId"`
	BookingID     string         `json:"booking_id,omitempty" firestore:"bookingId"`
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"` // userID -> unread messages
	CreatedAt     time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// UnreadFor returns the unread counter of userID, 0 when absent.
func (c *Conversation) UnreadFor(userID string) int {
	if c.UnreadCount == nil {
		return 0
	}
	return c.UnreadCount[userID]
}

// OtherParticipant returns the first participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// ConversationFilter selects a participant's conversations. A nil scope field
// means "any"; a non-nil pointer must match exactly.
type ConversationFilter struct {
	ParticipantID string
	ServiceID     *string
	BookingID     *string
}

func (f ConversationFilter) Matches(c *Conversation) bool {
	if f.ParticipantID != "" && !c.HasParticipant(f.ParticipantID) {
		return false
	}
	if f.ServiceID != nil && c.ServiceID != *f.ServiceID {
		return false
	}
	if f.BookingID != nil && c.BookingID != *f.BookingID {
		return false
	}
	return true
}

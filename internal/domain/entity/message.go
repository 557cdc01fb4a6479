package entity

import "time"

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	ReceiverID     string    `json:"receiver_id" firestore:"receiverId"`
	Content        string    `json:"content" firestore:"content"`
	ServiceID      string    `json:"service_id,omitempty" firestore:"serviceId,omitempty"`
	BookingID      string    `json:"booking_id,omitempty" firestore:"bookingId,omitempty"`
	Read           bool      `json:"read" firestore:"read"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

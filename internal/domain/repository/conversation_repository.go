package repository

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"
)

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)

	// FindOrCreate returns the conversation stored under seed.ID, creating it
	// from seed when absent. The bool is true when a new document was written.
	FindOrCreate(ctx context.Context, seed *entity.Conversation) (*entity.Conversation, bool, error)

	// RecordMessage atomically finds or creates the conversation under seed.ID,
	// sets the last message summary and increments receiverID's unread counter.
	RecordMessage(ctx context.Context, seed *entity.Conversation, receiverID, content string, at time.Time) (*entity.Conversation, error)

	// List returns matching conversations ordered by LastMessageAt, newest first.
	List(ctx context.Context, filter entity.ConversationFilter) ([]*entity.Conversation, error)
	ResetUnread(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns a conversation's messages in chronological order.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, receiverID string) (int, error)
	DeleteMessages(ctx context.Context, conversationID string) (int, error)
}

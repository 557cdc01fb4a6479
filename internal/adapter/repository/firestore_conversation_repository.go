package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) conversations() *firestore.CollectionRef {
	return r.client.Collection(conversationsCollection)
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.conversations().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError("Conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{}
	}
	return &conv, nil
}

func newConversation(seed *entity.Conversation, at time.Time) *entity.Conversation {
	conv := *seed
	conv.Participants = append([]string{}, seed.Participants...)
	conv.UnreadCount = make(map[string]int, len(seed.Participants))
	for _, p := range seed.Participants {
		conv.UnreadCount[p] = 0
	}
	conv.CreatedAt = at
	conv.UpdatedAt = at
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = at
	}
	return &conv
}

// txGet reads the conversation inside tx. A nil result means it does not exist.
func txGet(tx *firestore.Transaction, ref *firestore.DocumentRef) (*entity.Conversation, error) {
	doc, err := tx.Get(ref)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, err
	}
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{}
	}
	return &conv, nil
}

func (r *firestoreConversationRepository) FindOrCreate(ctx context.Context, seed *entity.Conversation) (*entity.Conversation, bool, error) {
	ref := r.conversations().Doc(seed.ID)

	var result *entity.Conversation
	var created bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := txGet(tx, ref)
		if err != nil {
			return err
		}
		if existing != nil {
			result, created = existing, false
			return nil
		}

		result, created = newConversation(seed, time.Now()), true
		return tx.Create(ref, result)
	})
	if err != nil {
		return nil, false, errors.Internal("Failed to create conversation", err)
	}
	return result, created, nil
}

func (r *firestoreConversationRepository) RecordMessage(ctx context.Context, seed *entity.Conversation, receiverID, content string, at time.Time) (*entity.Conversation, error) {
	ref := r.conversations().Doc(seed.ID)

	var result *entity.Conversation
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		conv, err := txGet(tx, ref)
		if err != nil {
			return err
		}

		if conv == nil {
			conv = newConversation(seed, at)
			conv.LastMessage = content
			conv.LastMessageAt = at
			conv.UnreadCount[receiverID] = 1
			result = conv
			return tx.Create(ref, conv)
		}

		conv.LastMessage = content
		conv.LastMessageAt = at
		conv.UpdatedAt = at
		conv.UnreadCount[receiverID]++
		result = conv
		return tx.Update(ref, []firestore.Update{
			{Path: "lastMessage", Value: content},
			{Path: "lastMessageAt", Value: at},
			{Path: "updatedAt", Value: at},
			{FieldPath: firestore.FieldPath{"unreadCount", receiverID}, Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		return nil, errors.Internal("Failed to update conversation", err)
	}
	return result, nil
}

func (r *firestoreConversationRepository) List(ctx context.Context, filter entity.ConversationFilter) ([]*entity.Conversation, error) {
	query := r.conversations().Where("participants", "array-contains", filter.ParticipantID)
	if filter.ServiceID != nil {
		query = query.Where("serviceId", "==", *filter.ServiceID)
	}
	if filter.BookingID != nil {
		query = query.Where("bookingId", "==", *filter.BookingID)
	}
	query = query.OrderBy("lastMessageAt", firestore.Desc)

	convs, err := decodeAll[entity.Conversation](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list conversations", err)
	}
	for _, c := range convs {
		if c.UnreadCount == nil {
			c.UnreadCount = map[string]int{}
		}
	}
	return convs, nil
}

func (r *firestoreConversationRepository) ResetUnread(ctx context.Context, id, userID string) error {
	_, err := r.conversations().Doc(id).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		return readError("Conversation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	ref := r.conversations().Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return readError("Conversation", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete conversation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection(messagesCollection).Doc(message.ID).Set(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	query := r.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Asc)

	messages, err := decodeAll[entity.Message](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	return messages, nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) (int, error) {
	query := r.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		Where("receiverId", "==", receiverID).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to load unread messages", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			bw.End()
			return 0, errors.Internal("Failed to mark messages as read", err)
		}
	}
	bw.End()

	return len(docs), nil
}

func (r *firestoreConversationRepository) DeleteMessages(ctx context.Context, conversationID string) (int, error) {
	docs, err := r.client.Collection(messagesCollection).
		Where("conversationId", "==", conversationID).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to load messages", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return 0, errors.Internal("Failed to delete messages", err)
		}
	}
	bw.End()

	return len(docs), nil
}

package memory

import (
	"context"
	"sort"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type conversationRepository struct {
	store *Store
}

func NewConversationRepository(store *Store) repository.ConversationRepository {
	return &conversationRepository{store: store}
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.conversations.get(id)
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConversation(c), nil
}

// findOrCreateLocked must be called with the write lock held.
func (r *conversationRepository) findOrCreateLocked(seed *entity.Conversation, at time.Time) (*entity.Conversation, bool) {
	if c, ok := r.store.conversations.get(seed.ID); ok {
		return c, false
	}

	c := cloneConversation(seed)
	c.CreatedAt = at
	c.UpdatedAt = at
	if c.LastMessageAt.IsZero() {
		c.LastMessageAt = at
	}
	for _, p := range c.Participants {
		if _, ok := c.UnreadCount[p]; !ok {
			c.UnreadCount[p] = 0
		}
	}
	r.store.conversations.put(c.ID, c)
	return c, true
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, seed *entity.Conversation) (*entity.Conversation, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, created := r.findOrCreateLocked(seed, r.store.now())
	return cloneConversation(c), created, nil
}

func (r *conversationRepository) RecordMessage(ctx context.Context, seed *entity.Conversation, receiverID, content string, at time.Time) (*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, _ := r.findOrCreateLocked(seed, at)
	c.LastMessage = content
	c.LastMessageAt = at
	c.UpdatedAt = at
	c.UnreadCount[receiverID]++
	return cloneConversation(c), nil
}

func (r *conversationRepository) List(ctx context.Context, filter entity.ConversationFilter) ([]*entity.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*entity.Conversation{}
	for _, c := range r.store.conversations.values() {
		if filter.Matches(c) {
			out = append(out, cloneConversation(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

func (r *conversationRepository) ResetUnread(ctx context.Context, id, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.conversations.get(id)
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	c.UnreadCount[userID] = 0
	return nil
}

func (r *conversationRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.conversations.remove(id) {
		return errors.NotFound("Conversation", nil)
	}
	return nil
}

func (r *conversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if message.ID == "" {
		message.ID = newID()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = r.store.now()
	}
	r.store.messages.put(message.ID, cloneMessage(message))
	return nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*entity.Message{}
	for _, m := range r.store.messages.values() {
		if m.ConversationID == conversationID {
			out = append(out, cloneMessage(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *conversationRepository) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	marked := 0
	for _, m := range r.store.messages.values() {
		if m.ConversationID == conversationID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			marked++
		}
	}
	return marked, nil
}

func (r *conversationRepository) DeleteMessages(ctx context.Context, conversationID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ids []string
	for _, m := range r.store.messages.values() {
		if m.ConversationID == conversationID {
			ids = append(ids, m.ID)
		}
	}
	for _, id := range ids {
		r.store.messages.remove(id)
	}
	return len(ids), nil
}

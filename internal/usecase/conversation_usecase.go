package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/internal/domain/service"
	"eventhub/internal/infrastructure/ratelimit"
	"eventhub/pkg/errors"
	"eventhub/pkg/logger"
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	serviceRepo      repository.ServiceRepository
	bookingRepo      repository.BookingRepository
	rateLimiter      RateLimiter
}

// NewConversationUseCase wires messaging. rateLimiter may be nil to disable
// throttling.
func NewConversationUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	bookingRepo repository.BookingRepository,
	rateLimiter RateLimiter,
) *ConversationUseCase {
	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		serviceRepo:      serviceRepo,
		bookingRepo:      bookingRepo,
		rateLimiter:      rateLimiter,
	}
}

type SendMessageInput struct {
	ReceiverID string
	Content    string
	ServiceID  string
	BookingID  string
}

type StartConversationInput struct {
	ParticipantID string
	ServiceID     string
	BookingID     string
}

type MessageDetail struct {
	*entity.Message
	Sender *entity.UserSummary `json:"sender,omitempty"`
}

type ConversationDetail struct {
	*entity.Conversation
	ParticipantDetails []*entity.UserSummary `json:"participant_details"`
	Messages           []*entity.Message     `json:"messages,omitempty"`
}

type ConversationSummary struct {
	*entity.Conversation
	OtherParticipant *entity.UserSummary `json:"other_participant,omitempty"`
	Unread           int                 `json:"unread"`
}

func (uc *ConversationUseCase) checkRate(userID, action string) error {
	if uc.rateLimiter == nil {
		return nil
	}
	allowed, wait := uc.rateLimiter.Allow(userID, action)
	if !allowed {
		logger.Warn("rate limited: user %s action %s must wait %v", userID, action, wait)
		return errors.TooManyRequests("Rate limit exceeded. Please slow down", int(math.Ceil(wait.Seconds())))
	}
	return nil
}

// resolveCounterpart checks the other participant and the optional scope, and
// returns the conversation seed they identify.
func (uc *ConversationUseCase) resolveCounterpart(ctx context.Context, caller service.Caller, otherID, serviceID, bookingID string) (*entity.Conversation, *entity.User, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, nil, errors.BadRequest("Receiver is required", nil)
	}
	if otherID == caller.ID {
		return nil, nil, errors.BadRequest("You cannot message yourself", nil)
	}

	other, err := uc.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, nil, err
	}

	if serviceID != "" {
		if _, err := uc.serviceRepo.GetByID(ctx, serviceID); err != nil {
			return nil, nil, err
		}
	}
	if bookingID != "" {
		if _, err := uc.bookingRepo.GetByID(ctx, bookingID); err != nil {
			return nil, nil, err
		}
	}

	participants := service.NormalizeParticipants(caller.ID, otherID)
	seed := &entity.Conversation{
		ID:           service.ConversationKey(participants, serviceID, bookingID),
		Participants: participants,
		ServiceID:    serviceID,
		BookingID:    bookingID,
		UnreadCount:  map[string]int{},
	}
	return seed, other, nil
}

// SendMessage stores the message, then upserts its conversation. A failed
// upsert is logged; the message stays stored.
func (uc *ConversationUseCase) SendMessage(ctx context.Context, caller service.Caller, input SendMessageInput) (*MessageDetail, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	if err := uc.checkRate(caller.ID, ratelimit.ActionSendMessage); err != nil {
		return nil, err
	}

	seed, _, err := uc.resolveCounterpart(ctx, caller, input.ReceiverID, input.ServiceID, input.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	message := &entity.Message{
		ConversationID: seed.ID,
		SenderID:       caller.ID,
		ReceiverID:     strings.TrimSpace(input.ReceiverID),
		Content:        content,
		ServiceID:      input.ServiceID,
		BookingID:      input.BookingID,
		Read:           false,
		CreatedAt:      now,
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if _, err := uc.conversationRepo.RecordMessage(ctx, seed, message.ReceiverID, content, now); err != nil {
		logger.Error("message %s stored but conversation %s not updated: %v", message.ID, seed.ID, err)
	}

	detail := &MessageDetail{Message: message}
	if sender, err := uc.userRepo.GetByID(ctx, caller.ID); err == nil {
		detail.Sender = sender.Summary()
	} else {
		logger.Warn("failed to load sender %s: %v", caller.ID, err)
	}
	return detail, nil
}

// StartConversation finds or creates the conversation without sending a
// message. The bool reports whether it was created.
func (uc *ConversationUseCase) StartConversation(ctx context.Context, caller service.Caller, input StartConversationInput) (*ConversationDetail, bool, error) {
	if err := uc.checkRate(caller.ID, ratelimit.ActionStartConversation); err != nil {
		return nil, false, err
	}

	seed, _, err := uc.resolveCounterpart(ctx, caller, input.ParticipantID, input.ServiceID, input.BookingID)
	if err != nil {
		return nil, false, err
	}

	conv, created, err := uc.conversationRepo.FindOrCreate(ctx, seed)
	if err != nil {
		return nil, false, err
	}

	detail, err := uc.withParticipants(ctx, conv)
	if err != nil {
		return nil, false, err
	}
	return detail, created, nil
}

func (uc *ConversationUseCase) withParticipants(ctx context.Context, conv *entity.Conversation) (*ConversationDetail, error) {
	users, err := uc.userRepo.GetMany(ctx, conv.Participants)
	if err != nil {
		return nil, err
	}

	detail := &ConversationDetail{Conversation: conv, ParticipantDetails: []*entity.UserSummary{}}
	for _, id := range conv.Participants {
		if u, ok := users[id]; ok {
			detail.ParticipantDetails = append(detail.ParticipantDetails, u.Summary())
		}
	}
	return detail, nil
}

func (uc *ConversationUseCase) participantConversation(ctx context.Context, caller service.Caller, id, action string) (*entity.Conversation, error) {
	conv, err := uc.conversationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.RequireParticipant(caller, action, conv.Participants); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetConversation returns the conversation with its messages oldest first,
// and marks everything addressed to the caller as read.
func (uc *ConversationUseCase) GetConversation(ctx context.Context, caller service.Caller, id string) (*ConversationDetail, error) {
	conv, err := uc.participantConversation(ctx, caller, id, "view it")
	if err != nil {
		return nil, err
	}

	messages, err := uc.conversationRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.conversationRepo.MarkMessagesRead(ctx, conv.ID, caller.ID); err != nil {
		logger.Error("failed to mark messages of conversation %s read: %v", conv.ID, err)
	} else {
		for _, m := range messages {
			if m.ReceiverID == caller.ID {
				m.Read = true
			}
		}
	}

	if err := uc.conversationRepo.ResetUnread(ctx, conv.ID, caller.ID); err != nil {
		logger.Error("failed to reset unread count of conversation %s: %v", conv.ID, err)
	} else {
		if conv.UnreadCount == nil {
			conv.UnreadCount = map[string]int{}
		}
		conv.UnreadCount[caller.ID] = 0
	}

	detail, err := uc.withParticipants(ctx, conv)
	if err != nil {
		return nil, err
	}
	detail.Messages = messages
	return detail, nil
}

// DeleteConversation removes the conversation and all its messages for every
// participant.
func (uc *ConversationUseCase) DeleteConversation(ctx context.Context, caller service.Caller, id string) error {
	conv, err := uc.participantConversation(ctx, caller, id, "delete it")
	if err != nil {
		return err
	}

	deleted, err := uc.conversationRepo.DeleteMessages(ctx, conv.ID)
	if err != nil {
		return err
	}
	logger.Debug("deleted %d messages of conversation %s", deleted, conv.ID)

	return uc.conversationRepo.Delete(ctx, conv.ID)
}

// ListConversations returns the caller's conversations, most recent first.
// A nil scope pointer matches any value.
func (uc *ConversationUseCase) ListConversations(ctx context.Context, caller service.Caller, serviceID, bookingID *string) ([]*ConversationSummary, error) {
	convs, err := uc.conversationRepo.List(ctx, entity.ConversationFilter{
		ParticipantID: caller.ID,
		ServiceID:     serviceID,
		BookingID:     bookingID,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.OtherParticipant(caller.ID))
	}
	others, err := uc.userRepo.GetMany(ctx, ids)
	if err != nil {
		logger.Warn("failed to load conversation participants: %v", err)
		others = map[string]*entity.User{}
	}

	out := make([]*ConversationSummary, 0, len(convs))
	for _, c := range convs {
		out = append(out, &ConversationSummary{
			Conversation:     c,
			OtherParticipant: others[c.OtherParticipant(caller.ID)].Summary(),
			Unread:           c.UnreadFor(caller.ID),
		})
	}
	return out, nil
}

// UnreadTotal sums the caller's unread counters across conversations.
func (uc *ConversationUseCase) UnreadTotal(ctx context.Context, caller service.Caller) (int, error) {
	convs, err := uc.conversationRepo.List(ctx, entity.ConversationFilter{ParticipantID: caller.ID})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, c := range convs {
		total += c.UnreadFor(caller.ID)
	}
	return total, nil
}

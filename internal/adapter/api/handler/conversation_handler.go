package handler

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/usecase"
	"eventhub/pkg/errors"
	"eventhub/pkg/response"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

type startConversationRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	ServiceID     string `json:"service_id"`
	BookingID     string `json:"booking_id"`
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,notblank,max=5000"`
	ServiceID  string `json:"service_id"`
	BookingID  string `json:"booking_id"`
}

// optionalQuery distinguishes an absent query parameter from an empty one.
func optionalQuery(c echo.Context, name string) *string {
	values, ok := c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func (h *ConversationHandler) ListConversations(c echo.Context) error {
	conversations, err := h.conversationUseCase.ListConversations(
		c.Request().Context(),
		middleware.Caller(c),
		optionalQuery(c, "serviceId"),
		optionalQuery(c, "bookingId"),
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *ConversationHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	detail, created, err := h.conversationUseCase.StartConversation(c.Request().Context(), middleware.Caller(c), usecase.StartConversationInput{
		ParticipantID: req.ParticipantID,
		ServiceID:     req.ServiceID,
		BookingID:     req.BookingID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if created {
		return response.Created(c, detail)
	}
	return response.Success(c, detail)
}

func (h *ConversationHandler) GetConversation(c echo.Context) error {
	detail, err := h.conversationUseCase.GetConversation(c.Request().Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, detail)
}

func (h *ConversationHandler) DeleteConversation(c echo.Context) error {
	if err := h.conversationUseCase.DeleteConversation(c.Request().Context(), middleware.Caller(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Conversation deleted successfully")
}

func (h *ConversationHandler) UnreadCount(c echo.Context) error {
	total, err := h.conversationUseCase.UnreadTotal(c.Request().Context(), middleware.Caller(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"unread": total})
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.conversationUseCase.SendMessage(c.Request().Context(), middleware.Caller(c), usecase.SendMessageInput{
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		ServiceID:  req.ServiceID,
		BookingID:  req.BookingID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

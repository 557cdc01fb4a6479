package handler

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/domain/entity"
	"eventhub/internal/usecase"
	"eventhub/pkg/errors"
	"eventhub/pkg/response"
	"eventhub/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type replyReviewRequest struct {
	Reply string `json:"reply" validate:"required,notblank,max=2000"`
}

// ListReviews requires ?serviceId= or ?providerId=.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	filter := entity.ReviewFilter{
		ServiceID:  c.QueryParam("serviceId"),
		ProviderID: c.QueryParam("providerId"),
	}
	if filter.ServiceID == "" && filter.ProviderID == "" {
		return response.Error(c, errors.BadRequest("serviceId or providerId is required", nil))
	}

	page := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewUseCase.ListReviews(c.Request().Context(), filter, page)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, page.Page, page.PageSize)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), middleware.Caller(c), usecase.CreateReviewInput{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.UpdateReview(c.Request().Context(), middleware.Caller(c), c.Param("id"), usecase.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	if err := h.reviewUseCase.DeleteReview(c.Request().Context(), middleware.Caller(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Review deleted successfully")
}

func (h *ReviewHandler) ReplyToReview(c echo.Context) error {
	var req replyReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.ReplyToReview(c.Request().Context(), middleware.Caller(c), c.Param("id"), req.Reply)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

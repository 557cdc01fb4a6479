package handler

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/usecase"
	"eventhub/pkg/errors"
	"eventhub/pkg/response"
	"eventhub/pkg/utils"
)

type BookingHandler struct {
	bookingUseCase *usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase *usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

type createBookingRequest struct {
	ServiceID  string `json:"service_id" validate:"required"`
	EventDate  string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime  string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime    string `json:"end_time" validate:"omitempty,datetime=15:04"`
	GuestCount int    `json:"guest_count" validate:"gte=0"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

type updateBookingStatusRequest struct {
	Status        string `json:"status" validate:"required"`
	ProviderNotes string `json:"provider_notes" validate:"omitempty,max=2000"`
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUseCase.CreateBooking(c.Request().Context(), middleware.Caller(c), usecase.CreateBookingInput{
		ServiceID:  req.ServiceID,
		EventDate:  req.EventDate,
		EndDate:    req.EndDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		GuestCount: req.GuestCount,
		Notes:      req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, booking)
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	page := utils.GetPaginationParams(c)

	bookings, total, err := h.bookingUseCase.ListBookings(c.Request().Context(), middleware.Caller(c), c.QueryParam("status"), page)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, bookings, total, page.Page, page.PageSize)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	detail, err := h.bookingUseCase.GetBooking(c.Request().Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, detail)
}

func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	var req updateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUseCase.UpdateBookingStatus(c.Request().Context(), middleware.Caller(c), c.Param("id"), usecase.UpdateBookingStatusInput{
		Status:        req.Status,
		ProviderNotes: req.ProviderNotes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

package usecase

import (
	"context"
	"strings"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/internal/domain/service"
	"eventhub/internal/infrastructure/events"
	"eventhub/pkg/errors"
	"eventhub/pkg/utils"
)

const DateLayout = "2006-01-02"

type BookingUseCase struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
}

func NewBookingUseCase(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
) *BookingUseCase {
	return &BookingUseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

type CreateBookingInput struct {
	ServiceID  string
	EventDate  string
	EndDate    string
	StartTime  string
	EndTime    string
	GuestCount int
	Notes      string
}

type UpdateBookingStatusInput struct {
	Status        string
	ProviderNotes string
}

type BookingDetail struct {
	*entity.Booking
	Customer *entity.UserSummary `json:"customer,omitempty"`
	Provider *entity.UserSummary `json:"provider,omitempty"`
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.BadRequest(field+" must be a date in YYYY-MM-DD format", err)
	}
	return d, nil
}

// BookedDays counts the calendar days in [start, end], inclusive. A nil end
// means a single day.
func BookedDays(start time.Time, end *time.Time) int {
	if end == nil {
		return 1
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func (uc *BookingUseCase) CreateBooking(ctx context.Context, caller service.Caller, input CreateBookingInput) (*entity.Booking, error) {
	if err := service.RequireRole(caller, "create bookings", entity.RoleCustomer); err != nil {
		return nil, err
	}

	eventDate, err := parseDate("event_date", input.EventDate)
	if err != nil {
		return nil, err
	}

	var endDate *time.Time
	if strings.TrimSpace(input.EndDate) != "" {
		d, err := parseDate("end_date", input.EndDate)
		if err != nil {
			return nil, err
		}
		if d.Before(eventDate) {
			return nil, errors.BadRequest("end_date cannot be before event_date", nil)
		}
		endDate = &d
	}

	svc, err := uc.serviceRepo.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, errors.BadRequest("Service is not available for booking", nil)
	}

	booking := &entity.Booking{
		ServiceID:    svc.ID,
		CustomerID:   caller.ID,
		ProviderID:   svc.ProviderID,
		Status:       entity.BookingPending,
		EventDate:    eventDate,
		EndDate:      endDate,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		GuestCount:   input.GuestCount,
		TotalPrice:   svc.Price * float64(BookedDays(eventDate, endDate)),
		ServiceTitle: svc.Title,
		Notes:        input.Notes,
	}

	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, events.New(events.BookingCreated, bookingPayload(booking, "", caller.ID)))
	return booking, nil
}

func bookingPayload(b *entity.Booking, previous entity.BookingStatus, changedBy string) events.BookingPayload {
	return events.BookingPayload{
		BookingID:      b.ID,
		ServiceID:      b.ServiceID,
		CustomerID:     b.CustomerID,
		ProviderID:     b.ProviderID,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		ChangedBy:      changedBy,
	}
}

func (uc *BookingUseCase) GetBooking(ctx context.Context, caller service.Caller, id string) (*BookingDetail, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.RequireOwnerOrAdmin(caller, "view this booking", booking.CustomerID, booking.ProviderID); err != nil {
		return nil, err
	}

	detail := &BookingDetail{Booking: booking}
	if users, err := uc.userRepo.GetMany(ctx, []string{booking.CustomerID, booking.ProviderID}); err == nil {
		detail.Customer = users[booking.CustomerID].Summary()
		detail.Provider = users[booking.ProviderID].Summary()
	}
	return detail, nil
}

// ListBookings scopes the listing by role: customers see their own bookings,
// providers the bookings on their services, admins everything.
func (uc *BookingUseCase) ListBookings(ctx context.Context, caller service.Caller, status string, page utils.PaginationParams) ([]*entity.Booking, int64, error) {
	var filter entity.BookingFilter

	if status != "" {
		st, ok := entity.ParseBookingStatus(status)
		if !ok {
			return nil, 0, errors.BadRequest("Invalid booking status: "+status, nil)
		}
		filter.Status = st
	}

	switch caller.Role {
	case entity.RoleCustomer:
		filter.CustomerID = caller.ID
	case entity.RoleServiceProvider:
		filter.ProviderID = caller.ID
	case entity.RoleAdmin:
	default:
		return nil, 0, errors.Forbidden("You are not allowed to list bookings", nil)
	}

	return uc.bookingRepo.List(ctx, filter, page.PageSize, page.Offset)
}

// UpdateBookingStatus applies a status transition. Concurrent transitions on
// the same booking are last write wins.
func (uc *BookingUseCase) UpdateBookingStatus(ctx context.Context, caller service.Caller, id string, input UpdateBookingStatusInput) (*entity.Booking, error) {
	next, ok := entity.ParseBookingStatus(input.Status)
	if !ok {
		return nil, errors.BadRequest("Invalid booking status: "+input.Status, nil)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.AuthorizeTransition(caller, booking, next); err != nil {
		return nil, err
	}

	previous := booking.Status
	booking.Status = next
	if input.ProviderNotes != "" && caller.Role != entity.RoleCustomer {
		booking.ProviderNotes = input.ProviderNotes
	}

	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, events.New(events.BookingStatusChanged, bookingPayload(booking, previous, caller.ID)))
	return booking, nil
}

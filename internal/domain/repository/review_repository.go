package repository

import (
	"context"

	"eventhub/internal/domain/entity"
)

type ReviewRepository interface {
	// Create fails with a CONFLICT error when the customer already reviewed the booking.
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByBookingAndCustomer(ctx context.Context, bookingID, customerID string) (*entity.Review, error)
	List(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, int64, error)
	// RatingsByService returns every rating recorded for the service.
	RatingsByService(ctx context.Context, serviceID string) ([]int, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
}

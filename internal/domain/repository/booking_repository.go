package repository

import (
	"context"

	"eventhub/internal/domain/entity"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	List(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
}

package memory

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type bookingRepository struct {
	store *Store
}

func NewBookingRepository(store *Store) repository.BookingRepository {
	return &bookingRepository{store: store}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if booking.ID == "" {
		booking.ID = newID()
	}
	now := r.store.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	r.store.bookings.put(booking.ID, cloneBooking(booking))
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings.get(id)
	if !ok {
		return nil, errors.NotFound("Booking", nil)
	}
	return cloneBooking(b), nil
}

func (r *bookingRepository) List(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.Booking
	for _, b := range r.store.bookings.values() {
		if filter.Matches(b) {
			matched = append(matched, b)
		}
	}
	newestFirst(matched, func(b *entity.Booking) time.Time { return b.CreatedAt })

	out := []*entity.Booking{}
	for _, b := range page(matched, limit, offset) {
		out = append(out, cloneBooking(b))
	}
	return out, int64(len(matched)), nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.bookings.get(booking.ID)
	if !ok {
		return errors.NotFound("Booking", nil)
	}

	booking.CreatedAt = existing.CreatedAt
	booking.UpdatedAt = r.store.now()
	r.store.bookings.put(booking.ID, cloneBooking(booking))
	return nil
}

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

type firestoreBookingRepository struct {
	client *firestore.Client
}

func NewFirestoreBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &firestoreBookingRepository{
		client: client,
	}
}

func (r *firestoreBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.client.Collection(bookingsCollection).Doc(booking.ID).Set(ctx, booking); err != nil {
		return errors.Internal("Failed to create booking", err)
	}
	return nil
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.client.Collection(bookingsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError("Booking", err)
	}

	var booking entity.Booking
	if err := doc.DataTo(&booking); err != nil {
		return nil, errors.Internal("Failed to parse booking data", err)
	}
	return &booking, nil
}

func (r *firestoreBookingRepository) List(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, int64, error) {
	query := r.client.Collection(bookingsCollection).Query
	if filter.CustomerID != "" {
		query = query.Where("customerId", "==", filter.CustomerID)
	}
	if filter.ProviderID != "" {
		query = query.Where("providerId", "==", filter.ProviderID)
	}
	if filter.ServiceID != "" {
		query = query.Where("serviceId", "==", filter.ServiceID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	bookings, err := decodeAll[entity.Booking](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list bookings", err)
	}

	return pageSlice(bookings, limit, offset), int64(len(bookings)), nil
}

// Update overwrites the mutable booking fields. Concurrent updates are last
// write wins.
func (r *firestoreBookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	booking.UpdatedAt = time.Now()

	_, err := r.client.Collection(bookingsCollection).Doc(booking.ID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(booking.Status)},
		{Path: "providerNotes", Value: booking.ProviderNotes},
		{Path: "updatedAt", Value: booking.UpdatedAt},
	})
	if err != nil {
		return readError("Booking", err)
	}
	return nil
}

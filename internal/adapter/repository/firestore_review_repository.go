package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) byBookingAndCustomer(bookingID, customerID string) firestore.Query {
	return r.client.Collection(reviewsCollection).
		Where("bookingId", "==", bookingID).
		Where("customerId", "==", customerID).
		Limit(1)
}

// Create checks for an existing review of the booking inside the same
// transaction that writes the new one.
func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	ref := r.client.Collection(reviewsCollection).Doc(review.ID)
	query := r.byBookingAndCustomer(review.BookingID, review.CustomerID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return errors.Conflict("You have already reviewed this booking", nil)
		}
		return tx.Create(ref, review)
	})
	if err != nil {
		if errors.Is(err, errors.CodeConflict) {
			return err
		}
		return errors.Internal("Failed to create review", err)
	}
	return nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection(reviewsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError("Review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}
	return &review, nil
}

func (r *firestoreReviewRepository) GetByBookingAndCustomer(ctx context.Context, bookingID, customerID string) (*entity.Review, error) {
	iter := r.byBookingAndCustomer(bookingID, customerID).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Review", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}
	return &review, nil
}

func (r *firestoreReviewRepository) List(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection(reviewsCollection).Query
	if filter.ServiceID != "" {
		query = query.Where("serviceId", "==", filter.ServiceID)
	}
	if filter.ProviderID != "" {
		query = query.Where("providerId", "==", filter.ProviderID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customerId", "==", filter.CustomerID)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	reviews, err := decodeAll[entity.Review](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list reviews", err)
	}

	return pageSlice(reviews, limit, offset), int64(len(reviews)), nil
}

func (r *firestoreReviewRepository) RatingsByService(ctx context.Context, serviceID string) ([]int, error) {
	query := r.client.Collection(reviewsCollection).
		Where("serviceId", "==", serviceID).
		Select("rating")

	iter := query.Documents(ctx)
	defer iter.Stop()

	ratings := []int{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to load ratings", err)
		}

		var row struct {
			Rating int `firestore:"rating"`
		}
		if err := doc.DataTo(&row); err != nil {
			return nil, errors.Internal("Failed to parse review data", err)
		}
		ratings = append(ratings, row.Rating)
	}
	return ratings, nil
}

func (r *firestoreReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	review.UpdatedAt = time.Now()

	updates := []firestore.Update{
		{Path: "rating", Value: review.Rating},
		{Path: "comment", Value: review.Comment},
		{Path: "reply", Value: review.Reply},
		{Path: "updatedAt", Value: review.UpdatedAt},
	}
	if review.RepliedAt != nil {
		updates = append(updates, firestore.Update{Path: "repliedAt", Value: *review.RepliedAt})
	}

	if _, err := r.client.Collection(reviewsCollection).Doc(review.ID).Update(ctx, updates); err != nil {
		return readError("Review", err)
	}
	return nil
}

func (r *firestoreReviewRepository) Delete(ctx context.Context, id string) error {
	ref := r.client.Collection(reviewsCollection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return readError("Review", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete review", err)
	}
	return nil
}

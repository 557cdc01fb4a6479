package memory

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type reviewRepository struct {
	store *Store
}

func NewReviewRepository(store *Store) repository.ReviewRepository {
	return &reviewRepository{store: store}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.reviews.values() {
		if existing.BookingID == review.BookingID && existing.CustomerID == review.CustomerID {
			return errors.Conflict("You have already reviewed this booking", nil)
		}
	}

	if review.ID == "" {
		review.ID = newID()
	}
	now := r.store.now()
	review.CreatedAt = now
	review.UpdatedAt = now

	r.store.reviews.put(review.ID, cloneReview(review))
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rv, ok := r.store.reviews.get(id)
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return cloneReview(rv), nil
}

func (r *reviewRepository) GetByBookingAndCustomer(ctx context.Context, bookingID, customerID string) (*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rv := range r.store.reviews.values() {
		if rv.BookingID == bookingID && rv.CustomerID == customerID {
			return cloneReview(rv), nil
		}
	}
	return nil, errors.NotFound("Review", nil)
}

func (r *reviewRepository) List(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.Review
	for _, rv := range r.store.reviews.values() {
		if filter.Matches(rv) {
			matched = append(matched, rv)
		}
	}
	newestFirst(matched, func(rv *entity.Review) time.Time { return rv.CreatedAt })

	out := []*entity.Review{}
	for _, rv := range page(matched, limit, offset) {
		out = append(out, cloneReview(rv))
	}
	return out, int64(len(matched)), nil
}

func (r *reviewRepository) RatingsByService(ctx context.Context, serviceID string) ([]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ratings := []int{}
	for _, rv := range r.store.reviews.values() {
		if rv.ServiceID == serviceID {
			ratings = append(ratings, rv.Rating)
		}
	}
	return ratings, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.reviews.get(review.ID)
	if !ok {
		return errors.NotFound("Review", nil)
	}

	review.CreatedAt = existing.CreatedAt
	review.UpdatedAt = r.store.now()
	r.store.reviews.put(review.ID, cloneReview(review))
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.reviews.remove(id) {
		return errors.NotFound("Review", nil)
	}
	return nil
}

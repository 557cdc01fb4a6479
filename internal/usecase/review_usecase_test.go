package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain/entity"
	"eventhub/internal/infrastructure/events"
	"eventhub/pkg/errors"
)

func TestMarketplaceScenarioRatesService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.register(t, "Carl", entity.RoleCustomer)
	provider := f.register(t, "Paula", entity.RoleServiceProvider)
	svc := f.createService(t, provider, 100)

	b := f.completedBooking(t, customer, provider, svc)
	assert.Equal(t, entity.BookingCompleted, b.Status)

	_, err := f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: b.ID, Rating: 4, Comment: "ok"})
	require.NoError(t, err)

	got, err := f.services.GetByID(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 1, got.ReviewCount)
	assert.Contains(t, f.events.Types(), events.ReviewCreated)
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.register(t, "Carl", entity.RoleCustomer)
	provider := f.register(t, "Paula", entity.RoleServiceProvider)
	b := f.completedBooking(t, customer, provider, f.createService(t, provider, 100))

	_, err := f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: b.ID, Rating: 5})
	require.NoError(t, err)

	_, err = f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: b.ID, Rating: 1})
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestCreateReviewPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.register(t, "Carl", entity.RoleCustomer)
	other := f.register(t, "Olga", entity.RoleCustomer)
	provider := f.register(t, "Paula", entity.RoleServiceProvider)
	svc := f.createService(t, provider, 100)

	pending := f.book(t, customer, svc)
	_, err := f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: pending.ID, Rating: 5})
	assert.True(t, errors.Is(err, errors.CodeBadRequest), "booking not completed")

	done := f.completedBooking(t, customer, provider, svc)
	_, err = f.review.CreateReview(ctx, other, CreateReviewInput{BookingID: done.ID, Rating: 5})
	assert.True(t, errors.Is(err, errors.CodeForbidden), "not the booking's customer")

	_, err = f.review.CreateReview(ctx, provider, CreateReviewInput{BookingID: done.ID, Rating: 5})
	assert.True(t, errors.Is(err, errors.CodeForbidden), "providers cannot review")

	_, err = f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: done.ID, Rating: 6})
	assert.True(t, errors.Is(err, errors.CodeBadRequest), "rating out of range")

	_, err = f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: "missing", Rating: 5})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestRatingRecomputedOnEveryMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.register(t, "Paula", entity.RoleServiceProvider)
	svc := f.createService(t, provider, 100)

	var reviews []*entity.Review
	var authors []string
	for i, rating := range []int{4, 5, 5} {
		customer := f.register(t, []string{"Ann", "Ben", "Cid"}[i], entity.RoleCustomer)
		b := f.completedBooking(t, customer, provider, svc)
		r, err := f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: b.ID, Rating: rating})
		require.NoError(t, err)
		reviews = append(reviews, r)
		authors = append(authors, customer.ID)
	}

	got, _ := f.services.GetByID(ctx, svc.ID)
	assert.Equal(t, 4.7, got.Rating)
	assert.Equal(t, 3, got.ReviewCount)

	one := 1
	_, err := f.review.UpdateReview(ctx, callerFor(authors[0], entity.RoleCustomer), reviews[0].ID, UpdateReviewInput{Rating: &one})
	require.NoError(t, err)
	got, _ = f.services.GetByID(ctx, svc.ID)
	assert.Equal(t, 3.7, got.Rating)

	admin := f.admin(t)
	for _, r := range reviews {
		require.NoError(t, f.review.DeleteReview(ctx, admin, r.ID))
	}
	got, _ = f.services.GetByID(ctx, svc.ID)
	assert.Equal(t, 0.0, got.Rating)
	assert.Equal(t, 0, got.ReviewCount)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.register(t, "Carl", entity.RoleCustomer)
	other := f.register(t, "Olga", entity.RoleCustomer)
	provider := f.register(t, "Paula", entity.RoleServiceProvider)
	b := f.completedBooking(t, customer, provider, f.createService(t, provider, 100))
	r, err := f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: b.ID, Rating: 3})
	require.NoError(t, err)

	comment := "changed"
	_, err = f.review.UpdateReview(ctx, other, r.ID, UpdateReviewInput{Comment: &comment})
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	err = f.review.DeleteReview(ctx, provider, r.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestReplyToReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.register(t, "Carl", entity.RoleCustomer)
	provider := f.register(t, "Paula", entity.RoleServiceProvider)
	otherProvider := f.register(t, "Oscar", entity.RoleServiceProvider)
	b := f.completedBooking(t, customer, provider, f.createService(t, provider, 100))
	r, err := f.review.CreateReview(ctx, customer, CreateReviewInput{BookingID: b.ID, Rating: 5})
	require.NoError(t, err)

	_, err = f.review.ReplyToReview(ctx, otherProvider, r.ID, "thanks")
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = f.review.ReplyToReview(ctx, customer, r.ID, "thanks")
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	replied, err := f.review.ReplyToReview(ctx, provider, r.ID, "Thanks for booking!")
	require.NoError(t, err)
	assert.Equal(t, "Thanks for booking!", replied.Reply)
	assert.NotNil(t, replied.RepliedAt)

	listed, total, err := f.review.ListReviews(ctx, entity.ReviewFilter{ProviderID: provider.ID}, firstPage())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, "Thanks for booking!", listed[0].Reply)
	require.NotNil(t, listed[0].Customer)
	assert.Equal(t, "Carl", listed[0].Customer.FirstName)
}

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
	"eventhub/pkg/logger"
	"eventhub/pkg/utils"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

type CreateReviewInput struct {
	BookingID string
	Rating    int
	Comment   string
}

type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.BadRequest("Rating must be between 1 and 5", nil)
	}
	return nil
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, caller service.Caller, input CreateReviewInput) (*entity.Review, error) {
	if err := service.RequireRole(caller, "write reviews", entity.RoleCustomer); err != nil {
		return nil, err
	}
	if err := validRating(input.Rating); err != nil {
		return nil, err
	}

	booking, err := uc.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != caller.ID {
		return nil, errors.Forbidden("You can only review your own bookings", nil)
	}
	if booking.Status != entity.BookingCompleted {
		return nil, errors.BadRequest("You can only review completed bookings", nil)
	}

	if _, err := uc.reviewRepo.GetByBookingAndCustomer(ctx, booking.ID, caller.ID); err == nil {
		return nil, errors.Conflict("You have already reviewed this booking", nil)
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	review := &entity.Review{
		BookingID:  booking.ID,
		ServiceID:  booking.ServiceID,
		CustomerID: caller.ID,
		ProviderID: booking.ProviderID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	uc.afterChange(ctx, events.ReviewCreated, review)
	return review, nil
}

func (uc *ReviewUseCase) UpdateReview(ctx context.Context, caller service.Caller, id string, input UpdateReviewInput) (*entity.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.RequireOwnerOrAdmin(caller, "update this review", review.CustomerID); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := validRating(*input.Rating); err != nil {
			return nil, err
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = strings.TrimSpace(*input.Comment)
	}

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	uc.afterChange(ctx, events.ReviewUpdated, review)
	return review, nil
}

func (uc *ReviewUseCase) DeleteReview(ctx context.Context, caller service.Caller, id string) error {
	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := service.RequireOwnerOrAdmin(caller, "delete this review", review.CustomerID); err != nil {
		return err
	}

	if err := uc.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.afterChange(ctx, events.ReviewDeleted, review)
	return nil
}

// ReplyToReview lets the reviewed provider attach a public reply.
func (uc *ReviewUseCase) ReplyToReview(ctx context.Context, caller service.Caller, id, reply string) (*entity.Review, error) {
	if err := service.RequireRole(caller, "reply to reviews", entity.RoleServiceProvider); err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.ProviderID != caller.ID {
		return nil, errors.Forbidden("You can only reply to reviews of your own services", nil)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, errors.BadRequest("Reply cannot be empty", nil)
	}

	now := time.Now()
	review.Reply = reply
	review.RepliedAt = &now

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, filter entity.ReviewFilter, page utils.PaginationParams) ([]*ReviewDetail, int64, error) {
	reviews, total, err := uc.reviewRepo.List(ctx, filter, page.PageSize, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.CustomerID)
	}
	customers, err := uc.userRepo.GetMany(ctx, ids)
	if err != nil {
		logger.Warn("failed to load reviewers: %v", err)
		customers = map[string]*entity.User{}
	}

	items := make([]*ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, &ReviewDetail{Review: r, Customer: customers[r.CustomerID].Summary()})
	}
	return items, total, nil
}

// RecomputeServiceRating rewrites the service's rating and review count from
// every review currently stored for it.
func (uc *ReviewUseCase) RecomputeServiceRating(ctx context.Context, serviceID string) (float64, int, error) {
	ratings, err := uc.reviewRepo.RatingsByService(ctx, serviceID)
	if err != nil {
		return 0, 0, err
	}

	rating, count := service.AggregateRating(ratings)
	if err := uc.serviceRepo.UpdateRating(ctx, serviceID, rating, count); err != nil {
		return 0, 0, err
	}
	return rating, count, nil
}

func (uc *ReviewUseCase) afterChange(ctx context.Context, eventType string, review *entity.Review) {
	rating, count, err := uc.RecomputeServiceRating(ctx, review.ServiceID)
	if err != nil {
		logger.LogSideEffectError("recompute rating", review.ServiceID, err)
	}

	publish(ctx, uc.publisher, events.New(eventType, events.ReviewPayload{
		ReviewID:    review.ID,
		ServiceID:   review.ServiceID,
		ProviderID:  review.ProviderID,
		CustomerID:  review.CustomerID,
		Rating:      review.Rating,
		ServiceAvg:  rating,
		ReviewCount: count,
	}))
}

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

type firestoreServiceRepository struct {
	client *firestore.Client
}

func NewFirestoreServiceRepository(client *firestore.Client) repository.ServiceRepository {
	return &firestoreServiceRepository{
		client: client,
	}
}

func (r *firestoreServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	if service.Images == nil {
		service.Images = []string{}
	}
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	if _, err := r.client.Collection(servicesCollection).Doc(service.ID).Set(ctx, service); err != nil {
		return errors.Internal("Failed to create service", err)
	}
	return nil
}

func (r *firestoreServiceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	doc, err := r.client.Collection(servicesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError("Service", err)
	}

	var service entity.Service
	if err := doc.DataTo(&service); err != nil {
		return nil, errors.Internal("Failed to parse service data", err)
	}
	return &service, nil
}

// List pushes equality filters to Firestore and applies the text and price
// filters in process, since Firestore has no substring search.
func (r *firestoreServiceRepository) List(ctx context.Context, filter entity.ServiceFilter, limit, offset int) ([]*entity.Service, int64, error) {
	query := r.client.Collection(servicesCollection).Query
	if filter.ProviderID != "" {
		query = query.Where("providerId", "==", filter.ProviderID)
	}
	if filter.ActiveOnly {
		query = query.Where("isActive", "==", true)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	all, err := decodeAll[entity.Service](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list services", err)
	}

	matched := make([]*entity.Service, 0, len(all))
	for _, s := range all {
		if filter.Matches(s) {
			matched = append(matched, s)
		}
	}

	return pageSlice(matched, limit, offset), int64(len(matched)), nil
}

func (r *firestoreServiceRepository) Update(ctx context.Context, service *entity.Service) error {
	service.UpdatedAt = time.Now()

	updates := []firestore.Update{
		{Path: "title", Value: service.Title},
		{Path: "description", Value: service.Description},
		{Path: "category", Value: service.Category},
		{Path: "price", Value: service.Price},
		{Path: "priceUnit", Value: service.PriceUnit},
		{Path: "location", Value: service.Location},
		{Path: "images", Value: service.Images},
		{Path: "isActive", Value: service.IsActive},
		{Path: "updatedAt", Value: service.UpdatedAt},
	}

	if _, err := r.client.Collection(servicesCollection).Doc(service.ID).Update(ctx, updates); err != nil {
		return readError("Service", err)
	}
	return nil
}

func (r *firestoreServiceRepository) Delete(ctx context.Context, id string) error {
	ref := r.client.Collection(servicesCollection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return readError("Service", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete service", err)
	}
	return nil
}

func (r *firestoreServiceRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	_, err := r.client.Collection(servicesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "rating", Value: rating},
		{Path: "reviewCount", Value: reviewCount},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return readError("Service", err)
	}
	return nil
}

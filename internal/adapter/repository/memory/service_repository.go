package memory

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type serviceRepository struct {
	store *Store
}

func NewServiceRepository(store *Store) repository.ServiceRepository {
	return &serviceRepository{store: store}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if service.ID == "" {
		service.ID = newID()
	}
	if service.Images == nil {
		service.Images = []string{}
	}
	now := r.store.now()
	service.CreatedAt = now
	service.UpdatedAt = now

	r.store.services.put(service.ID, cloneService(service))
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.services.get(id)
	if !ok {
		return nil, errors.NotFound("Service", nil)
	}
	return cloneService(s), nil
}

func (r *serviceRepository) List(ctx context.Context, filter entity.ServiceFilter, limit, offset int) ([]*entity.Service, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.Service
	for _, s := range r.store.services.values() {
		if filter.Matches(s) {
			matched = append(matched, s)
		}
	}
	newestFirst(matched, func(s *entity.Service) time.Time { return s.CreatedAt })

	out := []*entity.Service{}
	for _, s := range page(matched, limit, offset) {
		out = append(out, cloneService(s))
	}
	return out, int64(len(matched)), nil
}

// Update replaces the editable fields; the rating aggregate is preserved.
func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.services.get(service.ID)
	if !ok {
		return errors.NotFound("Service", nil)
	}

	service.Rating = existing.Rating
	service.ReviewCount = existing.ReviewCount
	service.CreatedAt = existing.CreatedAt
	service.UpdatedAt = r.store.now()
	r.store.services.put(service.ID, cloneService(service))
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.services.remove(id) {
		return errors.NotFound("Service", nil)
	}
	return nil
}

func (r *serviceRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.services.get(id)
	if !ok {
		return errors.NotFound("Service", nil)
	}
	s.Rating = rating
	s.ReviewCount = reviewCount
	s.UpdatedAt = r.store.now()
	return nil
}

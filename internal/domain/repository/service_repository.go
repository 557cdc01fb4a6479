package repository

import (
	"context"

	"eventhub/internal/domain/entity"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	List(ctx context.Context, filter entity.ServiceFilter, limit, offset int) ([]*entity.Service, int64, error)
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id string) error

	// UpdateRating writes only the derived aggregate fields.
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
}

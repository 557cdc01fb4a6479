package repository

import (
	"context"

	"eventhub/internal/domain/entity"
)

type UserRepository interface {
	// Create fails with a CONFLICT error when the email is already registered.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, role entity.Role, limit, offset int) ([]*entity.User, int64, error)
}

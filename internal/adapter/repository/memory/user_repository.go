package memory

import (
	"context"
	"strings"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.store.usersByEmail[email]; taken {
		return errors.Conflict("Email already registered", nil)
	}

	if user.ID == "" {
		user.ID = newID()
	}
	now := r.store.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.store.users.put(user.ID, cloneUser(user))
	r.store.usersByEmail[email] = user.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users.get(id)
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(r.store.users.items[id]), nil
}

func (r *userRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.store.users.get(id); ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

// Update persists profile and password changes. Email is immutable.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.users.get(user.ID)
	if !ok {
		return errors.NotFound("User", nil)
	}

	user.Email = existing.Email
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.store.now()
	r.store.users.put(user.ID, cloneUser(user))
	return nil
}

func (r *userRepository) List(ctx context.Context, role entity.Role, limit, offset int) ([]*entity.User, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.User
	for _, u := range r.store.users.values() {
		if role == "" || u.Role == role {
			matched = append(matched, u)
		}
	}
	newestFirst(matched, func(u *entity.User) time.Time { return u.CreatedAt })

	var out []*entity.User
	for _, u := range page(matched, limit, offset) {
		out = append(out, cloneUser(u))
	}
	return out, int64(len(matched)), nil
}

package usecase

import (
	"context"
	"strings"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/internal/domain/service"
	"eventhub/pkg/errors"
	"eventhub/pkg/utils"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

func NewUserUseCase(userRepo repository.UserRepository, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	FirstName    string
	LastName     string
	Phone        string
	Bio          string
	AvatarURL    string
	BusinessName string
	Location     string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&user.FirstName, input.FirstName)
	set(&user.LastName, input.LastName)
	set(&user.Phone, input.Phone)
	set(&user.Bio, input.Bio)
	set(&user.AvatarURL, input.AvatarURL)
	set(&user.BusinessName, input.BusinessName)
	set(&user.Location, input.Location)

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !uc.hasher.Compare(user.PasswordHash, currentPassword) {
		return errors.Unauthorized("Current password is incorrect", nil)
	}
	if currentPassword == newPassword {
		return errors.BadRequest("New password must differ from the current one", nil)
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}
	user.PasswordHash = hash

	return uc.userRepo.Update(ctx, user)
}

func (uc *UserUseCase) GetPublicProfile(ctx context.Context, userID string) (*entity.PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// ListUsers is the admin directory. An empty role lists everyone.
func (uc *UserUseCase) ListUsers(ctx context.Context, caller service.Caller, role string, page utils.PaginationParams) ([]*entity.User, int64, error) {
	if err := service.RequireRole(caller, "list users", entity.RoleAdmin); err != nil {
		return nil, 0, err
	}

	var filter entity.Role
	if role != "" {
		parsed, ok := entity.ParseRole(role)
		if !ok {
			return nil, 0, errors.BadRequest("Invalid role: "+role, nil)
		}
		filter = parsed
	}

	return uc.userRepo.List(ctx, filter, page.PageSize, page.Offset)
}

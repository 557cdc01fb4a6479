package usecase

import (
	"context"
	"strings"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

func NewAuthUseCase(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Role         string
	Phone        string
	BusinessName string
	Location     string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// registrableRole resolves the requested role. Admin accounts cannot be
// self-registered.
func registrableRole(raw string) (entity.Role, error) {
	if strings.TrimSpace(raw) == "" {
		return entity.RoleCustomer, nil
	}

	role, ok := entity.ParseRole(raw)
	if !ok || role == entity.RoleAdmin {
		return "", errors.BadRequest("Role must be customer or service_provider", nil)
	}
	return role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role, err := registrableRole(input.Role)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already registered", nil)
	} else if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        input.Phone,
		BusinessName: input.BusinessName,
		Location:     input.Location,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}

	if !uc.hasher.Compare(user.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Me returns the caller's own account.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

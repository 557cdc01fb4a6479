package entity

import (
	"strings"
	"time"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleServiceProvider Role = "service_provider"
	RoleAdmin           Role = "admin"
)

// ParseRole returns the Role for s, or false when s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleServiceProvider:
		return RoleServiceProvider, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

type User struct {
	ID           string `json:"id" firestore:"id"`
	FirstName    string `json:"first_name" firestore:"firstName"`
	LastName     string `json:"last_name" firestore:"lastName"`
	Email        string `json:"email" firestore:"email"`
	PasswordHash string `json:"-" firestore:"passwordHash"`
	Role         Role   `json:"role" firestore:"role"`

	Phone        string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio          string `json:"bio,omitempty" firestore:"bio,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	BusinessName string `json:"business_name,omitempty" firestore:"businessName,omitempty"`
	Location     string `json:"location,omitempty" firestore:"location,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSummary is the public projection embedded in other documents' responses.
type UserSummary struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         Role   `json:"role"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		AvatarURL:    u.AvatarURL,
		BusinessName: u.BusinessName,
	}
}

// PublicProfile is what anyone may see about a user. It omits contact details.
type PublicProfile struct {
	UserSummary
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		UserSummary: *u.Summary(),
		Bio:         u.Bio,
		Location:    u.Location,
		CreatedAt:   u.CreatedAt,
	}
}

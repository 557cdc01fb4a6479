package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventhub/internal/domain/entity"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an EventHub access token.
type Claims struct {
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// JWTManager issues and verifies HS256 access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL is the lifetime of tokens issued by this manager.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for user and returns it with its expiry.
func (m *JWTManager) Issue(user *entity.User) (string, time.Time, error) {
	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)

	claims := Claims{
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses raw and returns its claims. Expired, tampered or malformed
// tokens all yield ErrInvalidToken.
func (m *JWTManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

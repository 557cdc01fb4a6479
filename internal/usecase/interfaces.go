package usecase

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/infrastructure/events"
	"eventhub/pkg/logger"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *entity.User) (string, time.Time, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// EventPublisher delivers domain events. Publishing is best-effort: use cases
// log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// RateLimiter reports whether userID may perform action now, and if not, how
// long to wait.
type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

func publish(ctx context.Context, publisher EventPublisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.LogSideEffectError("publish "+event.Type, event.ID, err)
	}
}

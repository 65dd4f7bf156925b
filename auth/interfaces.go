//go:generate mockgen -package=auth -destination=mock.go -source=interfaces.go

package auth

import (
	"context"
	"time"

	"moodiary/models"
)

// ICredentialCache keeps, per key, the set of tokens that are still valid.
type ICredentialCache interface {
	Add(ctx context.Context, key, token string, ttl time.Duration) error
	AddIfTracked(ctx context.Context, key, token string, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]string, error)
	Delete(ctx context.Context, key string) error
	MarkRevoked(ctx context.Context, key string, at time.Time, ttl time.Duration) error
	RevokedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// IUserStore is the subset of the user repository the auth flow relies on.
type IUserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalIdentity(ctx context.Context, provider, providerUserID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// IProfileStore is the subset of the profile repository the auth flow relies on.
type IProfileStore interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Create(ctx context.Context, userID uint) (*models.Profile, error)
}

// IRoleStore resolves the role assigned to new users.
type IRoleStore interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
}

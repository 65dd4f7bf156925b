package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moodiary/models"
)

// ExternalProfile is what a provider tells us about a user on first sign in.
type ExternalProfile struct {
	UserName string
	Email    *string
}

// Resolver maps an external identity onto a local user.
type Resolver struct {
	users       IUserStore
	profiles    IProfileStore
	roles       IRoleStore
	defaultRole string
}

func NewResolver(users IUserStore, profiles IProfileStore, roles IRoleStore, defaultRole string) *Resolver {
	return &Resolver{
		users:       users,
		profiles:    profiles,
		roles:       roles,
		defaultRole: defaultRole,
	}
}

// FindOrCreate returns the user bound to (provider, providerUserID),
// creating it on first sign in. A deactivated user gets ErrInactiveUser.
// A concurrent create of the same identity is resolved by looking the user up
// again.
func (r *Resolver) FindOrCreate(ctx context.Context, provider, providerUserID string, profile ExternalProfile) (*models.User, error) {
	const op = "Resolver.FindOrCreate"
	user, err := r.users.GetByExternalIdentity(ctx, provider, providerUserID)
	if err == nil {
		return activeOnly(user)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("[%s] Fail to look up user, err=%w", op, err)
	}

	user = &models.User{
		UserName:       profile.UserName,
		OAuthProvider:  provider,
		ProviderUserID: providerUserID,
		Email:          profile.Email,
		Gender:         models.GenderOther,
		IsActive:       true,
	}
	if role, err := r.defaultRoleOf(ctx); err != nil {
		return nil, fmt.Errorf("[%s] Fail to resolve default role, err=%w", op, err)
	} else if role != nil {
		user.RoleID = &role.ID
		user.Role = role
	}

	err = r.users.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, fmt.Errorf("[%s] Fail to create user, err=%w", op, err)
	}

	existing, lookupErr := r.users.GetByExternalIdentity(ctx, provider, providerUserID)
	if lookupErr == nil {
		return activeOnly(existing)
	}
	if errors.Is(lookupErr, models.ErrNotFound) {
		return nil, ErrDuplicateIdentity
	}
	return nil, fmt.Errorf("[%s] Fail to look up user after conflict, err=%w", op, lookupErr)
}

func activeOnly(user *models.User) (*models.User, error) {
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (r *Resolver) defaultRoleOf(ctx context.Context) (*models.Role, error) {
	if r.defaultRole == "" {
		return nil, nil
	}
	role, err := r.roles.GetByName(ctx, r.defaultRole)
	if errors.Is(err, models.ErrNotFound) {
		slog.Warn("Default role does not exist", slog.String("role", r.defaultRole))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// EnsureProfile returns the user's profile, creating an empty one if needed.
func (r *Resolver) EnsureProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	const op = "Resolver.EnsureProfile"
	profile, err := r.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("[%s] Fail to get profile, err=%w", op, err)
	}
	profile, err = r.profiles.Create(ctx, userID)
	if errors.Is(err, models.ErrConflict) {
		profile, err = r.profiles.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create profile, err=%w", op, err)
	}
	return profile, nil
}

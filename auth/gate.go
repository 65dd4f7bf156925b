package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"moodiary/models"
)

// ExtractBearer returns the token of an "Authorization: Bearer <t>" header.
func ExtractBearer(header string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

// Gate authenticates a request from its Authorization header.
type Gate struct {
	sessions *SessionManager
	users    IUserStore
}

func NewGate(sessions *SessionManager, users IUserStore) *Gate {
	return &Gate{sessions: sessions, users: users}
}

// Authenticate stops at the first failing check. With no roles any active
// user passes.
func (g *Gate) Authenticate(ctx context.Context, header string, roles ...string) (*models.User, error) {
	const op = "Gate.Authenticate"
	token, err := ExtractBearer(header)
	if err != nil {
		return nil, err
	}
	claims, err := g.sessions.issuer.Validate(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenAccess {
		return nil, ErrTokenNotVerified
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	if err := g.sessions.checkTracked(ctx, userID, TokenAccess, token, claims); err != nil {
		return nil, err
	}

	user, err := g.users.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to load user, err=%w", op, err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	if len(roles) > 0 && (user.Role == nil || !lo.Contains(roles, user.Role.Name)) {
		return nil, ErrInsufficientRole
	}
	return user, nil
}

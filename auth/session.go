package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"moodiary/models"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProviderTokens are the tokens an external provider handed out on login.
type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
}

// SessionManager ties the issuer to the credential cache: it records issued
// tokens, rotates access tokens and revokes sessions.
type SessionManager struct {
	issuer *Issuer
	cache  ICredentialCache
	users  IUserStore
	now    func() time.Time
}

func NewSessionManager(issuer *Issuer, cache ICredentialCache, users IUserStore) *SessionManager {
	return &SessionManager{
		issuer: issuer,
		cache:  cache,
		users:  users,
		now:    issuer.options.Now,
	}
}

// IssuePair mints an access/refresh pair and starts tracking both.
func (m *SessionManager) IssuePair(ctx context.Context, userID uint) (*TokenPair, error) {
	const op = "SessionManager.IssuePair"
	subject := strconv.FormatUint(uint64(userID), 10)
	pair := &TokenPair{}
	for _, kind := range []TokenKind{TokenAccess, TokenRefresh} {
		token, err := m.issuer.Mint(subject, kind, 0)
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to mint %s token, err=%w", op, kind, err)
		}
		if err := m.cache.Add(ctx, TokenKey(userID, kind, ""), token, m.issuer.TTL(kind)); err != nil {
			return nil, fmt.Errorf("[%s] Fail to track %s token, err=%w", op, kind, err)
		}
		if kind == TokenAccess {
			pair.AccessToken = token
		} else {
			pair.RefreshToken = token
		}
	}
	return pair, nil
}

// TrackProviderTokens records provider tokens next to a first-party session.
// A kind whose first-party set is empty is skipped, so provider tokens are
// tracked only alongside a session.
func (m *SessionManager) TrackProviderTokens(ctx context.Context, userID uint, provider string, tokens ProviderTokens) error {
	const op = "SessionManager.TrackProviderTokens"
	for kind, token := range map[TokenKind]string{TokenAccess: tokens.AccessToken, TokenRefresh: tokens.RefreshToken} {
		if token == "" {
			continue
		}
		session, err := m.cache.Get(ctx, TokenKey(userID, kind, ""))
		if err != nil {
			return fmt.Errorf("[%s] Fail to get %s session, err=%w", op, kind, err)
		}
		if len(session) == 0 {
			continue
		}
		if err := m.cache.Add(ctx, TokenKey(userID, kind, provider), token, m.issuer.TTL(kind)); err != nil {
			return fmt.Errorf("[%s] Fail to track provider %s token, err=%w", op, kind, err)
		}
	}
	return nil
}

// Refresh exchanges a tracked refresh token for a new access token.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "SessionManager.Refresh"
	claims, err := m.issuer.Validate(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenRefresh {
		return "", ErrWrongTokenType
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}
	if err := m.checkTracked(ctx, userID, TokenRefresh, refreshToken, claims); err != nil {
		return "", err
	}
	user, err := m.users.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to load user, err=%w", op, err)
	}
	if !user.IsActive {
		return "", ErrInactiveUser
	}
	accessToken, err := m.issuer.Mint(claims.Subject, TokenAccess, 0)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to mint access token, err=%w", op, err)
	}
	// The existing entry keeps its expiry window.
	if err := m.cache.AddIfTracked(ctx, TokenKey(userID, TokenAccess, ""), accessToken, m.issuer.TTL(TokenAccess)); err != nil {
		return "", fmt.Errorf("[%s] Fail to track access token, err=%w", op, err)
	}
	return accessToken, nil
}

// Revoke drops every tracked first-party and provider token of the user and
// records when it happened, so tokens issued before now stop working even
// though their sets are gone.
func (m *SessionManager) Revoke(ctx context.Context, userID uint, provider string) error {
	const op = "SessionManager.Revoke"
	now := m.now()
	for _, kind := range []TokenKind{TokenAccess, TokenRefresh} {
		keys := []string{TokenKey(userID, kind, "")}
		if provider != "" {
			keys = append(keys, TokenKey(userID, kind, provider))
		}
		for _, key := range keys {
			if err := m.cache.Delete(ctx, key); err != nil {
				return fmt.Errorf("[%s] Fail to delete tokens, key=%s, err=%w", op, key, err)
			}
		}
		if err := m.cache.MarkRevoked(ctx, revokedKey(userID, kind), now, m.issuer.TTL(kind)); err != nil {
			return fmt.Errorf("[%s] Fail to mark %s tokens revoked, err=%w", op, kind, err)
		}
	}
	return nil
}

// checkTracked rejects a token that the cache no longer considers valid.
// A non-empty set is authoritative. An empty set falls back to the last
// revocation time.
func (m *SessionManager) checkTracked(ctx context.Context, userID uint, kind TokenKind, token string, claims *Claims) error {
	const op = "SessionManager.checkTracked"
	valid, err := m.cache.Get(ctx, TokenKey(userID, kind, ""))
	if err != nil {
		return fmt.Errorf("[%s] Fail to get valid tokens, err=%w", op, err)
	}
	if len(valid) > 0 {
		if lo.Contains(valid, token) {
			return nil
		}
		return ErrSessionRevoked
	}
	revokedAt, ok, err := m.cache.RevokedAt(ctx, revokedKey(userID, kind))
	if err != nil {
		return fmt.Errorf("[%s] Fail to get revocation time, err=%w", op, err)
	}
	if ok && claims.IssuedAt != nil && !claims.IssuedAt.Time.After(revokedAt) {
		return ErrSessionRevoked
	}
	return nil
}

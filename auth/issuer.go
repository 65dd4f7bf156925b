package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

func (k TokenKind) Valid() bool {
	return k == TokenAccess || k == TokenRefresh
}

// TokenKey builds the credential cache key for a user's tokens of the given
// kind, optionally scoped to an external provider.
func TokenKey(userID uint, kind TokenKind, provider string) string {
	if provider == "" {
		return fmt.Sprintf("user:%d:%s", userID, kind)
	}
	return fmt.Sprintf("user:%d:%s:%s", userID, kind, provider)
}

func revokedKey(userID uint, kind TokenKind) string {
	return TokenKey(userID, kind, "revoked_at")
}

// Claims is the payload of a first-party session token.
type Claims struct {
	Type TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid subject %q", ErrTokenNotVerified, c.Subject)
	}
	return uint(id), nil
}

// Issuer mints and validates HS256 session tokens.
type Issuer struct {
	secret  []byte
	options IssuerOptions
}

type IssuerOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

type IssuerOption func(*IssuerOptions)

func WithAccessTTL(d time.Duration) IssuerOption {
	return func(o *IssuerOptions) {
		o.AccessTTL = d
	}
}

func WithRefreshTTL(d time.Duration) IssuerOption {
	return func(o *IssuerOptions) {
		o.RefreshTTL = d
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(o *IssuerOptions) {
		o.Now = now
	}
}

func NewIssuer(secret string, opts ...IssuerOption) (*Issuer, error) {
	const op = "NewIssuer"
	if secret == "" {
		return nil, fmt.Errorf("[%s] Secret must not be empty", op)
	}
	options := IssuerOptions{
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
		Now:        time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Issuer{secret: []byte(secret), options: options}, nil
}

// TTL returns the default lifetime of the given kind.
func (i *Issuer) TTL(kind TokenKind) time.Duration {
	if kind == TokenRefresh {
		return i.options.RefreshTTL
	}
	return i.options.AccessTTL
}

// Mint signs a token for subject. A zero ttl falls back to the kind's default.
func (i *Issuer) Mint(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	const op = "Issuer.Mint"
	if !kind.Valid() {
		return "", fmt.Errorf("[%s] Unknown token kind %q", op, kind)
	}
	if ttl <= 0 {
		ttl = i.TTL(kind)
	}
	now := i.options.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to sign token, err=%w", op, err)
	}
	return signed, nil
}

// Validate checks signature, structure and expiry. Cache membership is not
// checked here.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.options.Now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenNotVerified, err)
	}
	if !claims.Type.Valid() || claims.Subject == "" {
		return nil, ErrTokenNotVerified
	}
	return claims, nil
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testSecret = "test-secret"

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestIssuer(t *testing.T, now func() time.Time) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(testSecret,
		WithAccessTTL(30*time.Minute),
		WithRefreshTTL(24*time.Hour),
		WithClock(now),
	)
	require.NoError(t, err)
	return issuer
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewIssuer(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := NewIssuer("")
	assert.Error(t, err)

	issuer, err := NewIssuer("secret")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, issuer.TTL(TokenAccess))
	assert.Equal(t, 14*24*time.Hour, issuer.TTL(TokenRefresh))
}

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "user:7:access", TokenKey(7, TokenAccess, ""))
	assert.Equal(t, "user:7:refresh:kakao", TokenKey(7, TokenRefresh, "kakao"))
	assert.Equal(t, "user:7:access:revoked_at", revokedKey(7, TokenAccess))
}

func TestIssuer_MintValidate(t *testing.T) {
	defer goleak.VerifyNone(t)

	issuer := newTestIssuer(t, fixedClock(testNow))

	tests := []struct {
		name    string
		subject string
		kind    TokenKind
		ttl     time.Duration
		wantExp time.Time
	}{
		{
			name:    "access_default_ttl",
			subject: "42",
			kind:    TokenAccess,
			wantExp: testNow.Add(30 * time.Minute),
		},
		{
			name:    "refresh_default_ttl",
			subject: "42",
			kind:    TokenRefresh,
			wantExp: testNow.Add(24 * time.Hour),
		},
		{
			name:    "explicit_ttl",
			subject: "1",
			kind:    TokenAccess,
			ttl:     time.Minute,
			wantExp: testNow.Add(time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := issuer.Mint(tt.subject, tt.kind, tt.ttl)
			require.NoError(t, err)

			claims, err := issuer.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, tt.subject, claims.Subject)
			assert.Equal(t, tt.kind, claims.Type)
			assert.True(t, tt.wantExp.Equal(claims.ExpiresAt.Time))
			assert.True(t, testNow.Equal(claims.IssuedAt.Time))
		})
	}
}

func TestIssuer_MintUnknownKind(t *testing.T) {
	issuer := newTestIssuer(t, fixedClock(testNow))
	_, err := issuer.Mint("1", TokenKind("id"), 0)
	assert.Error(t, err)
}

func TestIssuer_Validate(t *testing.T) {
	defer goleak.VerifyNone(t)

	issuer := newTestIssuer(t, fixedClock(testNow))
	other, err := NewIssuer("other-secret", WithClock(fixedClock(testNow)))
	require.NoError(t, err)
	past := newTestIssuer(t, fixedClock(testNow.Add(-time.Hour)))

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name: "expired",
			token: func() string {
				token, err := past.Mint("1", TokenAccess, 0)
				require.NoError(t, err)
				return token
			},
			wantErr: ErrTokenExpired,
		},
		{
			name: "wrong_secret",
			token: func() string {
				token, err := other.Mint("1", TokenAccess, 0)
				require.NoError(t, err)
				return token
			},
			wantErr: ErrTokenNotVerified,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.jwt" },
			wantErr: ErrTokenNotVerified,
		},
		{
			name: "wrong_algorithm",
			token: func() string {
				return sign(jwt.SigningMethodHS512, []byte(testSecret), Claims{
					Type: TokenAccess,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "1",
						ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrTokenNotVerified,
		},
		{
			name: "missing_expiry",
			token: func() string {
				return sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
					Type:             TokenAccess,
					RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
				})
			},
			wantErr: ErrTokenNotVerified,
		},
		{
			name: "unknown_type",
			token: func() string {
				return sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
					Type: "id",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "1",
						ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrTokenNotVerified,
		},
		{
			name: "missing_subject",
			token: func() string {
				return sign(jwt.SigningMethodHS256, []byte(testSecret), Claims{
					Type: TokenAccess,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrTokenNotVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Validate(tt.token())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestClaims_UserID(t *testing.T) {
	id, err := (&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "12"}}).UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	_, err = (&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}).UserID()
	assert.ErrorIs(t, err, ErrTokenNotVerified)
}

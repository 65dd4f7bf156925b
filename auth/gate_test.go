package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"moodiary/models"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc", want: "abc"},
		{name: "lowercase_scheme", header: "bearer abc", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "scheme_only", header: "Bearer", wantErr: true},
		{name: "blank_token", header: "Bearer   ", wantErr: true},
		{name: "basic", header: "Basic dXNlcjpwYXNz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGate_Authenticate(t *testing.T) {
	defer goleak.VerifyNone(t)

	issuer := newTestIssuer(t, fixedClock(testNow))
	access, err := issuer.Mint("3", TokenAccess, 0)
	require.NoError(t, err)
	refresh, err := issuer.Mint("3", TokenRefresh, 0)
	require.NoError(t, err)
	badSubject, err := issuer.Mint("three", TokenAccess, 0)
	require.NoError(t, err)
	expired, err := newTestIssuer(t, fixedClock(testNow.Add(-2*time.Hour))).Mint("3", TokenAccess, 0)
	require.NoError(t, err)

	userRole := &models.Role{Name: models.RoleUser}
	activeUser := &models.User{IsActive: true, Role: userRole}
	activeUser.ID = 3

	tracked := func(cache *MockICredentialCache) {
		cache.EXPECT().Get(gomock.Any(), "user:3:access").Return([]string{access}, nil)
	}

	tests := []struct {
		name    string
		header  string
		roles   []string
		setup   func(cache *MockICredentialCache, users *MockIUserStore)
		wantErr error
	}{
		{
			name:   "valid_token",
			header: "Bearer " + access,
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				tracked(cache)
				users.EXPECT().GetByID(gomock.Any(), uint(3)).Return(activeUser, nil)
			},
		},
		{
			name:   "role_allowed",
			header: "Bearer " + access,
			roles:  []string{models.RoleAdmin, models.RoleUser},
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				tracked(cache)
				users.EXPECT().GetByID(gomock.Any(), uint(3)).Return(activeUser, nil)
			},
		},
		{
			name:    "missing_header",
			header:  "",
			setup:   func(cache *MockICredentialCache, users *MockIUserStore) {},
			wantErr: ErrUnauthenticated,
		},
		{
			name:    "expired",
			header:  "Bearer " + expired,
			setup:   func(cache *MockICredentialCache, users *MockIUserStore) {},
			wantErr: ErrTokenExpired,
		},
		{
			name:    "refresh_token_used",
			header:  "Bearer " + refresh,
			setup:   func(cache *MockICredentialCache, users *MockIUserStore) {},
			wantErr: ErrTokenNotVerified,
		},
		{
			name:    "non_numeric_subject",
			header:  "Bearer " + badSubject,
			setup:   func(cache *MockICredentialCache, users *MockIUserStore) {},
			wantErr: ErrTokenNotVerified,
		},
		{
			name:   "not_in_tracked_set",
			header: "Bearer " + access,
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				cache.EXPECT().Get(gomock.Any(), "user:3:access").Return([]string{"other"}, nil)
			},
			wantErr: ErrSessionRevoked,
		},
		{
			name:   "logged_out",
			header: "Bearer " + access,
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				cache.EXPECT().Get(gomock.Any(), "user:3:access").Return([]string{}, nil)
				cache.EXPECT().RevokedAt(gomock.Any(), "user:3:access:revoked_at").Return(testNow.Add(time.Second), true, nil)
			},
			wantErr: ErrSessionRevoked,
		},
		{
			name:   "user_not_found",
			header: "Bearer " + access,
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				tracked(cache)
				users.EXPECT().GetByID(gomock.Any(), uint(3)).Return(nil, models.ErrNotFound)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:   "inactive_user",
			header: "Bearer " + access,
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				tracked(cache)
				users.EXPECT().GetByID(gomock.Any(), uint(3)).Return(&models.User{IsActive: false}, nil)
			},
			wantErr: ErrInactiveUser,
		},
		{
			name:   "role_not_allowed",
			header: "Bearer " + access,
			roles:  []string{models.RoleAdmin},
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				tracked(cache)
				users.EXPECT().GetByID(gomock.Any(), uint(3)).Return(activeUser, nil)
			},
			wantErr: ErrInsufficientRole,
		},
		{
			name:   "user_without_role",
			header: "Bearer " + access,
			roles:  []string{models.RoleUser},
			setup: func(cache *MockICredentialCache, users *MockIUserStore) {
				tracked(cache)
				users.EXPECT().GetByID(gomock.Any(), uint(3)).Return(&models.User{IsActive: true}, nil)
			},
			wantErr: ErrInsufficientRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := NewMockICredentialCache(ctrl)
			users := NewMockIUserStore(ctrl)
			tt.setup(cache, users)

			gate := NewGate(NewSessionManager(issuer, cache, users), users)
			user, err := gate.Authenticate(context.Background(), tt.header, tt.roles...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(3), user.ID)
		})
	}
}

func TestGate_AuthenticateStoreError(t *testing.T) {
	issuer := newTestIssuer(t, fixedClock(testNow))
	access, err := issuer.Mint("3", TokenAccess, 0)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	cache := NewMockICredentialCache(ctrl)
	users := NewMockIUserStore(ctrl)
	cache.EXPECT().Get(gomock.Any(), "user:3:access").Return(nil, errors.New("redis down"))

	gate := NewGate(NewSessionManager(issuer, cache, users), users)
	_, err = gate.Authenticate(context.Background(), "Bearer "+access)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionRevoked)
}

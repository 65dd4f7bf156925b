package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"moodiary/models"
)

func TestResolver_FindOrCreate(t *testing.T) {
	defer goleak.VerifyNone(t)

	existing := &models.User{OAuthProvider: "kakao", ProviderUserID: "100", IsActive: true}
	existing.ID = 1
	userRole := &models.Role{Name: models.RoleUser}
	userRole.ID = 3
	profile := ExternalProfile{UserName: "mood", Email: lo.ToPtr("mood@example.com")}

	tests := []struct {
		name     string
		setup    func(users *MockIUserStore, roles *MockIRoleStore)
		wantID   uint
		wantRole *uint
		wantErr  error
	}{
		{
			name: "existing_user",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(existing, nil)
			},
			wantID: 1,
		},
		{
			name: "new_user_with_default_role",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(nil, models.ErrNotFound)
				roles.EXPECT().GetByName(gomock.Any(), models.RoleUser).Return(userRole, nil)
				users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
					assert.Equal(t, "kakao", u.OAuthProvider)
					assert.Equal(t, "100", u.ProviderUserID)
					assert.Equal(t, "mood", u.UserName)
					assert.Equal(t, "mood@example.com", *u.Email)
					assert.True(t, u.IsActive)
					u.ID = 2
					return nil
				})
			},
			wantID:   2,
			wantRole: lo.ToPtr(uint(3)),
		},
		{
			name: "new_user_missing_default_role",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(nil, models.ErrNotFound)
				roles.EXPECT().GetByName(gomock.Any(), models.RoleUser).Return(nil, models.ErrNotFound)
				users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
					u.ID = 2
					return nil
				})
			},
			wantID: 2,
		},
		{
			name: "concurrent_create_resolves_to_winner",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				gomock.InOrder(
					users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(nil, models.ErrNotFound),
					users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.ErrConflict),
					users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(existing, nil),
				)
				roles.EXPECT().GetByName(gomock.Any(), models.RoleUser).Return(userRole, nil)
			},
			wantID: 1,
		},
		{
			name: "conflict_on_other_column",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(nil, models.ErrNotFound).Times(2)
				users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.ErrConflict)
				roles.EXPECT().GetByName(gomock.Any(), models.RoleUser).Return(userRole, nil)
			},
			wantErr: ErrDuplicateIdentity,
		},
		{
			name: "deactivated_user",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				inactive := *existing
				inactive.IsActive = false
				users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(&inactive, nil)
			},
			wantErr: ErrInactiveUser,
		},
		{
			name: "concurrent_create_resolves_to_deactivated_user",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				inactive := *existing
				inactive.IsActive = false
				gomock.InOrder(
					users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(nil, models.ErrNotFound),
					users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.ErrConflict),
					users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(&inactive, nil),
				)
				roles.EXPECT().GetByName(gomock.Any(), models.RoleUser).Return(userRole, nil)
			},
			wantErr: ErrInactiveUser,
		},
		{
			name: "lookup_error",
			setup: func(users *MockIUserStore, roles *MockIRoleStore) {
				users.EXPECT().GetByExternalIdentity(gomock.Any(), "kakao", "100").Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := NewMockIUserStore(ctrl)
			roles := NewMockIRoleStore(ctrl)
			tt.setup(users, roles)

			r := NewResolver(users, NewMockIProfileStore(ctrl), roles, models.RoleUser)
			user, err := r.FindOrCreate(context.Background(), "kakao", "100", profile)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrDuplicateIdentity) || errors.Is(tt.wantErr, ErrInactiveUser) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
			if tt.wantRole != nil {
				assert.Equal(t, *tt.wantRole, *user.RoleID)
			}
		})
	}
}

func TestResolver_EnsureProfile(t *testing.T) {
	defer goleak.VerifyNone(t)

	stored := &models.Profile{UserID: 7}

	tests := []struct {
		name    string
		setup   func(profiles *MockIProfileStore)
		wantErr bool
	}{
		{
			name: "existing_profile",
			setup: func(profiles *MockIProfileStore) {
				profiles.EXPECT().GetByUserID(gomock.Any(), uint(7)).Return(stored, nil)
			},
		},
		{
			name: "created",
			setup: func(profiles *MockIProfileStore) {
				profiles.EXPECT().GetByUserID(gomock.Any(), uint(7)).Return(nil, models.ErrNotFound)
				profiles.EXPECT().Create(gomock.Any(), uint(7)).Return(stored, nil)
			},
		},
		{
			name: "created_concurrently",
			setup: func(profiles *MockIProfileStore) {
				gomock.InOrder(
					profiles.EXPECT().GetByUserID(gomock.Any(), uint(7)).Return(nil, models.ErrNotFound),
					profiles.EXPECT().Create(gomock.Any(), uint(7)).Return(nil, models.ErrConflict),
					profiles.EXPECT().GetByUserID(gomock.Any(), uint(7)).Return(stored, nil),
				)
			},
		},
		{
			name: "store_error",
			setup: func(profiles *MockIProfileStore) {
				profiles.EXPECT().GetByUserID(gomock.Any(), uint(7)).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			profiles := NewMockIProfileStore(ctrl)
			tt.setup(profiles)

			r := NewResolver(NewMockIUserStore(ctrl), profiles, NewMockIRoleStore(ctrl), models.RoleUser)
			got, err := r.EnsureProfile(context.Background(), 7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(7), got.UserID)
		})
	}
}

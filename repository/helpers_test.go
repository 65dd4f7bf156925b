package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moodiary/models"
)

// setupDB 建立獨立的 sqlite 記憶體資料庫並完成 migration 與角色初始化
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, NewRoleRepository(db).EnsureSeeded(context.Background()))
	return db
}

func createUser(t *testing.T, db *gorm.DB, provider, providerUserID string, email *string) *models.User {
	t.Helper()
	user := &models.User{
		UserName:       "tester",
		OAuthProvider:  provider,
		ProviderUserID: providerUserID,
		Email:          email,
		Gender:         models.GenderOther,
		IsActive:       true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

var strPtr = lo.ToPtr[string]

package repository

import (
	"fmt"

	"gorm.io/gorm"

	"moodiary/models"
)

// AutoMigrate 建立本服務用到的資料表，正式環境的 schema 由外部管理
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.Profile{}, &models.MoodMacroStatus{}, &models.MoodMicroStatus{}); err != nil {
		return fmt.Errorf("[AutoMigrate] Fail to migrate, err=%w", err)
	}
	return nil
}

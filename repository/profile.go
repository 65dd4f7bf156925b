package repository

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"moodiary/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile := new(models.Profile)
	if result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(profile); result.Error != nil {
		return nil, translate(result.Error)
	}
	return profile, nil
}

// Create 建立空白的個人檔案
func (r *ProfileRepository) Create(ctx context.Context, userID uint) (*models.Profile, error) {
	profile := &models.Profile{UserID: userID}
	if result := r.db.WithContext(ctx).Create(profile); result.Error != nil {
		return nil, translate(result.Error)
	}
	return profile, nil
}

// Apply 將 patch 逐欄合併後存回，暱稱重複時回傳 models.ErrConflict
func (r *ProfileRepository) Apply(ctx context.Context, userID uint, patch models.ProfilePatch) (*models.Profile, error) {
	const op = "ProfileRepository.Apply"
	profile := new(models.Profile)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("user_id = ?", userID).First(profile); result.Error != nil {
			return result.Error
		}
		patch.Apply(profile)
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return profile, nil
}

// SetImage 更新大頭貼網址並回傳舊的網址
func (r *ProfileRepository) SetImage(ctx context.Context, userID uint, url string) (*string, error) {
	const op = "ProfileRepository.SetImage"
	var previous *string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := new(models.Profile)
		if result := tx.Where("user_id = ?", userID).First(profile); result.Error != nil {
			return result.Error
		}
		if profile.ProfileImage != nil {
			previous = lo.ToPtr(*profile.ProfileImage)
		}
		return tx.Model(profile).Update("profile_image", url).Error
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return previous, nil
}

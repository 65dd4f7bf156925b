package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"moodiary/models"
)

type MoodRepository struct {
	db *gorm.DB
}

func NewMoodRepository(db *gorm.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

// ListMicro 依 id 排序分頁列出細分心情，並帶出所屬的大分類
func (r *MoodRepository) ListMicro(ctx context.Context, page, size int) ([]models.MoodMicroStatus, int64, error) {
	const op = "MoodRepository.ListMicro"
	var total int64
	if result := r.db.WithContext(ctx).Model(&models.MoodMicroStatus{}).Count(&total); result.Error != nil {
		return nil, 0, fmt.Errorf("[%s] Fail to count moods, err=%w", op, translate(result.Error))
	}
	moods := []models.MoodMicroStatus{}
	result := r.db.WithContext(ctx).
		Preload("MoodMacro").
		Order("id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&moods)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("[%s] Fail to list moods, err=%w", op, translate(result.Error))
	}
	return moods, total, nil
}

func (r *MoodRepository) GetMicro(ctx context.Context, id uint) (*models.MoodMicroStatus, error) {
	mood := new(models.MoodMicroStatus)
	if result := r.db.WithContext(ctx).Preload("MoodMacro").First(mood, id); result.Error != nil {
		return nil, translate(result.Error)
	}
	return mood, nil
}

// CreateMacro 新增大分類與其細分心情
func (r *MoodRepository) CreateMacro(ctx context.Context, macro string, micros ...string) (*models.MoodMacroStatus, error) {
	const op = "MoodRepository.CreateMacro"
	status := &models.MoodMacroStatus{MoodMacro: macro}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(status).Error; err != nil {
			return err
		}
		for _, micro := range micros {
			if err := tx.Create(&models.MoodMicroStatus{MoodMicro: micro, MoodMacroStatusID: status.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return status, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moodiary/models"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	role := new(models.Role)
	if result := r.db.WithContext(ctx).Where("name = ?", name).First(role); result.Error != nil {
		return nil, translate(result.Error)
	}
	return role, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	role := new(models.Role)
	if result := r.db.WithContext(ctx).First(role, id); result.Error != nil {
		return nil, translate(result.Error)
	}
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	roles := []models.Role{}
	if result := r.db.WithContext(ctx).Order("id").Find(&roles); result.Error != nil {
		return nil, translate(result.Error)
	}
	return roles, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	if result := r.db.WithContext(ctx).Create(role); result.Error != nil {
		return translate(result.Error)
	}
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, id uint, patch models.RolePatch) (*models.Role, error) {
	const op = "RoleRepository.Update"
	role := new(models.Role)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.First(role, id); result.Error != nil {
			return result.Error
		}
		changed := patch.Apply(role)
		if len(changed) == 0 {
			return nil
		}
		return tx.Model(role).Select(changed).Updates(role).Error
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return role, nil
}

// EnsureSeeded 建立預設角色，已存在的角色保持不變，可以重複執行
func (r *RoleRepository) EnsureSeeded(ctx context.Context) error {
	const op = "RoleRepository.EnsureSeeded"
	roles := make([]models.Role, len(models.DefaultRoles))
	copy(roles, models.DefaultRoles)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&roles)
	if result.Error != nil {
		return fmt.Errorf("[%s] Fail to seed roles, err=%w", op, translate(result.Error))
	}
	return nil
}

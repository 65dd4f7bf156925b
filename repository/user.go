package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moodiary/models"
)

// withdrawalSuffixLength 是退出會員時附加在 email 與暱稱後的隨機字串長度
const withdrawalSuffixLength = 8

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 取得使用者與其角色，不論是否仍為有效會員
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user := new(models.User)
	if result := r.db.WithContext(ctx).Preload("Role").First(user, id); result.Error != nil {
		return nil, translate(result.Error)
	}
	return user, nil
}

// GetByExternalIdentity 查詢尚未退出的會員，被停用的會員也會回傳
func (r *UserRepository) GetByExternalIdentity(ctx context.Context, provider, providerUserID string) (*models.User, error) {
	user := new(models.User)
	result := r.db.WithContext(ctx).
		Preload("Role").
		Where("oauth_provider = ? AND provider_user_id = ? AND withdrawn_at IS NULL", provider, providerUserID).
		First(user)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return user, nil
}

// Create 新增使用者，違反唯一索引時回傳 models.ErrConflict，關聯的角色不會被寫入
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if result := r.db.WithContext(ctx).Omit(clause.Associations).Create(user); result.Error != nil {
		return translate(result.Error)
	}
	return nil
}

// Update 只更新有變動的欄位
func (r *UserRepository) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	const op = "UserRepository.Update"
	user := new(models.User)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.First(user, id); result.Error != nil {
			return result.Error
		}
		changed := patch.Apply(user)
		if len(changed) == 0 {
			return nil
		}
		return tx.Model(user).Select(changed).Updates(user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return r.GetByID(ctx, id)
}

// Withdraw 將使用者標記為退出，並在 email 與暱稱後加上隨機字串以釋放唯一索引
func (r *UserRepository) Withdraw(ctx context.Context, id uint, reason string, at time.Time) error {
	const op = "UserRepository.Withdraw"
	suffix := "_" + lo.RandomString(withdrawalSuffixLength, lo.AlphanumericCharset)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := new(models.User)
		if result := tx.First(user, id); result.Error != nil {
			return result.Error
		}
		updates := map[string]any{
			"is_active":         false,
			"withdrawn_at":      at,
			"withdrawal_reason": reason,
		}
		if user.Email != nil {
			updates["email"] = *user.Email + suffix
		}
		if result := tx.Model(user).Updates(updates); result.Error != nil {
			return result.Error
		}

		profile := new(models.Profile)
		result := tx.Where("user_id = ?", id).Limit(1).Find(profile)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 || profile.Nickname == nil {
			return nil
		}
		return tx.Model(profile).Update("nickname", *profile.Nickname+suffix).Error
	})
	if err != nil {
		return fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return nil
}

// UpdateActiveStatus 以單一 UPDATE 變更多位使用者的啟用狀態，並回傳更新後的資料
// 已退出的會員不會被重新啟用
func (r *UserRepository) UpdateActiveStatus(ctx context.Context, ids []uint, active bool) ([]models.User, error) {
	const op = "UserRepository.UpdateActiveStatus"
	ids = lo.Uniq(ids)
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id IN ? AND withdrawn_at IS NULL", ids).Update("is_active", active)
		if result.Error != nil {
			return result.Error
		}
		return tx.Preload("Role").Where("id IN ?", ids).Order("id").Find(&users).Error
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, translate(err))
	}
	return users, nil
}

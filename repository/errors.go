package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"moodiary/models"
)

// pgUniqueViolation 是 Postgres 的 unique_violation 錯誤碼
const pgUniqueViolation = "23505"

// translate 將資料庫錯誤轉為 models 定義的錯誤
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	default:
		return err
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// sqlite 沒有開啟錯誤轉換時的訊息
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

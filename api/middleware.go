package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"moodiary/models"
)

const contextKeyUser = "moodiary.user"

// RequestLogger 以 slog 記錄每個請求
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			logger.Error("Request failed", attrs...)
		case status >= 400:
			logger.Warn("Request rejected", attrs...)
		default:
			logger.Info("Request handled", attrs...)
		}
	}
}

// RequireUser 驗證 access token，通過後將使用者存到 gin context
// 有指定 roles 時使用者的角色必須在其中
func (impl *ServerImpl) RequireUser(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "RequireUser"
		user, err := impl.gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"), roles...)
		impl.metrics.RecordGate(outcome(err))
		if err != nil {
			writeError(c, op, err)
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// currentUser 取得 RequireUser 存入的使用者
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(contextKeyUser).(*models.User)
}

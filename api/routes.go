package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moodiary/models"
)

// RegisterRoutes 註冊所有 API
func (impl *ServerImpl) RegisterRoutes(router gin.IRouter) {
	router.Use(impl.metrics.RequestMetrics())

	router.GET("/healthz", impl.GetHealthz)

	authGroup := router.Group("/auth")
	authGroup.GET("/external/login", impl.GetExternalLogin)
	authGroup.GET("/external/callback", impl.ExternalCallback)
	authGroup.POST("/external/callback", impl.ExternalCallback)
	authGroup.POST("/refresh-access-token", impl.PostRefreshAccessToken)
	authGroup.POST("/logout", impl.RequireUser(), impl.PostLogout)

	users := router.Group("/users")
	users.GET("/me", impl.RequireUser(), impl.GetMe)
	users.PATCH("/me", impl.RequireUser(), impl.PatchMe)
	users.PATCH("/me/profile", impl.RequireUser(), impl.PatchMyProfile)
	users.POST("/me/profile/image", impl.RequireUser(), impl.PostMyProfileImage)
	users.POST("/me/withdraw", impl.RequireUser(), impl.PostWithdraw)
	users.PUT("/status", impl.RequireUser(models.RoleAdmin), impl.PutUsersStatus)

	roles := router.Group("/roles")
	roles.GET("", impl.RequireUser(), impl.GetRoles)
	roles.GET("/:id", impl.RequireUser(), impl.GetRole)
	roles.POST("", impl.RequireUser(models.RoleAdmin), impl.PostRole)
	roles.PUT("/:id", impl.RequireUser(models.RoleAdmin), impl.PutRole)

	router.GET("/moods", impl.RequireUser(), impl.GetMoods)
}

// MetricsHandler 回傳 prometheus 的 exposition handler，應掛在不對外的 listener 上
func (impl *ServerImpl) MetricsHandler() http.Handler {
	return impl.metrics.Handler()
}

// Health check
// (GET /healthz)
func (impl *ServerImpl) GetHealthz(c *gin.Context) {
	ctx := c.Request.Context()
	status := map[string]string{"database": "ok", "redis": "ok"}
	healthy := true
	if sqlDB, err := impl.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "unavailable"
		healthy = false
	}
	if err := impl.redisClient.Ping(ctx).Err(); err != nil {
		status["redis"] = "unavailable"
		healthy = false
	}
	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

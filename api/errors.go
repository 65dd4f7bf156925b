package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodiary/adapters/oauth"
	internalS3 "moodiary/adapters/s3"
	"moodiary/auth"
	"moodiary/models"
)

// ErrBadRequest 表示請求內容不合法
var ErrBadRequest = errors.New("bad request")

// ErrorResponse 是所有錯誤回應的格式
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings 依序以 errors.Is 比對，第一個符合的決定回應
var errorMappings = []errorMapping{
	{oauth.ErrInvalidState, http.StatusBadRequest, "INVALID_STATE"},
	{oauth.ErrUnsupportedProvider, http.StatusBadRequest, "UNSUPPORTED_PROVIDER"},
	{auth.ErrInactiveUser, http.StatusBadRequest, "INACTIVE_USER"},
	{internalS3.ErrUnsupportedImageType, http.StatusBadRequest, "INVALID_IMAGE"},
	{ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
	{auth.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{auth.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{auth.ErrTokenNotVerified, http.StatusUnauthorized, "TOKEN_NOT_VERIFIED"},
	{oauth.ErrInvalidAuthorizationCode, http.StatusUnauthorized, "INVALID_AUTHORIZATION_CODE"},
	{oauth.ErrInvalidProviderToken, http.StatusUnauthorized, "INVALID_PROVIDER_TOKEN"},
	{auth.ErrSessionRevoked, http.StatusForbidden, "SESSION_REVOKED"},
	{auth.ErrInsufficientRole, http.StatusForbidden, "INSUFFICIENT_ROLE"},
	{auth.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{auth.ErrWrongTokenType, http.StatusNotFound, "WRONG_TOKEN_TYPE"},
	{models.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{auth.ErrDuplicateIdentity, http.StatusConflict, "DUPLICATE_IDENTITY"},
	{models.ErrConflict, http.StatusConflict, "CONFLICT"},
	{oauth.ErrProviderUnavailable, http.StatusBadGateway, "PROVIDER_UNAVAILABLE"},
}

func lookupError(err error) (errorMapping, bool) {
	if limitErr, ok := internalS3.AsReachLimit(err); ok {
		return errorMapping{limitErr, http.StatusBadRequest, "IMAGE_TOO_LARGE"}, true
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

func errorCode(err error) string {
	if m, ok := lookupError(err); ok {
		return m.code
	}
	return "INTERNAL_ERROR"
}

// writeError 將錯誤轉為 HTTP 回應，無法辨識的錯誤一律記錄後回傳 500
func writeError(c *gin.Context, op string, err error) {
	m, ok := lookupError(err)
	if !ok {
		slog.Error("Unexpected error", slog.String("op", op), slog.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: http.StatusText(http.StatusInternalServerError),
		})
		return
	}
	slog.Debug("Request rejected", slog.String("op", op), slog.String("code", m.code), slog.Any("error", err))
	c.AbortWithStatusJSON(m.status, ErrorResponse{
		Code:    m.code,
		Message: m.target.Error(),
	})
}

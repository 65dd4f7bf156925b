package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"moodiary/adapters/oauth"
	redisAdapter "moodiary/adapters/redis"
	"moodiary/auth"
)

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// callbackParam 優先讀取 form_post 的欄位，其次讀取 query string
func callbackParam(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

// Redirect to the provider's login page
// (GET /auth/external/login)
func (impl *ServerImpl) GetExternalLogin(c *gin.Context) {
	const op = "GetExternalLogin"
	provider, err := impl.providers.Lookup(c.Query("provider"))
	if err != nil {
		writeError(c, op, err)
		return
	}
	state, err := generateID("st")
	if err != nil {
		writeError(c, op, err)
		return
	}
	// state 保存在伺服器端，callback 時取出一次即失效
	record := redisAdapter.StateRecord{
		Provider: string(provider.Name()),
		IssuedAt: impl.now(),
	}
	if err := impl.states.Save(c.Request.Context(), state, record); err != nil {
		writeError(c, op, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, provider.LoginURL(state))
}

// Exchange authorization code
// (GET|POST /auth/external/callback)
func (impl *ServerImpl) ExternalCallback(c *gin.Context) {
	const op = "ExternalCallback"
	resp, provider, err := impl.login(c)
	impl.metrics.RecordLogin(provider, outcome(err))
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[LoginResponse]{
		Data:    *resp,
		Message: "login success",
	})
}

func (impl *ServerImpl) login(c *gin.Context) (*LoginResponse, string, error) {
	const op = "login"
	ctx := c.Request.Context()
	code := callbackParam(c, "code")
	state := callbackParam(c, "state")
	if code == "" {
		return nil, "unknown", fmt.Errorf("%w: missing code", ErrBadRequest)
	}

	// 驗證 state 並從中取回 provider
	record, err := impl.states.Consume(ctx, state)
	if errors.Is(err, redisAdapter.ErrStateNotFound) {
		return nil, "unknown", fmt.Errorf("[%s] %w", op, oauth.ErrInvalidState)
	}
	if err != nil {
		return nil, "unknown", fmt.Errorf("[%s] Fail to consume state, err=%w", op, err)
	}
	if requested := callbackParam(c, "provider"); requested != "" && !strings.EqualFold(requested, record.Provider) {
		return nil, record.Provider, fmt.Errorf("[%s] %w: provider mismatch", op, oauth.ErrInvalidState)
	}
	provider, err := impl.providers.Lookup(record.Provider)
	if err != nil {
		return nil, record.Provider, err
	}

	// 向提供者交換token並取得外部身分
	bundle, err := provider.Exchange(ctx, code, state)
	if err != nil {
		return nil, record.Provider, err
	}
	identity, err := provider.Identify(ctx, bundle)
	if err != nil {
		return nil, record.Provider, err
	}
	if identity.Nickname == "" {
		identity.Nickname = appleUserName(callbackParam(c, "user"))
	}

	// 關聯使用者資料，不存在時建立新的使用者與空白個人檔案
	user, err := impl.resolver.FindOrCreate(ctx, string(identity.Provider), identity.Subject, auth.ExternalProfile{
		UserName: identity.Nickname,
		Email:    identity.Email,
	})
	if err != nil {
		return nil, record.Provider, err
	}
	profile, err := impl.resolver.EnsureProfile(ctx, user.ID)
	if err != nil {
		return nil, record.Provider, err
	}

	// 簽發token
	pair, err := impl.sessions.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, record.Provider, err
	}
	err = impl.sessions.TrackProviderTokens(ctx, user.ID, record.Provider, auth.ProviderTokens{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
	})
	if err != nil {
		return nil, record.Provider, err
	}
	slog.Info("User logged in", slog.Uint64("user", uint64(user.ID)), slog.String("provider", record.Provider))

	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    tokenTypeBearer,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(user),
		Profile:      toProfileResponse(profile),
	}, record.Provider, nil
}

// appleUserName 解析 Apple 第一次登入時以 form_post 附帶的 user 欄位
func appleUserName(raw string) string {
	if raw == "" {
		return ""
	}
	var payload struct {
		Name struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Name.FirstName + " " + payload.Name.LastName)
}

// Refresh access token
// (POST /auth/refresh-access-token)
func (impl *ServerImpl) PostRefreshAccessToken(c *gin.Context) {
	const op = "PostRefreshAccessToken"
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, op, err)
		return
	}
	accessToken, err := impl.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	impl.metrics.RecordRefresh(outcome(err))
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusCreated, DataResponse[AccessTokenResponse]{
		Data: AccessTokenResponse{
			AccessToken: accessToken,
			TokenType:   tokenTypeBearer,
		},
		Message: "access token refreshed",
	})
}

// Revoke every token of the current user
// (POST /auth/logout)
func (impl *ServerImpl) PostLogout(c *gin.Context) {
	const op = "PostLogout"
	user := currentUser(c)
	if err := impl.sessions.Revoke(c.Request.Context(), user.ID, user.OAuthProvider); err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[any]{Message: "logout success"})
}

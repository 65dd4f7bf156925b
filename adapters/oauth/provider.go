package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var (
	ErrUnsupportedProvider      = errors.New("unsupported oauth provider")
	ErrInvalidAuthorizationCode = errors.New("invalid authorization code")
	ErrInvalidProviderToken     = errors.New("invalid provider token")
	ErrProviderUnavailable      = errors.New("oauth provider unavailable")
	ErrInvalidState             = errors.New("invalid oauth state")
)

// ProviderName 是支援的外部登入提供者
type ProviderName string

const (
	Kakao ProviderName = "kakao"
	Apple ProviderName = "apple"
)

// ParseProviderName 將字串轉為 ProviderName，不支援的名稱回傳 ErrUnsupportedProvider
func ParseProviderName(s string) (ProviderName, error) {
	switch name := ProviderName(strings.ToLower(strings.TrimSpace(s))); name {
	case Kakao, Apple:
		return name, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// TokenBundle 是以授權碼交換得到的提供者令牌
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenType    string
	Expiry       time.Time
}

// Identity 是提供者確認過的外部身分
type Identity struct {
	Provider ProviderName
	Subject  string
	Nickname string
	Email    *string
}

type Provider interface {
	Name() ProviderName
	// LoginURL 回傳導向提供者授權頁面的網址
	LoginURL(state string) string
	// Exchange 以授權碼換取令牌，不會重試
	Exchange(ctx context.Context, code, state string) (*TokenBundle, error)
	// Identify 取得令牌所屬的外部身分
	Identify(ctx context.Context, bundle *TokenBundle) (*Identity, error)
}

// ClientConfig 是各提供者共用的 OAuth 用戶端設定
type ClientConfig struct {
	ClientID    string
	RedirectURL string
	// AuthURL 是授權端點的根路徑，authorize、token 等端點掛在其下
	AuthURL string
	Scopes  []string
}

// client 實作授權碼流程中各提供者共用的部分
type client struct {
	config     ClientConfig
	secret     SecretSource
	httpClient *http.Client
	authOpts   []oauth2.AuthCodeOption
}

func newClient(config ClientConfig, secret SecretSource, httpClient *http.Client) client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return client{
		config:     config,
		secret:     secret,
		httpClient: httpClient,
	}
}

func (c *client) oauth2Config(clientSecret string) *oauth2.Config {
	base := strings.TrimRight(c.config.AuthURL, "/")
	return &oauth2.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: clientSecret,
		RedirectURL:  c.config.RedirectURL,
		Scopes:       c.config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/authorize",
			TokenURL:  base + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (c *client) loginURL(state string) string {
	return c.oauth2Config("").AuthCodeURL(state, c.authOpts...)
}

func (c *client) exchange(ctx context.Context, code, state string) (*TokenBundle, error) {
	const op = "Exchange"
	// 每次交換都重新產生 client secret
	clientSecret, err := c.secret.ClientSecret(ctx)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get client secret, err=%w", op, err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth2Config(clientSecret).Exchange(ctx, code, oauth2.SetAuthURLParam("state", state))
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrProviderUnavailable, err)
		}
		return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrInvalidAuthorizationCode, err)
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return nil, fmt.Errorf("[%s] %w, missing access or refresh token", op, ErrInvalidAuthorizationCode)
	}

	bundle := &TokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		bundle.IDToken = idToken
	}
	return bundle, nil
}

// getJSON 以 bearer 令牌發送 GET 請求並解析回應
func (c *client) getJSON(ctx context.Context, endpoint, bearer string, v any) error {
	const op = "getJSON"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("[%s] Fail to create request, err=%w", op, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[%s] %w, err=%v", op, ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("[%s] %w, status code=%d", op, ErrInvalidProviderToken, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("[%s] Fail to decode response body, err=%w", op, err)
	}
	return nil
}

// Registry 是啟動時建立的提供者對照表，建立後不再變動
type Registry struct {
	providers map[ProviderName]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[ProviderName]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name ProviderName) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not configured", ErrUnsupportedProvider, name)
	}
	return p, nil
}

// Lookup 解析名稱後回傳對應的提供者
func (r *Registry) Lookup(name string) (Provider, error) {
	parsed, err := ParseProviderName(name)
	if err != nil {
		return nil, err
	}
	return r.Get(parsed)
}

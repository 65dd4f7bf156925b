package oauth

import (
	"context"
	"crypto"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"
)

const (
	AppleAuthURL = "https://appleid.apple.com/auth"
	AppleIssuer  = "https://appleid.apple.com"
)

type AppleConfig struct {
	ClientConfig
	Issuer string
}

// AppleProvider 透過 ID token 取得使用者身分，公鑰快取在 LRU 中
type AppleProvider struct {
	client
	issuer  string
	keys    *expirable.LRU[string, crypto.PublicKey]
	options AppleOptions
}

type AppleOptions struct {
	KeyCacheSize int
	KeyCacheTTL  time.Duration
	Now          func() time.Time
}

type AppleOption func(*AppleOptions)

// WithKeyCacheTTL 設定公鑰快取的存活時間
func WithKeyCacheTTL(ttl time.Duration) AppleOption {
	return func(o *AppleOptions) {
		o.KeyCacheTTL = ttl
	}
}

// WithAppleClock 設定驗證 ID token 時使用的時間來源
func WithAppleClock(now func() time.Time) AppleOption {
	return func(o *AppleOptions) {
		o.Now = now
	}
}

func NewApple(config AppleConfig, secret SecretSource, httpClient *http.Client, opts ...AppleOption) *AppleProvider {
	options := AppleOptions{
		KeyCacheSize: 16,
		KeyCacheTTL:  24 * time.Hour,
		Now:          time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if config.AuthURL == "" {
		config.AuthURL = AppleAuthURL
	}
	if config.Issuer == "" {
		config.Issuer = AppleIssuer
	}

	c := newClient(config.ClientConfig, secret, httpClient)
	// 要求 name、email 等 scope 時 Apple 只接受 form_post
	if len(config.Scopes) > 0 {
		c.authOpts = append(c.authOpts, oauth2.SetAuthURLParam("response_mode", "form_post"))
	}
	return &AppleProvider{
		client:  c,
		issuer:  config.Issuer,
		keys:    expirable.NewLRU[string, crypto.PublicKey](options.KeyCacheSize, nil, options.KeyCacheTTL),
		options: options,
	}
}

func (a *AppleProvider) Name() ProviderName { return Apple }

func (a *AppleProvider) LoginURL(state string) string {
	return a.loginURL(state)
}

func (a *AppleProvider) Exchange(ctx context.Context, code, state string) (*TokenBundle, error) {
	return a.exchange(ctx, code, state)
}

func (a *AppleProvider) Identify(ctx context.Context, bundle *TokenBundle) (*Identity, error) {
	const op = "AppleProvider.Identify"
	if bundle.IDToken == "" {
		return nil, fmt.Errorf("[%s] %w, missing id_token", op, ErrInvalidProviderToken)
	}
	claims, err := a.VerifyIDToken(ctx, bundle.IDToken, bundle.AccessToken)
	if err != nil {
		return nil, err
	}
	identity := &Identity{Provider: Apple, Subject: claims.Sub}
	if claims.Email != "" {
		email := claims.Email
		identity.Email = &email
	}
	return identity, nil
}

// FetchPublicKeys 取得 Apple 目前的簽章公鑰，以 kid 為索引
func (a *AppleProvider) FetchPublicKeys(ctx context.Context) (map[string]crypto.PublicKey, error) {
	const op = "AppleProvider.FetchPublicKeys"
	var set jose.JSONWebKeySet
	endpoint := strings.TrimRight(a.config.AuthURL, "/") + "/keys"
	if err := a.getJSON(ctx, endpoint, "", &set); err != nil {
		return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrProviderUnavailable, err)
	}
	keys := make(map[string]crypto.PublicKey, len(set.Keys))
	for _, key := range set.Keys {
		if key.KeyID == "" || !key.Valid() {
			continue
		}
		keys[key.KeyID] = key.Key
	}
	return keys, nil
}

// publicKey 優先使用快取，找不到 kid 時重新抓取一次以處理金鑰輪替
func (a *AppleProvider) publicKey(ctx context.Context, kid string) (crypto.PublicKey, error) {
	if key, ok := a.keys.Get(kid); ok {
		return key, nil
	}
	keys, err := a.FetchPublicKeys(ctx)
	if err != nil {
		return nil, err
	}
	for id, key := range keys {
		a.keys.Add(id, key)
	}
	key, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key id %q", ErrInvalidProviderToken, kid)
	}
	return key, nil
}

// VerifyIDToken 驗證 Apple 發出的 ID token (RS256、issuer、audience、到期時間)，
// 有 at_hash 時同時檢查 access token
func (a *AppleProvider) VerifyIDToken(ctx context.Context, rawIDToken, accessToken string) (*AppleIDClaims, error) {
	const op = "AppleProvider.VerifyIDToken"
	jws, err := jose.ParseSigned(rawIDToken, []jose.SignatureAlgorithm{jose.RS256})
	if err != nil {
		return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrInvalidProviderToken, err)
	}
	if len(jws.Signatures) != 1 {
		return nil, fmt.Errorf("[%s] %w, unexpected signature count", op, ErrInvalidProviderToken)
	}
	key, err := a.publicKey(ctx, jws.Signatures[0].Header.KeyID)
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, err)
	}

	verifier := oidc.NewVerifier(a.issuer, &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key}}, &oidc.Config{
		ClientID:             a.config.ClientID,
		SupportedSigningAlgs: []string{oidc.RS256},
		Now:                  a.options.Now,
	})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrInvalidProviderToken, err)
	}
	if accessToken != "" && idToken.AccessTokenHash != "" {
		if err := idToken.VerifyAccessToken(accessToken); err != nil {
			return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrInvalidProviderToken, err)
		}
	}

	claims := new(AppleIDClaims)
	if err := idToken.Claims(claims); err != nil {
		return nil, fmt.Errorf("[%s] %w, err=%v", op, ErrInvalidProviderToken, err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("[%s] %w, missing subject", op, ErrInvalidProviderToken)
	}
	return claims, nil
}

package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	KakaoAuthURL     = "https://kauth.kakao.com/oauth"
	KakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

type KakaoConfig struct {
	ClientConfig
	UserInfoURL string
}

type KakaoProvider struct {
	client
	userInfoURL string
}

func NewKakao(config KakaoConfig, secret SecretSource, httpClient *http.Client) *KakaoProvider {
	if config.AuthURL == "" {
		config.AuthURL = KakaoAuthURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = KakaoUserInfoURL
	}
	return &KakaoProvider{
		client:      newClient(config.ClientConfig, secret, httpClient),
		userInfoURL: config.UserInfoURL,
	}
}

func (k *KakaoProvider) Name() ProviderName { return Kakao }

func (k *KakaoProvider) LoginURL(state string) string {
	return k.loginURL(state)
}

func (k *KakaoProvider) Exchange(ctx context.Context, code, state string) (*TokenBundle, error) {
	return k.exchange(ctx, code, state)
}

func (k *KakaoProvider) Identify(ctx context.Context, bundle *TokenBundle) (*Identity, error) {
	info, err := k.FetchIdentity(ctx, bundle.AccessToken)
	if err != nil {
		return nil, err
	}
	identity := &Identity{
		Provider: Kakao,
		Subject:  string(info.ID),
		Nickname: info.Account.Profile.Nickname,
	}
	if info.Account.Email != "" {
		email := info.Account.Email
		identity.Email = &email
	}
	return identity, nil
}

// kakaoID 接受數字或字串形式的 id
type kakaoID string

func (id *kakaoID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = kakaoID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("kakao id must be a number or string, got %s", string(b))
	}
	*id = kakaoID(s)
	return nil
}

// KakaoUserInfo 是 /v2/user/me 回應中用到的欄位
type KakaoUserInfo struct {
	ID          kakaoID `json:"id"`
	ConnectedAt string  `json:"connected_at"`
	Account     struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// FetchIdentity 以提供者的 access token 查詢使用者資訊
func (k *KakaoProvider) FetchIdentity(ctx context.Context, accessToken string) (*KakaoUserInfo, error) {
	const op = "KakaoProvider.FetchIdentity"
	info := new(KakaoUserInfo)
	if err := k.getJSON(ctx, k.userInfoURL, accessToken, info); err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, err)
	}
	if strings.TrimSpace(string(info.ID)) == "" {
		return nil, fmt.Errorf("[%s] %w, missing user id", op, ErrInvalidProviderToken)
	}
	return info, nil
}

package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SecretSource 在每次交換令牌時提供 client secret
type SecretSource interface {
	ClientSecret(ctx context.Context) (string, error)
}

// StaticSecret 是設定檔中固定的 client secret
type StaticSecret string

func (s StaticSecret) ClientSecret(context.Context) (string, error) {
	return string(s), nil
}

// SecretFetcher 從外部密鑰儲存取出指定名稱的密鑰
type SecretFetcher interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

const (
	appleAudience          = "https://appleid.apple.com"
	appleClientSecretValid = 20 * time.Minute
)

// AppleClientSecret 每次呼叫都以 ES256 簽發新的 client secret JWT，
// 私鑰 (PEM) 透過 SecretFetcher 取得且不快取
type AppleClientSecret struct {
	TeamID   string
	ClientID string
	KeyID    string
	// KeyName 是私鑰在密鑰儲存中的名稱
	KeyName string
	Fetcher SecretFetcher
	Now     func() time.Time
}

func (s *AppleClientSecret) ClientSecret(ctx context.Context) (string, error) {
	const op = "AppleClientSecret.ClientSecret"
	pem, err := s.Fetcher.GetSecret(ctx, s.KeyName)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to fetch private key, err=%w", op, err)
	}
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to parse private key, err=%w", op, err)
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	// aud 必須是字串而不是陣列
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": s.TeamID,
		"sub": s.ClientID,
		"aud": appleAudience,
		"iat": now.Unix(),
		"exp": now.Add(appleClientSecretValid).Unix(),
	})
	token.Header["kid"] = s.KeyID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to sign client secret, err=%w", op, err)
	}
	return signed, nil
}

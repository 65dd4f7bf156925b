package api

import "time"

type ServerConfig struct {
	Auth  AuthConfig
	Kakao KakaoConfig
	Apple AppleConfig
	AWS   AWSConfig
	S3    S3Config
	DB    DBConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// Secret 是簽署 access/refresh token 的 HS256 金鑰
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// DefaultRole 是新使用者的預設角色名稱
	DefaultRole string
	// StateTTL 是 OAuth state 的有效時間
	StateTTL time.Duration
	// HTTPTimeout 是呼叫外部提供者的逾時時間
	HTTPTimeout time.Duration
}

type KakaoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	UserInfoURL  string
}

func (c KakaoConfig) Enabled() bool {
	return c.ClientID != ""
}

type AppleConfig struct {
	ClientID    string
	TeamID      string
	KeyID       string
	RedirectURL string
	AuthURL     string
	// PrivateKeySecretName 是 Secrets Manager 中保存 .p8 私鑰的名稱
	PrivateKeySecretName string
}

func (c AppleConfig) Enabled() bool {
	return c.ClientID != ""
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type S3Config struct {
	Endpoint      string
	Bucket        string
	PublicBaseURL string
	// MaxImageSize 是單張圖片的大小上限 (bytes)
	MaxImageSize int64
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
	// AutoMigrate 僅供本機開發使用
	AutoMigrate bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

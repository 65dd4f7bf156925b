package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"moodiary/adapters/oauth"
	redisAdapter "moodiary/adapters/redis"
	internalS3 "moodiary/adapters/s3"
	"moodiary/adapters/secrets"
	"moodiary/auth"
	"moodiary/repository"
)

const (
	defaultStateTTL     = 10 * time.Minute
	defaultHTTPTimeout  = 10 * time.Second
	defaultMaxImageSize = 5 << 20
)

type ServerImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
	providers   *oauth.Registry
	states      *redisAdapter.StateStore
	sessions    *auth.SessionManager
	gate        *auth.Gate
	resolver    *auth.Resolver
	users       *repository.UserRepository
	profiles    *repository.ProfileRepository
	roles       *repository.RoleRepository
	moods       *repository.MoodRepository
	images      *internalS3.ImageStore
	htmlChecker *bluemonday.Policy
	metrics     *Collector
	now         func() time.Time

	config ServerConfig
}

// Dependencies 是 ServerImpl 需要的外部連線，測試時可以替換成本機的實作
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Providers *oauth.Registry
	ImageAPI  internalS3.ObjectAPI
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化AWS設定
	awsOpts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(config.AWS.Region),
	}
	if config.AWS.AccessKeyID != "" {
		awsOpts = append(awsOpts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AWS.AccessKeyID, config.AWS.SecretAccessKey, ""),
		))
	}
	awsConf, err := awsCfg.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to load AWS config, err=%w", op, err)
	}
	s3Client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if config.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	// 初始化外部登入提供者
	providers, err := newProviders(config, secrets.NewManager(secretsmanager.NewFromConfig(awsConf)))
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to initial oauth providers, err=%w", op, err)
	}

	// 初始化資料庫連線
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	gormConfig := &gorm.Config{TranslateError: true}
	if config.DB.Schema != "" {
		gormConfig.NamingStrategy = schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		}
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}

	// 初始化Redis連線
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	return NewServerWithDependencies(config, Dependencies{
		DB:        db,
		Redis:     redisClient,
		Providers: providers,
		ImageAPI:  s3Client,
	})
}

// newProviders 依設定建立有啟用的提供者
func newProviders(config ServerConfig, fetcher oauth.SecretFetcher) (*oauth.Registry, error) {
	timeout := config.Auth.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	var providers []oauth.Provider
	if config.Kakao.Enabled() {
		providers = append(providers, oauth.NewKakao(oauth.KakaoConfig{
			ClientConfig: oauth.ClientConfig{
				ClientID:    config.Kakao.ClientID,
				RedirectURL: config.Kakao.RedirectURL,
				AuthURL:     config.Kakao.AuthURL,
			},
			UserInfoURL: config.Kakao.UserInfoURL,
		}, oauth.StaticSecret(config.Kakao.ClientSecret), httpClient))
	}
	if config.Apple.Enabled() {
		providers = append(providers, oauth.NewApple(oauth.AppleConfig{
			ClientConfig: oauth.ClientConfig{
				ClientID:    config.Apple.ClientID,
				RedirectURL: config.Apple.RedirectURL,
				AuthURL:     config.Apple.AuthURL,
				Scopes:      []string{"name", "email"},
			},
		}, &oauth.AppleClientSecret{
			TeamID:   config.Apple.TeamID,
			ClientID: config.Apple.ClientID,
			KeyID:    config.Apple.KeyID,
			KeyName:  config.Apple.PrivateKeySecretName,
			Fetcher:  fetcher,
		}, httpClient))
	}
	if len(providers) == 0 {
		return nil, errors.New("no oauth provider is configured")
	}
	return oauth.NewRegistry(providers...), nil
}

// NewServerWithDependencies 以現有的連線組裝 ServerImpl，並初始化預設角色
func NewServerWithDependencies(config ServerConfig, deps Dependencies) (*ServerImpl, error) {
	const op = "NewServerWithDependencies"

	var issuerOpts []auth.IssuerOption
	if config.Auth.AccessTTL > 0 {
		issuerOpts = append(issuerOpts, auth.WithAccessTTL(config.Auth.AccessTTL))
	}
	if config.Auth.RefreshTTL > 0 {
		issuerOpts = append(issuerOpts, auth.WithRefreshTTL(config.Auth.RefreshTTL))
	}
	issuer, err := auth.NewIssuer(config.Auth.Secret, issuerOpts...)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create token issuer, err=%w", op, err)
	}

	maxImageSize := config.S3.MaxImageSize
	if maxImageSize <= 0 {
		maxImageSize = defaultMaxImageSize
	}
	images, err := internalS3.NewImageStore(deps.ImageAPI, config.S3.Bucket, config.S3.PublicBaseURL, maxImageSize)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create image store, err=%w", op, err)
	}

	if config.DB.AutoMigrate {
		if err := repository.AutoMigrate(deps.DB); err != nil {
			return nil, fmt.Errorf("[%s] Fail to migrate database, err=%w", op, err)
		}
	}
	roles := repository.NewRoleRepository(deps.DB)
	if err := roles.EnsureSeeded(context.Background()); err != nil {
		return nil, fmt.Errorf("[%s] Fail to seed roles, err=%w", op, err)
	}

	stateTTL := config.Auth.StateTTL
	if stateTTL <= 0 {
		stateTTL = defaultStateTTL
	}
	prefix := redisAdapter.WithStorePrefix(config.Redis.KeyPrefix)
	users := repository.NewUserRepository(deps.DB)
	profiles := repository.NewProfileRepository(deps.DB)
	sessions := auth.NewSessionManager(issuer, redisAdapter.NewCredentialCache(deps.Redis, prefix), users)

	return &ServerImpl{
		db:          deps.DB,
		redisClient: deps.Redis,
		providers:   deps.Providers,
		states:      redisAdapter.NewStateStore(deps.Redis, stateTTL, prefix),
		sessions:    sessions,
		gate:        auth.NewGate(sessions, users),
		resolver:    auth.NewResolver(users, profiles, roles, config.Auth.DefaultRole),
		users:       users,
		profiles:    profiles,
		roles:       roles,
		moods:       repository.NewMoodRepository(deps.DB),
		images:      images,
		htmlChecker: bluemonday.UGCPolicy(),
		metrics:     NewCollector(prometheus.NewRegistry()),
		now:         time.Now,
		config:      config,
	}, nil
}

func (impl *ServerImpl) Close() {
	if err := impl.redisClient.Close(); err != nil {
		slog.Error("Fail to close redis client", slog.Any("error", err))
	}
	if sqlDB, err := impl.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Fail to close database", slog.Any("error", err))
		}
	}
	slog.Info("Server closed")
}

func generateID(prefix string) (string, error) {
	const op = "generateID"
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("[%s] Fail to generate unique id, err=%w", op, err)
	}
	return prefix + "_" + base64.RawURLEncoding.EncodeToString(bytes), nil
}

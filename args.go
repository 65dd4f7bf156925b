package main

import (
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"moodiary/api"
	"moodiary/models"
)

func ParseArgs() Args {
	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")
	pflag.String("metrics-url", "127.0.0.1:9090", "listen address of the prometheus endpoint")
	pflag.String("log-level", "info", "debug, info, warn or error")
	pflag.String("log-format", "text", "text or json")

	// auth config
	pflag.String("auth-secret", "", "HS256 secret of access/refresh tokens")
	pflag.Duration("auth-access-ttl", 30*time.Minute, "")
	pflag.Duration("auth-refresh-ttl", 14*24*time.Hour, "")
	pflag.String("auth-default-role", models.RoleUser, "")
	pflag.Duration("auth-state-ttl", 10*time.Minute, "")
	pflag.Duration("auth-http-timeout", 10*time.Second, "")

	// kakao config
	pflag.String("kakao-client-id", "", "")
	pflag.String("kakao-client-secret", "", "")
	pflag.String("kakao-redirect-url", "", "")
	pflag.String("kakao-auth-url", "", "")
	pflag.String("kakao-user-info-url", "", "")

	// apple config
	pflag.String("apple-client-id", "", "")
	pflag.String("apple-team-id", "", "")
	pflag.String("apple-key-id", "", "")
	pflag.String("apple-redirect-url", "", "")
	pflag.String("apple-auth-url", "", "")
	pflag.String("apple-private-key-secret-name", "", "")

	// aws config
	pflag.String("aws-region", "ap-northeast-2", "")
	pflag.String("aws-access-key-id", "", "")
	pflag.String("aws-secret-access-key", "", "")

	// s3 config
	pflag.String("s3-endpoint", "", "")
	pflag.String("s3-bucket", "", "")
	pflag.String("s3-public-base-url", "", "")
	pflag.Int64("s3-max-image-size", 5<<20, "")

	// db config
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "", "")
	pflag.Bool("db-auto-migrate", false, "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 0, "")
	pflag.String("redis-key-prefix", "moodiary:", "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("MOODIARY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	return Args{
		ServerURL:  viper.GetString("server-url"),
		MetricsURL: viper.GetString("metrics-url"),
		LogLevel:  viper.GetString("log-level"),
		LogFormat: viper.GetString("log-format"),
		ServerConfig: api.ServerConfig{
			Auth: api.AuthConfig{
				Secret:      viper.GetString("auth-secret"),
				AccessTTL:   viper.GetDuration("auth-access-ttl"),
				RefreshTTL:  viper.GetDuration("auth-refresh-ttl"),
				DefaultRole: viper.GetString("auth-default-role"),
				StateTTL:    viper.GetDuration("auth-state-ttl"),
				HTTPTimeout: viper.GetDuration("auth-http-timeout"),
			},
			Kakao: api.KakaoConfig{
				ClientID:     viper.GetString("kakao-client-id"),
				ClientSecret: viper.GetString("kakao-client-secret"),
				RedirectURL:  viper.GetString("kakao-redirect-url"),
				AuthURL:      viper.GetString("kakao-auth-url"),
				UserInfoURL:  viper.GetString("kakao-user-info-url"),
			},
			Apple: api.AppleConfig{
				ClientID:             viper.GetString("apple-client-id"),
				TeamID:               viper.GetString("apple-team-id"),
				KeyID:                viper.GetString("apple-key-id"),
				RedirectURL:          viper.GetString("apple-redirect-url"),
				AuthURL:              viper.GetString("apple-auth-url"),
				PrivateKeySecretName: viper.GetString("apple-private-key-secret-name"),
			},
			AWS: api.AWSConfig{
				Region:          viper.GetString("aws-region"),
				AccessKeyID:     viper.GetString("aws-access-key-id"),
				SecretAccessKey: viper.GetString("aws-secret-access-key"),
			},
			S3: api.S3Config{
				Endpoint:      viper.GetString("s3-endpoint"),
				Bucket:        viper.GetString("s3-bucket"),
				PublicBaseURL: viper.GetString("s3-public-base-url"),
				MaxImageSize:  viper.GetInt64("s3-max-image-size"),
			},
			DB: api.DBConfig{
				User:        viper.GetString("db-user"),
				Password:    viper.GetString("db-password"),
				Host:        viper.GetString("db-host"),
				Port:        viper.GetInt("db-port"),
				Database:    viper.GetString("db-database"),
				Schema:      viper.GetString("db-schema"),
				AutoMigrate: viper.GetBool("db-auto-migrate"),
			},
			Redis: api.RedisConfig{
				Addr:      viper.GetString("redis-addr"),
				Password:  viper.GetString("redis-password"),
				DB:        viper.GetInt("redis-db"),
				KeyPrefix: viper.GetString("redis-key-prefix"),
			},
		},
	}
}

type Args struct {
	ServerURL    string
	MetricsURL   string
	LogLevel     string
	LogFormat    string
	ServerConfig api.ServerConfig
}

// Validate 檢查啟動必要的參數，回傳缺少的參數名稱
func (args Args) Validate() []string {
	var missing []string
	required := map[string]string{
		"server-url":  args.ServerURL,
		"auth-secret": args.ServerConfig.Auth.Secret,
		"db-host":     args.ServerConfig.DB.Host,
		"db-database": args.ServerConfig.DB.Database,
		"redis-addr":  args.ServerConfig.Redis.Addr,
		"s3-bucket":   args.ServerConfig.S3.Bucket,
	}
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	kakao := args.ServerConfig.Kakao
	if kakao.Enabled() && (kakao.ClientSecret == "" || kakao.RedirectURL == "") {
		missing = append(missing, "kakao-client-secret/kakao-redirect-url")
	}
	apple := args.ServerConfig.Apple
	if apple.Enabled() && (apple.TeamID == "" || apple.KeyID == "" || apple.PrivateKeySecretName == "") {
		missing = append(missing, "apple-team-id/apple-key-id/apple-private-key-secret-name")
	}
	if !kakao.Enabled() && !apple.Enabled() {
		missing = append(missing, "kakao-client-id or apple-client-id")
	}
	slices.Sort(missing)
	return missing
}

// newLogger 依參數建立 slog logger
func newLogger(level, format string) *slog.Logger {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		lv = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lv}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

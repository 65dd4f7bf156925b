package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

var ErrEmptySecret = errors.New("secret has no value")

// SecretsAPI 是 Manager 用到的 Secrets Manager 操作
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager 從 AWS Secrets Manager 讀取密鑰，每次呼叫都直接查詢不做快取
type Manager struct {
	client SecretsAPI
}

func NewManager(client SecretsAPI) *Manager {
	return &Manager{client: client}
}

// GetSecret 回傳指定名稱的密鑰內容
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	const op = "GetSecret"
	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to get secret value, name=%s, err=%w", op, name, err)
	}
	if out.SecretString != nil && *out.SecretString != "" {
		return *out.SecretString, nil
	}
	if len(out.SecretBinary) > 0 {
		return string(out.SecretBinary), nil
	}
	return "", fmt.Errorf("[%s] %w, name=%s", op, ErrEmptySecret, name)
}

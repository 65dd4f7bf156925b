package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CredentialCache 以 Redis set 保存每個 key 目前仍然有效的令牌
type CredentialCache struct {
	client  *redis.Client // Redis 客戶端連線
	options StoreOptions  // key 前綴等設定
}

// NewCredentialCache 建立一個新的 CredentialCache 實例
func NewCredentialCache(client *redis.Client, opts ...StoreOption) *CredentialCache {
	return &CredentialCache{
		client:  client,
		options: newStoreOptions(opts),
	}
}

// addScript 將令牌加入 set，只有在 set 原本為空時才設定過期時間
//
//	KEYS[1] - set 的 key
//	ARGV[1] - 令牌
//	ARGV[2] - 過期秒數
//
// 返回值:
//
//	1 - set 原本為空，已設定過期時間
//	0 - set 原本就存在，保留原本的過期時間
var addScript = redis.NewScript(`
local size = redis.call('SCARD', KEYS[1])
redis.call('SADD', KEYS[1], ARGV[1])
if size == 0 then
    redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
    return 1
end
return 0
`)

// addIfTrackedScript 只有在 set 已經有令牌時才加入新的令牌
//
//	KEYS[1] - set 的 key
//	ARGV[1] - 令牌
//
// 返回值:
//
//	1 - 已加入
//	0 - set 為空，沒有加入
var addIfTrackedScript = redis.NewScript(`
if redis.call('SCARD', KEYS[1]) == 0 then
    return 0
end
redis.call('SADD', KEYS[1], ARGV[1])
return 1
`)

// Add 記錄一個有效令牌
// NOTE: 過期時間只在 set 第一次建立時設定，之後加入的令牌共用同一個期限
func (c *CredentialCache) Add(ctx context.Context, key, token string, ttl time.Duration) error {
	const op = "redis.CredentialCache.Add"
	err := addScript.Run(ctx, c.client, []string{c.options.Prefix + key}, token, ttlSeconds(ttl)).Err()
	if err != nil {
		return fmt.Errorf("[%s] Fail to execute add script, err=%w", op, err)
	}
	return nil
}

// AddIfTracked 只有在 key 已經被追蹤時才記錄令牌，ttl 不會被使用
func (c *CredentialCache) AddIfTracked(ctx context.Context, key, token string, _ time.Duration) error {
	const op = "redis.CredentialCache.AddIfTracked"
	err := addIfTrackedScript.Run(ctx, c.client, []string{c.options.Prefix + key}, token).Err()
	if err != nil {
		return fmt.Errorf("[%s] Fail to execute add script, err=%w", op, err)
	}
	return nil
}

// Get 回傳 key 底下的所有有效令牌，key 不存在時回傳空 slice
func (c *CredentialCache) Get(ctx context.Context, key string) ([]string, error) {
	const op = "redis.CredentialCache.Get"
	members, err := c.client.SMembers(ctx, c.options.Prefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get members, err=%w", op, err)
	}
	return members, nil
}

// Delete 刪除整個 set，key 不存在時不視為錯誤
func (c *CredentialCache) Delete(ctx context.Context, key string) error {
	const op = "redis.CredentialCache.Delete"
	if err := c.client.Del(ctx, c.options.Prefix+key).Err(); err != nil {
		return fmt.Errorf("[%s] Fail to delete key, err=%w", op, err)
	}
	return nil
}

// MarkRevoked 記錄最近一次撤銷的時間 (unix 秒)
func (c *CredentialCache) MarkRevoked(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	const op = "redis.CredentialCache.MarkRevoked"
	err := c.client.Set(ctx, c.options.Prefix+key, at.Unix(), ttl).Err()
	if err != nil {
		return fmt.Errorf("[%s] Fail to set revocation time, err=%w", op, err)
	}
	return nil
}

// RevokedAt 讀取最近一次撤銷的時間，沒有紀錄時第二個回傳值為 false
func (c *CredentialCache) RevokedAt(ctx context.Context, key string) (time.Time, bool, error) {
	const op = "redis.CredentialCache.RevokedAt"
	raw, err := c.client.Get(ctx, c.options.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("[%s] Fail to get revocation time, err=%w", op, err)
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("[%s] Fail to parse revocation time %q, err=%w", op, raw, err)
	}
	return time.Unix(sec, 0), true, nil
}

// ttlSeconds 將 ttl 轉成秒數，最少 1 秒
func ttlSeconds(ttl time.Duration) int64 {
	sec := int64(ttl / time.Second)
	if sec < 1 {
		sec = 1
	}
	return sec
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrStateNotFound = errors.New("oauth state not found or expired")

// StateRecord 是登入流程開始時保存的 state 資訊
type StateRecord struct {
	Provider string    `msgpack:"provider"`
	IssuedAt time.Time `msgpack:"issued_at"`
}

// StateStore 保存 OAuth state，每個 state 只能被取出一次
type StateStore struct {
	client  *redis.Client
	ttl     time.Duration
	options StoreOptions
}

func NewStateStore(client *redis.Client, ttl time.Duration, opts ...StoreOption) *StateStore {
	return &StateStore{
		client:  client,
		ttl:     ttl,
		options: newStoreOptions(opts),
	}
}

func (s *StateStore) key(state string) string {
	return s.options.Prefix + "oauth:state:" + state
}

// Save 保存 state，已存在時回傳錯誤
func (s *StateStore) Save(ctx context.Context, state string, record StateRecord) error {
	const op = "redis.StateStore.Save"
	value, err := EncodeValue(record)
	if err != nil {
		return fmt.Errorf("[%s] Fail to encode state, err=%w", op, err)
	}
	ok, err := s.client.SetNX(ctx, s.key(state), value, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("[%s] Fail to save state, err=%w", op, err)
	}
	if !ok {
		return fmt.Errorf("[%s] State already exists", op)
	}
	return nil
}

// Consume 取出並刪除 state，不存在或已過期時回傳 ErrStateNotFound
func (s *StateStore) Consume(ctx context.Context, state string) (*StateRecord, error) {
	const op = "redis.StateStore.Consume"
	if state == "" {
		return nil, ErrStateNotFound
	}
	raw, err := s.client.GetDel(ctx, s.key(state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to consume state, err=%w", op, err)
	}
	record, err := DecodeValue[StateRecord](raw)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to decode state, err=%w", op, err)
	}
	return &record, nil
}

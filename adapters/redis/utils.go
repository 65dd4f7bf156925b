package redis

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrPointerType = errors.New("pointer type is not allowed")
)

// EncodeValue 將 struct 以 msgpack 序列化後存入 Redis 字串
func EncodeValue[T any](data T) ([]byte, error) {
	// 檢查是否為指標類型
	if t := reflect.TypeOf(data); t == nil || t.Kind() == reflect.Ptr {
		return nil, ErrPointerType
	}
	bytes, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("msgpack marshal error: %w", err)
	}
	return bytes, nil
}

// DecodeValue 將 EncodeValue 的結果還原為 struct
func DecodeValue[T any](raw []byte) (T, error) {
	var result T
	if t := reflect.TypeOf(result); t == nil || t.Kind() == reflect.Ptr {
		return result, ErrPointerType
	}
	if len(raw) == 0 {
		return result, fmt.Errorf("empty value")
	}
	if err := msgpack.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("msgpack unmarshal error: %w", err)
	}
	return result, nil
}

package redis

// StoreOptions 定義了 Redis 儲存元件共用的配置選項
type StoreOptions struct {
	// Prefix 會加在所有 key 前面，讓多個服務共用同一個 Redis
	Prefix string
}

type StoreOption func(*StoreOptions)

// WithStorePrefix 設定 key 前綴
func WithStorePrefix(prefix string) StoreOption {
	return func(o *StoreOptions) {
		o.Prefix = prefix
	}
}

func newStoreOptions(opts []StoreOption) StoreOptions {
	options := StoreOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// 包 kv 提供"本地存储"式的键值持久化：一个键对应一整块字节值，
// 写入即整体覆盖。后端实现有 SQLite、Redis 与内存。
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-blog-listing/internal/config"
)

var (
	// ErrNotFound 表示键不存在。
	ErrNotFound = errors.New("kv: key not found")
	// ErrQuotaExceeded 表示写入值超出配额。
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
)

// Store 为键值存储接口。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open 按配置创建后端，并按 quota_bytes 包一层配额限制。
func Open(ctx context.Context, c config.Storage) (Store, error) {
	var (
		s   Store
		err error
	)
	switch c.Type {
	case "sqlite", "":
		s, err = OpenSQLite(c.DSN)
	case "redis":
		s, err = OpenRedis(ctx, c.Addr)
	case "memory":
		s = NewMemory()
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Type)
	}
	if err != nil {
		return nil, err
	}
	if c.QuotaBytes > 0 {
		s = WithQuota(s, c.QuotaBytes)
	}
	return s, nil
}

// Memory 为进程内实现，读写均拷贝字节，调用方无法篡改已存储的值。
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// quota 拒绝超过 limit 字节的写入，模拟浏览器存储配额。
type quota struct {
	Store
	limit int
}

// WithQuota 为 s 增加单值大小上限。
func WithQuota(s Store, limit int) Store {
	return &quota{Store: s, limit: limit}
}

func (q *quota) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > q.limit {
		return fmt.Errorf("set %s (%d > %d bytes): %w", key, len(value), q.limit, ErrQuotaExceeded)
	}
	return q.Store.Set(ctx, key, value)
}

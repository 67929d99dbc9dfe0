// Package kv は名前付きブロブの読み書きポートを提供します。
// ストアの永続状態はリソース種別ごとに 1 ブロブであり、各操作は
// ブロブ全体の read-modify-write として実行されます。
package kv

import (
	"context"
	"sync"
)

// Store はブロブ永続化の抽象です。
type Store interface {
	// Get はキーに対応する値を返します。キーが存在しない場合は (nil, nil) を返します。
	Get(ctx context.Context, key string) ([]byte, error)
	// Set はキーに値を書き込みます。既存の値は全体が置き換えられます。
	Set(ctx context.Context, key string, value []byte) error
	// Delete はキーを削除します。キーが存在しない場合でもエラーにはなりません。
	Delete(ctx context.Context, key string) error
}

// Memory はテストおよび非永続モード向けのインメモリ実装です。
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory は Memory を生成します。
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get はキーに対応する値のコピーを返します。
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	return cloneBytes(value), nil
}

// Set はキーに値のコピーを書き込みます。
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = cloneBytes(value)
	return nil
}

// Delete はキーを削除します。
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	clone := make([]byte, len(b))
	copy(clone, b)
	return clone
}

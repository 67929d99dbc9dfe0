package blob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogurasousui/epms-core/internal/core/account"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

// SessionRepository はアクティブセッションのブロブ永続化の実装です。
// セッションブロブにはアカウントの公開フィールドのみを保持します。
type SessionRepository struct {
	store kv.Store
}

// NewSessionRepository は SessionRepository を生成します。
func NewSessionRepository(store kv.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Save はアクティブセッションを保存します。
func (r *SessionRepository) Save(ctx context.Context, view account.View) error {
	return saveJSON(ctx, r.store, keySession, view)
}

// Current はアクティブセッションを返します。
func (r *SessionRepository) Current(ctx context.Context) (*account.View, error) {
	raw, err := r.store.Get(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, account.ErrNoSession
	}

	var view account.View
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("blob: decode %s: %w", keySession, err)
	}
	return &view, nil
}

// Clear はアクティブセッションを破棄します。
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, keySession)
}

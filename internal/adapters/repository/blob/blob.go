// Package blob は kv ブロブストア上のリポジトリ実装です。リソース種別
// ごとに JSON 配列のブロブを 1 つ保持し、各操作はブロブ全体の
// read-modify-write として実行されます。リポジトリごとのミューテックスが
// このサイクルを直列化し、複数呼び出し元でも一意性不変条件を保ちます。
package blob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

const (
	keyAccounts    = "epms_users"
	keyDepartments = "epms_departments"
	keyEmployees   = "epms_employees"
	keySalaries    = "epms_salaries"
	keyCounters    = "epms_counters"
	keySession     = "epms_session"
)

func loadJSON(ctx context.Context, store kv.Store, key string, dest any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("blob: decode %s: %w", key, err)
	}
	return nil
}

func saveJSON(ctx context.Context, store kv.Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("blob: encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}

// visibleTo は行の所有者がアクターに可視かを判定します。所有者なしの行は
// 緩和モード(既定)では全アクターに可視、厳格モードでは不可視です。
func visibleTo(rowOwner, actorID string, strict bool) bool {
	if rowOwner == actorID {
		return true
	}
	return rowOwner == "" && !strict
}

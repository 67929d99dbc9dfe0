package blob

import (
	"context"
	"sync"

	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

// SequenceRepository はカウンターブロブを利用した採番の実装です。
// 種別ごとのカウンターはデータと同じストアに永続化され、再起動後も
// 払い出し済みの番号を再利用しません。
type SequenceRepository struct {
	store kv.Store
	mu    sync.Mutex
}

// NewSequenceRepository は SequenceRepository を生成します。
func NewSequenceRepository(store kv.Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

// Next は種別ごとに単調増加する次の番号を払い出します。
func (r *SequenceRepository) Next(ctx context.Context, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counters := make(map[string]int64)
	if err := loadJSON(ctx, r.store, keyCounters, &counters); err != nil {
		return 0, err
	}

	next := counters[kind] + 1
	counters[kind] = next

	if err := saveJSON(ctx, r.store, keyCounters, counters); err != nil {
		return 0, err
	}

	return next, nil
}

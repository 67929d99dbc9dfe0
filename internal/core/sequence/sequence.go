// Package sequence はリソース種別ごとの採番ポートを提供します。
package sequence

import "context"

// Generator はリソース種別ごとに単調増加する整数 ID を払い出します。
// 採番は 1 から始まり、削除後も番号を再利用しません。
type Generator interface {
	Next(ctx context.Context, kind string) (int64, error)
}

// KindEmployee は社員番号の採番種別です。
const KindEmployee = "employee"

package department

import "context"

// Repository は部門エンティティの永続化を行うインターフェースです。
// FindByCode は重複検出と給与計算のため所有者を問わず検索します。
// List / Delete はアクターの可視範囲(所有行、および緩和モードでは
// 所有者なし行)に限定されます。
type Repository interface {
	Create(ctx context.Context, department *Department) (*Department, error)
	FindByCode(ctx context.Context, code string) (*Department, error)
	List(ctx context.Context, ownerID string) ([]*Department, error)
	Delete(ctx context.Context, code, ownerID string) error
}

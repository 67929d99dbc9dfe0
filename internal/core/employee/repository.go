package employee

import "context"

// Repository は社員エンティティの永続化を行うインターフェースです。
// FindByNumber は給与明細の読み取り時結合のため所有者を問わず検索します。
// FindVisibleByNumber / List / Delete はアクターの可視範囲に限定されます。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	FindByNumber(ctx context.Context, number int64) (*Employee, error)
	FindVisibleByNumber(ctx context.Context, ownerID string, number int64) (*Employee, error)
	List(ctx context.Context, ownerID string) ([]*Employee, error)
	Delete(ctx context.Context, number int64, ownerID string) error
}

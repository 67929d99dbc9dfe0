package account

import "context"

// Repository はアカウントエンティティの永続化を行うインターフェースです。
// アカウントはスコープ上、作成のみで更新・削除されません。
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// SessionStore はアクティブなセッション(公開ビュー)の永続化を行う
// インターフェースです。セッションは同時に 1 つだけ保持されます。
type SessionStore interface {
	Save(ctx context.Context, view View) error
	Current(ctx context.Context) (*View, error)
	Clear(ctx context.Context) error
}

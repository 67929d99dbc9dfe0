package blob

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ogurasousui/epms-core/internal/core/account"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

// AccountRepository はブロブストアを利用したアカウント永続化の実装です。
type AccountRepository struct {
	store kv.Store
	mu    sync.Mutex
}

// NewAccountRepository は AccountRepository を生成します。
func NewAccountRepository(store kv.Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create はアカウントを新規作成します。ID は UUID で採番されます。
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, existing := range accounts {
		if existing.Username == a.Username {
			return nil, account.ErrUsernameAlreadyExists
		}
		if existing.Email == a.Email {
			return nil, account.ErrEmailAlreadyExists
		}
	}

	created := *a
	created.ID = uuid.NewString()
	accounts = append(accounts, created)

	if err := saveJSON(ctx, r.store, keyAccounts, accounts); err != nil {
		return nil, err
	}

	return &created, nil
}

// FindByUsername はユーザー名でアカウントを取得します。
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	accounts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		if a.Username == username {
			found := a
			return &found, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

// FindByEmail はメールアドレスでアカウントを取得します。
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	accounts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *AccountRepository) load(ctx context.Context) ([]account.Account, error) {
	var accounts []account.Account
	if err := loadJSON(ctx, r.store, keyAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

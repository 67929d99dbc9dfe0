package blob

import (
	"context"
	"sync"

	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

// DepartmentRepository はブロブストアを利用した部門永続化の実装です。
type DepartmentRepository struct {
	store  kv.Store
	strict bool
	mu     sync.Mutex
}

// NewDepartmentRepository は DepartmentRepository を生成します。strict を
// 有効にすると所有者なしのレガシー行が不可視になります。
func NewDepartmentRepository(store kv.Store, strict bool) *DepartmentRepository {
	return &DepartmentRepository{store: store, strict: strict}
}

// Create は部門を新規作成します。部門コードはコレクション全体で一意です。
func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	departments, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, existing := range departments {
		if existing.Code == d.Code {
			return nil, department.ErrCodeAlreadyExists
		}
	}

	created := *d
	departments = append(departments, created)

	if err := saveJSON(ctx, r.store, keyDepartments, departments); err != nil {
		return nil, err
	}

	return &created, nil
}

// FindByCode は所有者を問わず部門コードで部門を取得します。
func (r *DepartmentRepository) FindByCode(ctx context.Context, code string) (*department.Department, error) {
	departments, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, d := range departments {
		if d.Code == code {
			found := d
			return &found, nil
		}
	}
	return nil, department.ErrDepartmentNotFound
}

// List はアクターに可視な部門を挿入順で返します。
func (r *DepartmentRepository) List(ctx context.Context, ownerID string) ([]*department.Department, error) {
	departments, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*department.Department, 0, len(departments))
	for _, d := range departments {
		if visibleTo(d.OwnerID, ownerID, r.strict) {
			found := d
			visible = append(visible, &found)
		}
	}
	return visible, nil
}

// Delete は部門コードで可視な部門を 1 件削除します。
func (r *DepartmentRepository) Delete(ctx context.Context, code, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	departments, err := r.load(ctx)
	if err != nil {
		return err
	}

	for idx, d := range departments {
		if d.Code == code && visibleTo(d.OwnerID, ownerID, r.strict) {
			departments = append(departments[:idx], departments[idx+1:]...)
			return saveJSON(ctx, r.store, keyDepartments, departments)
		}
	}
	return department.ErrDepartmentNotFound
}

func (r *DepartmentRepository) load(ctx context.Context) ([]department.Department, error) {
	var departments []department.Department
	if err := loadJSON(ctx, r.store, keyDepartments, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

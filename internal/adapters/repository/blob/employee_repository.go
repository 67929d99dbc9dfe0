package blob

import (
	"context"
	"sync"

	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

// EmployeeRepository はブロブストアを利用した社員永続化の実装です。
type EmployeeRepository struct {
	store  kv.Store
	strict bool
	mu     sync.Mutex
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(store kv.Store, strict bool) *EmployeeRepository {
	return &EmployeeRepository{store: store, strict: strict}
}

// Create は社員を新規作成します。社員番号は採番済みで渡されます。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	created := *e
	employees = append(employees, created)

	if err := saveJSON(ctx, r.store, keyEmployees, employees); err != nil {
		return nil, err
	}

	return cloneEmployee(&created), nil
}

// FindByNumber は所有者を問わず社員番号で社員を取得します。
func (r *EmployeeRepository) FindByNumber(ctx context.Context, number int64) (*employee.Employee, error) {
	employees, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for idx := range employees {
		if employees[idx].Number == number {
			return cloneEmployee(&employees[idx]), nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

// FindVisibleByNumber はアクターに可視な社員を社員番号で取得します。
func (r *EmployeeRepository) FindVisibleByNumber(ctx context.Context, ownerID string, number int64) (*employee.Employee, error) {
	employees, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for idx := range employees {
		e := &employees[idx]
		if e.Number == number && visibleTo(e.OwnerID, ownerID, r.strict) {
			return cloneEmployee(e), nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

// List はアクターに可視な社員を挿入順で返します。
func (r *EmployeeRepository) List(ctx context.Context, ownerID string) ([]*employee.Employee, error) {
	employees, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*employee.Employee, 0, len(employees))
	for idx := range employees {
		e := &employees[idx]
		if visibleTo(e.OwnerID, ownerID, r.strict) {
			visible = append(visible, cloneEmployee(e))
		}
	}
	return visible, nil
}

// Delete は社員番号で可視な社員を 1 件削除します。紐づく給与明細は
// 削除しません(孤児行として残ります)。
func (r *EmployeeRepository) Delete(ctx context.Context, number int64, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return err
	}

	for idx := range employees {
		e := &employees[idx]
		if e.Number == number && visibleTo(e.OwnerID, ownerID, r.strict) {
			employees = append(employees[:idx], employees[idx+1:]...)
			return saveJSON(ctx, r.store, keyEmployees, employees)
		}
	}
	return employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) load(ctx context.Context) ([]employee.Employee, error) {
	var employees []employee.Employee
	if err := loadJSON(ctx, r.store, keyEmployees, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	clone := *e
	if e.Address != nil {
		address := *e.Address
		clone.Address = &address
	}
	return &clone
}

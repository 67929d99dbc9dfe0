package payroll

import "context"

// Repository は給与明細の永続化を行うインターフェースです。
// FindByEmployeeAndMonth は一意性検査のため所有者を問わず検索します。
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	FindByEmployeeAndMonth(ctx context.Context, employeeNumber int64, month string) (*Record, error)
	List(ctx context.Context, ownerID string) ([]*Record, error)
	Delete(ctx context.Context, salaryID, ownerID string) error
}

// Directory は給与計算と読み取り時結合に必要な社員・部門の参照ポートです。
type Directory interface {
	// VisibleEmployee はアクターに可視な社員を返します。
	VisibleEmployee(ctx context.Context, ownerID string, number int64) (*EmployeeSnapshot, error)
	// EmployeeByNumber は所有者を問わず社員を返します(読み取り時結合用)。
	EmployeeByNumber(ctx context.Context, number int64) (*EmployeeSnapshot, error)
	// DepartmentByCode は所有者を問わず部門を返します(基本給の解決用)。
	DepartmentByCode(ctx context.Context, code string) (*DepartmentSnapshot, error)
}

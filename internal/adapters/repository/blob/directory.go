package blob

import (
	"context"
	"errors"

	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/core/payroll"
)

// Directory は社員・部門リポジトリを payroll.Directory として公開します。
type Directory struct {
	employees   *EmployeeRepository
	departments *DepartmentRepository
}

// NewDirectory は Directory を生成します。
func NewDirectory(employees *EmployeeRepository, departments *DepartmentRepository) *Directory {
	return &Directory{employees: employees, departments: departments}
}

// VisibleEmployee はアクターに可視な社員のスナップショットを返します。
func (d *Directory) VisibleEmployee(ctx context.Context, ownerID string, number int64) (*payroll.EmployeeSnapshot, error) {
	found, err := d.employees.FindVisibleByNumber(ctx, ownerID, number)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, payroll.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employeeSnapshot(found), nil
}

// EmployeeByNumber は所有者を問わず社員のスナップショットを返します。
func (d *Directory) EmployeeByNumber(ctx context.Context, number int64) (*payroll.EmployeeSnapshot, error) {
	found, err := d.employees.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, payroll.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employeeSnapshot(found), nil
}

// DepartmentByCode は所有者を問わず部門のスナップショットを返します。
func (d *Directory) DepartmentByCode(ctx context.Context, code string) (*payroll.DepartmentSnapshot, error) {
	found, err := d.departments.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return nil, payroll.ErrDepartmentMissing
		}
		return nil, err
	}
	return &payroll.DepartmentSnapshot{Code: found.Code, GrossSalary: found.GrossSalary}, nil
}

func employeeSnapshot(e *employee.Employee) *payroll.EmployeeSnapshot {
	return &payroll.EmployeeSnapshot{
		Number:         e.Number,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		DepartmentCode: e.DepartmentCode,
	}
}

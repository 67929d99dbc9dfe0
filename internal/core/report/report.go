// Package report は給与明細の絞り込みと集計を提供します。状態を持たず、
// ストアから取得した一覧に対する純粋な変換のみを行います。
package report

import (
	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/core/payroll"
)

// PlaceholderDepartment は部門を解決できない行の表示名です。
const PlaceholderDepartment = "N/A"

// Filter は給与明細一覧の絞り込み条件です。ゼロ値のフィールドは
// 条件なしとして扱われ、指定された条件は AND で合成されます。
type Filter struct {
	EmployeeNumber *int64
	Month          string
	DepartmentCode string
}

// Totals は絞り込み後の集計結果です。
type Totals struct {
	Count           int
	GrossTotal      float64
	DeductionsTotal float64
	NetTotal        float64
}

// Row は表示用に部門名まで結合した給与明細の 1 行です。
type Row struct {
	payroll.EnrichedRecord
	DepartmentName string
}

// Apply はフィルタを適用した給与明細を返します。部門条件は社員の
// 部門コードを介して解決されます。
func Apply(records []*payroll.EnrichedRecord, employees []*employee.Employee, f Filter) []*payroll.EnrichedRecord {
	byNumber := employeesByNumber(employees)

	filtered := make([]*payroll.EnrichedRecord, 0, len(records))
	for _, r := range records {
		if f.EmployeeNumber != nil && r.EmployeeNumber != *f.EmployeeNumber {
			continue
		}
		if f.Month != "" && r.Month != f.Month {
			continue
		}
		if f.DepartmentCode != "" {
			emp, ok := byNumber[r.EmployeeNumber]
			if !ok || emp.DepartmentCode != f.DepartmentCode {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	return filtered
}

// Aggregate は件数と総支給・控除・差引支給の合計を返します。
func Aggregate(records []*payroll.EnrichedRecord) Totals {
	totals := Totals{Count: len(records)}
	for _, r := range records {
		totals.GrossTotal += r.GrossSalary
		totals.DeductionsTotal += r.Deductions
		totals.NetTotal += r.NetSalary
	}
	return totals
}

// Join は各行に部門名を結合した表示用の行を返します。社員または部門を
// 解決できない行はプレースホルダーになります(エラーにはなりません)。
func Join(records []*payroll.EnrichedRecord, employees []*employee.Employee, departments []*department.Department) []Row {
	byNumber := employeesByNumber(employees)

	byCode := make(map[string]*department.Department, len(departments))
	for _, d := range departments {
		byCode[d.Code] = d
	}

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{EnrichedRecord: *r, DepartmentName: PlaceholderDepartment}
		if emp, ok := byNumber[r.EmployeeNumber]; ok {
			if d, ok := byCode[emp.DepartmentCode]; ok {
				row.DepartmentName = d.Name
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func employeesByNumber(employees []*employee.Employee) map[int64]*employee.Employee {
	byNumber := make(map[int64]*employee.Employee, len(employees))
	for _, e := range employees {
		byNumber[e.Number] = e
	}
	return byNumber
}

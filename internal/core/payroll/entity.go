package payroll

import "time"

// Record は給与明細エンティティです。(社員番号, 支給月) ごとに 1 件で、
// 作成後は削除以外の変更を受け付けません。GrossSalary は作成時点の部門
// 基本給が凍結された値です。
type Record struct {
	SalaryID       string    `json:"salaryId"`
	EmployeeNumber int64     `json:"employeeNumber"`
	Month          string    `json:"month"`
	GrossSalary    float64   `json:"grossSalary"`
	Deductions     float64   `json:"deductions"`
	NetSalary      float64   `json:"netSalary"`
	OwnerID        string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EnrichedRecord は読み取り時に社員情報を左結合した給与明細です。
// 社員が既に存在しない場合、結合フィールドはプレースホルダーになります。
type EnrichedRecord struct {
	Record
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position"`
}

// EmployeeSnapshot は結合に用いる社員情報のスナップショットです。
type EmployeeSnapshot struct {
	Number         int64
	FirstName      string
	LastName       string
	Position       string
	DepartmentCode string
}

// DepartmentSnapshot は給与計算に用いる部門情報のスナップショットです。
type DepartmentSnapshot struct {
	Code        string
	GrossSalary float64
}

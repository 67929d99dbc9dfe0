package payroll

import "errors"

var (
	// ErrRecordNotFound は給与明細が存在しない場合に返却されます。
	ErrRecordNotFound = errors.New("salary record not found")
	// ErrRecordAlreadyExists は同一の (社員番号, 支給月) の明細が既に
	// 存在する場合に返却されます。
	ErrRecordAlreadyExists = errors.New("salary record already exists for employee and month")
	// ErrEmployeeNotFound は対象社員がアクターに可視でない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrDepartmentMissing は Directory が部門を解決できない場合に返却されます。
	// CreateRecord はこれをエラーではなく基本給 0 へのフォールバックとして扱います。
	ErrDepartmentMissing = errors.New("department not found")
	// ErrInvalidEmployeeNumber は社員番号が正の整数でない場合に返却されます。
	ErrInvalidEmployeeNumber = errors.New("invalid employee number")
	// ErrInvalidMonth は支給月が YYYY-MM 形式でない場合に返却されます。
	ErrInvalidMonth = errors.New("invalid month")
	// ErrInvalidDeductions は控除額が負の場合に返却されます。
	ErrInvalidDeductions = errors.New("invalid deductions")
	// ErrInvalidSalaryID は給与明細 ID が不正な場合に返却されます。
	ErrInvalidSalaryID = errors.New("invalid salary id")
)

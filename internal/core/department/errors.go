package department

import "errors"

var (
	// ErrDepartmentNotFound は部門が存在しない場合に返却されます。
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrCodeAlreadyExists は部門コード重複時に返却されます。
	ErrCodeAlreadyExists = errors.New("department code already exists")
	// ErrInvalidCode は部門コードが不正な場合に返却されます。
	ErrInvalidCode = errors.New("invalid department code")
	// ErrInvalidName は部門名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid department name")
	// ErrInvalidGrossSalary は基本給が非負の数値でない場合に返却されます。
	ErrInvalidGrossSalary = errors.New("invalid gross salary")
)

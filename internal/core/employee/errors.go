package employee

import "errors"

var (
	// ErrEmployeeNotFound は社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrInvalidFirstName は名が不正な場合に返却されます。
	ErrInvalidFirstName = errors.New("invalid first name")
	// ErrInvalidLastName は姓が不正な場合に返却されます。
	ErrInvalidLastName = errors.New("invalid last name")
	// ErrInvalidPosition は役職が不正な場合に返却されます。
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidDepartmentCode は部門コードが不正な場合に返却されます。
	ErrInvalidDepartmentCode = errors.New("invalid department code")
	// ErrInvalidNumber は社員番号が不正な場合に返却されます。
	ErrInvalidNumber = errors.New("invalid employee number")
)

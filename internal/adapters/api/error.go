package api

import (
	"errors"

	"github.com/ogurasousui/epms-core/internal/core/account"
	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/core/payroll"
)

// Kind は Store が返すエラーの分類です。
type Kind string

const (
	// KindValidation は入力が欠落または不正な場合の分類です。
	KindValidation Kind = "validation"
	// KindConflict は一意性制約に違反した場合の分類です。
	KindConflict Kind = "conflict"
	// KindNotFound は対象がアクターに可視でない場合の分類です。
	KindNotFound Kind = "not_found"
	// KindUnauthorized は認証情報が一致しない場合の分類です。
	KindUnauthorized Kind = "unauthorized"
	// KindInternal は上記いずれにも分類できない場合の分類です。
	KindInternal Kind = "internal"
)

// Error は Store の各操作が返す分類付きエラーです。すべて同期的な
// アプリケーションエラーであり、再試行しても結果は変わりません。
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap は分類元のセンチネルエラーを返します。
func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: cause.Error(), cause: cause}
}

// KindOf は err に含まれる *Error の分類を返します。*Error でない場合は
// KindInternal を返します。
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func toStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, account.ErrInvalidUsername),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrInvalidPassword),
		errors.Is(err, account.ErrInvalidFullName),
		errors.Is(err, department.ErrInvalidCode),
		errors.Is(err, department.ErrInvalidName),
		errors.Is(err, department.ErrInvalidGrossSalary),
		errors.Is(err, employee.ErrInvalidFirstName),
		errors.Is(err, employee.ErrInvalidLastName),
		errors.Is(err, employee.ErrInvalidPosition),
		errors.Is(err, employee.ErrInvalidDepartmentCode),
		errors.Is(err, employee.ErrInvalidNumber),
		errors.Is(err, payroll.ErrInvalidEmployeeNumber),
		errors.Is(err, payroll.ErrInvalidMonth),
		errors.Is(err, payroll.ErrInvalidDeductions),
		errors.Is(err, payroll.ErrInvalidSalaryID):
		return newError(KindValidation, err)
	case errors.Is(err, account.ErrUsernameAlreadyExists),
		errors.Is(err, account.ErrEmailAlreadyExists),
		errors.Is(err, department.ErrCodeAlreadyExists),
		errors.Is(err, payroll.ErrRecordAlreadyExists):
		return newError(KindConflict, err)
	case errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrRecordNotFound):
		return newError(KindNotFound, err)
	case errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrNoSession):
		return newError(KindUnauthorized, err)
	default:
		return &Error{Kind: KindInternal, Message: "internal error", cause: err}
	}
}

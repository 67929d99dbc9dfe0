package account

import "errors"

var (
	// ErrAccountNotFound はアカウントが存在しない場合に返却されます。
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameAlreadyExists はユーザー名重複時に返却されます。
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrEmailAlreadyExists はメールアドレス重複時に返却されます。
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidUsername はユーザー名が不正な場合に返却されます。
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidEmail はメールアドレスが不正な場合に返却されます。
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidPassword はパスワードが不正な場合に返却されます。
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidFullName は氏名が不正な場合に返却されます。
	ErrInvalidFullName = errors.New("invalid full name")
	// ErrInvalidCredentials は認証情報が一致しない場合に返却されます。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession はアクティブなセッションが存在しない場合に返却されます。
	ErrNoSession = errors.New("no active session")
)

package account

import "time"

// Role はアカウントの役割を表します。登録されるアカウントは常に管理者です。
type Role string

// RoleAdmin は管理者ロールです。
const RoleAdmin Role = "admin"

// Account はアカウントエンティティです。パスワードは観測された既存挙動の
// とおり平文で保持されます(照合は Service 内の 1 箇所に隔離)。
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// View はパスワードを含まないアカウントの公開ビューです。
type View struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// Redacted はアカウントの公開ビューを返します。
func (a *Account) Redacted() View {
	return View{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName,
		Role:     a.Role,
	}
}

// Session は認証成功時に返却されるトークンと公開ビューの組です。
type Session struct {
	Token   string
	Account View
}

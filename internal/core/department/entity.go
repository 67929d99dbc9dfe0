package department

import "time"

// Department は部門エンティティです。部門コードが主キーであり、作成後は
// 削除以外の変更を受け付けません。OwnerID は作成したアカウントを示します
// (空文字列はレガシーな所有者なし行)。
type Department struct {
	Code        string    `json:"departmentCode"`
	Name        string    `json:"departmentName"`
	GrossSalary float64   `json:"grossSalary"`
	OwnerID     string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

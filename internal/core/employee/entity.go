package employee

import "time"

// Employee は社員エンティティです。社員番号は採番ポートが払い出した
// 一意な整数で、削除後も再利用されません。DepartmentCode は部門への
// 参照ですが、観測された既存挙動のとおり存在検証は行いません。
type Employee struct {
	Number         int64     `json:"employeeNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Gender         string    `json:"gender,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Position       string    `json:"position"`
	DepartmentCode string    `json:"departmentCode"`
	OwnerID        string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
}

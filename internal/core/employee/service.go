package employee

import (
	"context"
	"strings"
	"time"

	"github.com/ogurasousui/epms-core/internal/core/sequence"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	seq   sequence.Generator
	clock Clock
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, seq sequence.Generator, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, seq: seq, clock: clock}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	FirstName      string
	LastName       string
	Gender         string
	Address        *string
	Position       string
	DepartmentCode string
	ActorID        string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	ActorID string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	Number  int64
	ActorID string
}

// CreateEmployee は新しい社員を作成します。部門コードは参照として保存する
// のみで、対応する部門の存在は検証しません(読み取り時の結合で欠損は
// プレースホルダーになります)。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}

	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, ErrInvalidLastName
	}

	position := strings.TrimSpace(in.Position)
	if position == "" {
		return nil, ErrInvalidPosition
	}

	departmentCode := strings.TrimSpace(in.DepartmentCode)
	if departmentCode == "" {
		return nil, ErrInvalidDepartmentCode
	}

	number, err := s.seq.Next(ctx, sequence.KindEmployee)
	if err != nil {
		return nil, err
	}

	e := &Employee{
		Number:         number,
		FirstName:      firstName,
		LastName:       lastName,
		Gender:         strings.TrimSpace(in.Gender),
		Address:        cloneStringPtr(in.Address),
		Position:       position,
		DepartmentCode: departmentCode,
		OwnerID:        in.ActorID,
		CreatedAt:      s.clock.Now(),
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ListEmployees はアクターに可視な社員を挿入順で返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error) {
	return s.repo.List(ctx, in.ActorID)
}

// DeleteEmployee は社員番号で社員を削除します。社員に紐づく給与明細は
// 削除されず、孤児行として残ります(既存挙動)。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if in.Number <= 0 {
		return ErrInvalidNumber
	}
	return s.repo.Delete(ctx, in.Number, in.ActorID)
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

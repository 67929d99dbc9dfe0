package department

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は部門に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase は部門ユースケースの公開インターフェースです。
type UseCase interface {
	CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error)
	ListDepartments(ctx context.Context, in ListDepartmentsInput) ([]*Department, error)
	DeleteDepartment(ctx context.Context, in DeleteDepartmentInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// CreateDepartmentInput は部門作成時の入力です。ActorID は操作中の
// アカウント ID で、作成された部門の所有者になります。
type CreateDepartmentInput struct {
	Code        string
	Name        string
	GrossSalary float64
	ActorID     string
}

// ListDepartmentsInput は一覧取得時の入力です。
type ListDepartmentsInput struct {
	ActorID string
}

// DeleteDepartmentInput は部門削除時の入力です。
type DeleteDepartmentInput struct {
	Code    string
	ActorID string
}

// CreateDepartment は新しい部門を作成します。部門コードの重複検出は
// 所有者を無視してコレクション全体に対して行われます。
func (s *Service) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if in.GrossSalary < 0 || math.IsNaN(in.GrossSalary) || math.IsInf(in.GrossSalary, 0) {
		return nil, ErrInvalidGrossSalary
	}

	if err := s.ensureCodeNotExists(ctx, code); err != nil {
		return nil, err
	}

	d := &Department{
		Code:        code,
		Name:        name,
		GrossSalary: in.GrossSalary,
		OwnerID:     in.ActorID,
		CreatedAt:   s.clock.Now(),
	}

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ListDepartments はアクターに可視な部門を挿入順で返します。
func (s *Service) ListDepartments(ctx context.Context, in ListDepartmentsInput) ([]*Department, error) {
	return s.repo.List(ctx, in.ActorID)
}

// DeleteDepartment は部門コードで部門を削除します。
func (s *Service) DeleteDepartment(ctx context.Context, in DeleteDepartmentInput) error {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return ErrInvalidCode
	}
	return s.repo.Delete(ctx, code, in.ActorID)
}

func (s *Service) ensureCodeNotExists(ctx context.Context, code string) error {
	found, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
		return err
	}
	if found != nil {
		return ErrCodeAlreadyExists
	}
	return nil
}

package payroll

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// 結合先の社員が存在しない場合の表示用プレースホルダー。
const (
	PlaceholderName     = "Unknown"
	PlaceholderPosition = "N/A"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は給与明細に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	directory Directory
	clock     Clock
}

// UseCase は給与明細ユースケースの公開インターフェースです。
type UseCase interface {
	CreateRecord(ctx context.Context, in CreateRecordInput) (*Record, error)
	ListRecords(ctx context.Context, in ListRecordsInput) ([]*EnrichedRecord, error)
	DeleteRecord(ctx context.Context, in DeleteRecordInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, directory Directory, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, directory: directory, clock: clock}
}

// CreateRecordInput は給与明細作成時の入力です。Deductions が nil の場合は
// 0 として扱われます。
type CreateRecordInput struct {
	EmployeeNumber int64
	Month          string
	Deductions     *float64
	ActorID        string
}

// ListRecordsInput は一覧取得時の入力です。
type ListRecordsInput struct {
	ActorID string
}

// DeleteRecordInput は給与明細削除時の入力です。
type DeleteRecordInput struct {
	SalaryID string
	ActorID  string
}

// CreateRecord は新しい給与明細を作成します。総支給額は参照先部門の
// 基本給を作成時点で凍結した値であり、部門が見つからない場合は 0 に
// フォールバックします(エラーにはなりません)。差引支給額は
// 総支給額 - 控除額で、負値もそのまま保持されます。
func (s *Service) CreateRecord(ctx context.Context, in CreateRecordInput) (*Record, error) {
	if in.EmployeeNumber <= 0 {
		return nil, ErrInvalidEmployeeNumber
	}

	month := strings.TrimSpace(in.Month)
	if !monthPattern.MatchString(month) {
		return nil, ErrInvalidMonth
	}

	deductions := 0.0
	if in.Deductions != nil {
		deductions = *in.Deductions
	}
	if deductions < 0 {
		return nil, ErrInvalidDeductions
	}

	emp, err := s.directory.VisibleEmployee(ctx, in.ActorID, in.EmployeeNumber)
	if err != nil {
		return nil, err
	}

	if err := s.ensureRecordNotExists(ctx, emp.Number, month); err != nil {
		return nil, err
	}

	// 部門欠損はエラーではなく基本給 0 へのフォールバック。
	grossSalary := 0.0
	dept, err := s.directory.DepartmentByCode(ctx, emp.DepartmentCode)
	if err != nil && !errors.Is(err, ErrDepartmentMissing) {
		return nil, err
	}
	if dept != nil {
		grossSalary = dept.GrossSalary
	}

	r := &Record{
		EmployeeNumber: emp.Number,
		Month:          month,
		GrossSalary:    grossSalary,
		Deductions:     deductions,
		NetSalary:      grossSalary - deductions,
		OwnerID:        in.ActorID,
		CreatedAt:      s.clock.Now(),
	}

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ListRecords はアクターに可視な給与明細を社員情報で左結合して返します。
// 結合先の社員が既に削除されている場合はプレースホルダーを埋めます。
func (s *Service) ListRecords(ctx context.Context, in ListRecordsInput) ([]*EnrichedRecord, error) {
	records, err := s.repo.List(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	enriched := make([]*EnrichedRecord, 0, len(records))
	for _, r := range records {
		row := &EnrichedRecord{
			Record:    *r,
			FirstName: PlaceholderName,
			Position:  PlaceholderPosition,
		}

		emp, err := s.directory.EmployeeByNumber(ctx, r.EmployeeNumber)
		if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
			return nil, err
		}
		if emp != nil {
			row.FirstName = emp.FirstName
			row.LastName = emp.LastName
			row.Position = emp.Position
		}

		enriched = append(enriched, row)
	}

	return enriched, nil
}

// DeleteRecord は給与明細 ID で明細を削除します。
func (s *Service) DeleteRecord(ctx context.Context, in DeleteRecordInput) error {
	if strings.TrimSpace(in.SalaryID) == "" {
		return ErrInvalidSalaryID
	}
	return s.repo.Delete(ctx, in.SalaryID, in.ActorID)
}

func (s *Service) ensureRecordNotExists(ctx context.Context, employeeNumber int64, month string) error {
	found, err := s.repo.FindByEmployeeAndMonth(ctx, employeeNumber, month)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return err
	}
	if found != nil {
		return ErrRecordAlreadyExists
	}
	return nil
}

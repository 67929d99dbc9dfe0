package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ogurasousui/epms-core/internal/core/account"
	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/core/payroll"
	"github.com/ogurasousui/epms-core/internal/core/report"
	"github.com/ogurasousui/epms-core/internal/platform/config"
)

// guestActor はアクティブなセッションが存在しない場合のアクター ID です。
const guestActor = "guest"

// Ack は作成・削除系操作の確認応答です。
type Ack struct {
	Message string `json:"message"`
}

// Store はアプリケーションが利用する唯一の入口となるファサードです。
// 各操作はアクティブなセッションからアクターを解決し、コアサービスを
// 呼び出して、分類付きエラー (*Error) に変換して返します。
type Store struct {
	accounts    account.UseCase
	departments department.UseCase
	employees   employee.UseCase
	payroll     payroll.UseCase
	sessions    account.SessionStore
	latency     config.LatencyConfig
	log         zerolog.Logger
}

// StoreOptions は Store の依存をまとめたものです。
type StoreOptions struct {
	Accounts    account.UseCase
	Departments department.UseCase
	Employees   employee.UseCase
	Payroll     payroll.UseCase
	Sessions    account.SessionStore
	Latency     config.LatencyConfig
	Logger      zerolog.Logger
}

// NewStore は Store を生成します。
func NewStore(opts StoreOptions) *Store {
	return &Store{
		accounts:    opts.Accounts,
		departments: opts.Departments,
		employees:   opts.Employees,
		payroll:     opts.Payroll,
		sessions:    opts.Sessions,
		latency:     opts.Latency,
		log:         opts.Logger,
	}
}

// CreateAccountInput はアカウント登録の入力です。
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// CreateAccount は新しいアカウントを登録します。
func (s *Store) CreateAccount(ctx context.Context, in CreateAccountInput) (*Ack, error) {
	if err := s.pause(ctx, s.latency.Create); err != nil {
		return nil, err
	}

	created, err := s.accounts.Register(ctx, account.RegisterInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
	})
	if err != nil {
		s.fail("create_account", "", err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "create_account").Str("username", created.Username).Msg("account created")
	return &Ack{Message: "Account created successfully"}, nil
}

// CreateSessionInput は認証の入力です。
type CreateSessionInput struct {
	Username string
	Password string
}

// SessionOutput は認証成功時の応答です。
type SessionOutput struct {
	Token   string       `json:"token"`
	Account account.View `json:"user"`
}

// CreateSession は認証を行い、成功時はセッションを保存してトークンと
// 公開ビューを返します。
func (s *Store) CreateSession(ctx context.Context, in CreateSessionInput) (*SessionOutput, error) {
	if err := s.pause(ctx, s.latency.Create); err != nil {
		return nil, err
	}

	session, err := s.accounts.Authenticate(ctx, account.AuthenticateInput{
		Username: in.Username,
		Password: in.Password,
	})
	if err != nil {
		s.fail("create_session", "", err)
		return nil, toStoreError(err)
	}

	if err := s.sessions.Save(ctx, session.Account); err != nil {
		s.fail("create_session", session.Account.ID, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "create_session").Str("account_id", session.Account.ID).Msg("session created")
	return &SessionOutput{Token: session.Token, Account: session.Account}, nil
}

// DeleteSession はアクティブなセッションを破棄します。セッションが
// 存在しない場合も成功として扱います。
func (s *Store) DeleteSession(ctx context.Context) (*Ack, error) {
	if err := s.pause(ctx, s.latency.Delete); err != nil {
		return nil, err
	}

	if err := s.sessions.Clear(ctx); err != nil {
		s.fail("delete_session", "", err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "delete_session").Msg("session cleared")
	return &Ack{Message: "Logged out"}, nil
}

// CreateDepartmentInput は部門作成の入力です。
type CreateDepartmentInput struct {
	Code        string
	Name        string
	GrossSalary float64
}

// CreateDepartment は部門を作成します。
func (s *Store) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*department.Department, error) {
	if err := s.pause(ctx, s.latency.Create); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.departments.CreateDepartment(ctx, department.CreateDepartmentInput{
		Code:        in.Code,
		Name:        in.Name,
		GrossSalary: in.GrossSalary,
		ActorID:     actor,
	})
	if err != nil {
		s.fail("create_department", actor, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "create_department").Str("actor", actor).Str("code", created.Code).Msg("department created")
	return created, nil
}

// ListDepartments はアクターに可視な部門を返します。
func (s *Store) ListDepartments(ctx context.Context) ([]*department.Department, error) {
	if err := s.pause(ctx, s.latency.List); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	listed, err := s.departments.ListDepartments(ctx, department.ListDepartmentsInput{ActorID: actor})
	if err != nil {
		s.fail("list_departments", actor, err)
		return nil, toStoreError(err)
	}
	return listed, nil
}

// DeleteDepartment は部門コードで部門を削除します。
func (s *Store) DeleteDepartment(ctx context.Context, code string) (*Ack, error) {
	if err := s.pause(ctx, s.latency.Delete); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.departments.DeleteDepartment(ctx, department.DeleteDepartmentInput{Code: code, ActorID: actor}); err != nil {
		s.fail("delete_department", actor, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "delete_department").Str("actor", actor).Str("code", code).Msg("department deleted")
	return &Ack{Message: "Deleted"}, nil
}

// CreateEmployeeInput は社員作成の入力です。
type CreateEmployeeInput struct {
	FirstName      string
	LastName       string
	Gender         string
	Address        *string
	Position       string
	DepartmentCode string
}

// CreateEmployee は社員を作成します。社員番号は採番器から払い出されます。
func (s *Store) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*employee.Employee, error) {
	if err := s.pause(ctx, s.latency.Create); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Gender:         in.Gender,
		Address:        in.Address,
		Position:       in.Position,
		DepartmentCode: in.DepartmentCode,
		ActorID:        actor,
	})
	if err != nil {
		s.fail("create_employee", actor, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "create_employee").Str("actor", actor).Int64("number", created.Number).Msg("employee created")
	return created, nil
}

// ListEmployees はアクターに可視な社員を返します。
func (s *Store) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	if err := s.pause(ctx, s.latency.List); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	listed, err := s.employees.ListEmployees(ctx, employee.ListEmployeesInput{ActorID: actor})
	if err != nil {
		s.fail("list_employees", actor, err)
		return nil, toStoreError(err)
	}
	return listed, nil
}

// DeleteEmployee は社員番号で社員を削除します。紐づく給与明細は残ります。
func (s *Store) DeleteEmployee(ctx context.Context, number int64) (*Ack, error) {
	if err := s.pause(ctx, s.latency.Delete); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{Number: number, ActorID: actor}); err != nil {
		s.fail("delete_employee", actor, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "delete_employee").Str("actor", actor).Int64("number", number).Msg("employee deleted")
	return &Ack{Message: "Deleted"}, nil
}

// CreateSalaryInput は給与明細作成の入力です。Deductions が nil の場合は
// 0 として扱われます。
type CreateSalaryInput struct {
	EmployeeNumber int64
	Month          string
	Deductions     *float64
}

// CreateSalary は給与明細を作成します。
func (s *Store) CreateSalary(ctx context.Context, in CreateSalaryInput) (*payroll.Record, error) {
	if err := s.pause(ctx, s.latency.Create); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.payroll.CreateRecord(ctx, payroll.CreateRecordInput{
		EmployeeNumber: in.EmployeeNumber,
		Month:          in.Month,
		Deductions:     in.Deductions,
		ActorID:        actor,
	})
	if err != nil {
		s.fail("create_salary", actor, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "create_salary").Str("actor", actor).Str("salary_id", created.SalaryID).Msg("salary record created")
	return created, nil
}

// ListSalaries はアクターに可視な給与明細を社員情報付きで返します。
func (s *Store) ListSalaries(ctx context.Context) ([]*payroll.EnrichedRecord, error) {
	if err := s.pause(ctx, s.latency.List); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	listed, err := s.payroll.ListRecords(ctx, payroll.ListRecordsInput{ActorID: actor})
	if err != nil {
		s.fail("list_salaries", actor, err)
		return nil, toStoreError(err)
	}
	return listed, nil
}

// DeleteSalary は給与明細 ID で明細を削除します。
func (s *Store) DeleteSalary(ctx context.Context, salaryID string) (*Ack, error) {
	if err := s.pause(ctx, s.latency.Delete); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.payroll.DeleteRecord(ctx, payroll.DeleteRecordInput{SalaryID: salaryID, ActorID: actor}); err != nil {
		s.fail("delete_salary", actor, err)
		return nil, toStoreError(err)
	}

	s.log.Info().Str("op", "delete_salary").Str("actor", actor).Str("salary_id", salaryID).Msg("salary record deleted")
	return &Ack{Message: "Deleted"}, nil
}

// ReportOutput は絞り込み済みの表示行と集計値の組です。
type ReportOutput struct {
	Rows   []report.Row  `json:"rows"`
	Totals report.Totals `json:"totals"`
}

// Report はアクターに可視な給与明細をフィルターで絞り込み、部門名を
// 結合した表示行と集計値を返します。
func (s *Store) Report(ctx context.Context, f report.Filter) (*ReportOutput, error) {
	if err := s.pause(ctx, s.latency.List); err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.payroll.ListRecords(ctx, payroll.ListRecordsInput{ActorID: actor})
	if err != nil {
		s.fail("report", actor, err)
		return nil, toStoreError(err)
	}

	employees, err := s.employees.ListEmployees(ctx, employee.ListEmployeesInput{ActorID: actor})
	if err != nil {
		s.fail("report", actor, err)
		return nil, toStoreError(err)
	}

	departments, err := s.departments.ListDepartments(ctx, department.ListDepartmentsInput{ActorID: actor})
	if err != nil {
		s.fail("report", actor, err)
		return nil, toStoreError(err)
	}

	filtered := report.Apply(records, employees, f)
	return &ReportOutput{
		Rows:   report.Join(filtered, employees, departments),
		Totals: report.Aggregate(filtered),
	}, nil
}

// actor はアクティブなセッションからアクター ID を解決します。セッションが
// 存在しない場合は guest として扱います(既存挙動の踏襲)。
func (s *Store) actor(ctx context.Context) (string, error) {
	view, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, account.ErrNoSession) {
			return guestActor, nil
		}
		return "", toStoreError(err)
	}
	return view.ID, nil
}

// pause は設定された疑似レイテンシのあいだ待機します。
func (s *Store) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) fail(op, actor string, err error) {
	evt := s.log.Warn().Str("op", op).Err(err)
	if actor != "" {
		evt = evt.Str("actor", actor)
	}
	evt.Msg("operation failed")
}

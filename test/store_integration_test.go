package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ogurasousui/epms-core/internal/adapters/api"
	"github.com/ogurasousui/epms-core/internal/adapters/repository/blob"
	"github.com/ogurasousui/epms-core/internal/core/account"
	"github.com/ogurasousui/epms-core/internal/core/department"
	"github.com/ogurasousui/epms-core/internal/core/employee"
	"github.com/ogurasousui/epms-core/internal/core/payroll"
	"github.com/ogurasousui/epms-core/internal/core/report"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
	"github.com/ogurasousui/epms-core/internal/platform/token"
)

func newStore(t *testing.T) *api.Store {
	t.Helper()

	blobStore := kv.NewMemory()

	accountRepo := blob.NewAccountRepository(blobStore)
	sessionRepo := blob.NewSessionRepository(blobStore)
	departmentRepo := blob.NewDepartmentRepository(blobStore, false)
	employeeRepo := blob.NewEmployeeRepository(blobStore, false)
	payrollRepo := blob.NewPayrollRepository(blobStore, false)
	sequenceRepo := blob.NewSequenceRepository(blobStore)
	directory := blob.NewDirectory(employeeRepo, departmentRepo)

	signer := token.NewSigner("integration-secret", time.Hour)

	return api.NewStore(api.StoreOptions{
		Accounts:    account.NewService(accountRepo, signer, nil),
		Departments: department.NewService(departmentRepo, nil),
		Employees:   employee.NewService(employeeRepo, sequenceRepo, nil),
		Payroll:     payroll.NewService(payrollRepo, directory, nil),
		Sessions:    sessionRepo,
		Logger:      zerolog.Nop(),
	})
}

func signUpAndIn(t *testing.T, ctx context.Context, store *api.Store, username string) {
	t.Helper()

	if _, err := store.CreateAccount(ctx, api.CreateAccountInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret",
		FullName: "Integration User",
	}); err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}

	if _, err := store.CreateSession(ctx, api.CreateSessionInput{
		Username: username,
		Password: "secret",
	}); err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
}

func TestPayrollFlowIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)
	signUpAndIn(t, ctx, store, "jdoe")

	dept, err := store.CreateDepartment(ctx, api.CreateDepartmentInput{
		Code:        "IT",
		Name:        "Information Technology",
		GrossSalary: 5000,
	})
	if err != nil {
		t.Fatalf("CreateDepartment error: %v", err)
	}
	if dept.GrossSalary != 5000 {
		t.Fatalf("unexpected department: %+v", dept)
	}

	emp, err := store.CreateEmployee(ctx, api.CreateEmployeeInput{
		FirstName:      "John",
		LastName:       "Doe",
		Position:       "Engineer",
		DepartmentCode: "IT",
	})
	if err != nil {
		t.Fatalf("CreateEmployee error: %v", err)
	}
	if emp.Number != 1 {
		t.Fatalf("employee number = %d, want 1", emp.Number)
	}

	deductions := 500.0
	sal, err := store.CreateSalary(ctx, api.CreateSalaryInput{
		EmployeeNumber: emp.Number,
		Month:          "2025-03",
		Deductions:     &deductions,
	})
	if err != nil {
		t.Fatalf("CreateSalary error: %v", err)
	}
	if sal.GrossSalary != 5000 || sal.NetSalary != 4500 {
		t.Fatalf("unexpected salary amounts: %+v", sal)
	}
	if sal.SalaryID == "" {
		t.Fatal("expected assigned salary id")
	}

	listed, err := store.ListSalaries(ctx)
	if err != nil {
		t.Fatalf("ListSalaries error: %v", err)
	}
	if len(listed) != 1 || listed[0].FirstName != "John" || listed[0].Position != "Engineer" {
		t.Fatalf("unexpected enriched salaries: %+v", listed)
	}

	out, err := store.Report(ctx, report.Filter{DepartmentCode: "IT"})
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if out.Totals.Count != 1 || out.Totals.NetTotal != 4500 {
		t.Fatalf("unexpected totals: %+v", out.Totals)
	}
	if len(out.Rows) != 1 || out.Rows[0].DepartmentName != "Information Technology" {
		t.Fatalf("unexpected report rows: %+v", out.Rows)
	}
}

func TestDuplicateSalaryConflictIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)
	signUpAndIn(t, ctx, store, "jdoe")

	if _, err := store.CreateDepartment(ctx, api.CreateDepartmentInput{Code: "IT", Name: "IT", GrossSalary: 5000}); err != nil {
		t.Fatalf("CreateDepartment error: %v", err)
	}
	emp, err := store.CreateEmployee(ctx, api.CreateEmployeeInput{
		FirstName:      "John",
		LastName:       "Doe",
		Position:       "Engineer",
		DepartmentCode: "IT",
	})
	if err != nil {
		t.Fatalf("CreateEmployee error: %v", err)
	}

	if _, err := store.CreateSalary(ctx, api.CreateSalaryInput{EmployeeNumber: emp.Number, Month: "2025-03"}); err != nil {
		t.Fatalf("CreateSalary error: %v", err)
	}

	_, err = store.CreateSalary(ctx, api.CreateSalaryInput{EmployeeNumber: emp.Number, Month: "2025-03"})
	if api.KindOf(err) != api.KindConflict {
		t.Fatalf("KindOf = %s, want %s", api.KindOf(err), api.KindConflict)
	}

	// 失敗した作成はコレクションを変更しない
	listed, err := store.ListSalaries(ctx)
	if err != nil {
		t.Fatalf("ListSalaries error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 salary record, got %d", len(listed))
	}
}

func TestDuplicateUsernameConflictIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)

	input := api.CreateAccountInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "secret",
		FullName: "John Doe",
	}
	if _, err := store.CreateAccount(ctx, input); err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}

	input.Email = "other@example.com"
	_, err := store.CreateAccount(ctx, input)
	if api.KindOf(err) != api.KindConflict {
		t.Fatalf("KindOf = %s, want %s", api.KindOf(err), api.KindConflict)
	}
}

func TestTenantIsolationIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)

	signUpAndIn(t, ctx, store, "alice")
	if _, err := store.CreateDepartment(ctx, api.CreateDepartmentInput{Code: "IT", Name: "IT", GrossSalary: 5000}); err != nil {
		t.Fatalf("CreateDepartment error: %v", err)
	}
	if _, err := store.DeleteSession(ctx); err != nil {
		t.Fatalf("DeleteSession error: %v", err)
	}

	signUpAndIn(t, ctx, store, "bob")

	// 部門コードは所有者をまたいで一意
	_, err := store.CreateDepartment(ctx, api.CreateDepartmentInput{Code: "IT", Name: "Bob IT", GrossSalary: 4000})
	if api.KindOf(err) != api.KindConflict {
		t.Fatalf("KindOf = %s, want %s", api.KindOf(err), api.KindConflict)
	}

	// 他アクターの部門は削除できない
	_, err = store.DeleteDepartment(ctx, "IT")
	if api.KindOf(err) != api.KindNotFound {
		t.Fatalf("KindOf = %s, want %s", api.KindOf(err), api.KindNotFound)
	}
}

func TestGuestActorIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)

	// セッションなしでも操作は guest アクターとして成功する
	dept, err := store.CreateDepartment(ctx, api.CreateDepartmentInput{Code: "OPS", Name: "Operations", GrossSalary: 3000})
	if err != nil {
		t.Fatalf("CreateDepartment error: %v", err)
	}
	if dept.OwnerID != "guest" {
		t.Fatalf("OwnerID = %q, want guest", dept.OwnerID)
	}

	listed, err := store.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("ListDepartments error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 department, got %d", len(listed))
	}
}

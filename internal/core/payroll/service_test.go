package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakePayrollRepo struct {
	records  []*Record
	sequence int
}

func (r *fakePayrollRepo) Create(_ context.Context, rec *Record) (*Record, error) {
	clone := cloneRecord(rec)
	r.sequence++
	clone.SalaryID = fmt.Sprintf("sal-%d", r.sequence)
	r.records = append(r.records, clone)
	return cloneRecord(clone), nil
}

func (r *fakePayrollRepo) FindByEmployeeAndMonth(_ context.Context, employeeNumber int64, month string) (*Record, error) {
	for _, rec := range r.records {
		if rec.EmployeeNumber == employeeNumber && rec.Month == month {
			return cloneRecord(rec), nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *fakePayrollRepo) List(_ context.Context, ownerID string) ([]*Record, error) {
	var visible []*Record
	for _, rec := range r.records {
		if rec.OwnerID == ownerID || rec.OwnerID == "" {
			visible = append(visible, cloneRecord(rec))
		}
	}
	return visible, nil
}

func (r *fakePayrollRepo) Delete(_ context.Context, salaryID, ownerID string) error {
	for idx, rec := range r.records {
		if rec.SalaryID == salaryID && (rec.OwnerID == ownerID || rec.OwnerID == "") {
			r.records = append(r.records[:idx], r.records[idx+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func cloneRecord(r *Record) *Record {
	if r == nil {
		return nil
	}
	copy := *r
	return &copy
}

type fakeDirectory struct {
	employees   map[int64]*EmployeeSnapshot
	owners      map[int64]string
	departments map[string]*DepartmentSnapshot
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		employees:   make(map[int64]*EmployeeSnapshot),
		owners:      make(map[int64]string),
		departments: make(map[string]*DepartmentSnapshot),
	}
}

func (d *fakeDirectory) addEmployee(emp EmployeeSnapshot, ownerID string) {
	d.employees[emp.Number] = &emp
	d.owners[emp.Number] = ownerID
}

func (d *fakeDirectory) addDepartment(dept DepartmentSnapshot) {
	d.departments[dept.Code] = &dept
}

func (d *fakeDirectory) VisibleEmployee(_ context.Context, ownerID string, number int64) (*EmployeeSnapshot, error) {
	emp, ok := d.employees[number]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	if owner := d.owners[number]; owner != "" && owner != ownerID {
		return nil, ErrEmployeeNotFound
	}
	clone := *emp
	return &clone, nil
}

func (d *fakeDirectory) EmployeeByNumber(_ context.Context, number int64) (*EmployeeSnapshot, error) {
	emp, ok := d.employees[number]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	clone := *emp
	return &clone, nil
}

func (d *fakeDirectory) DepartmentByCode(_ context.Context, code string) (*DepartmentSnapshot, error) {
	dept, ok := d.departments[code]
	if !ok {
		return nil, ErrDepartmentMissing
	}
	clone := *dept
	return &clone, nil
}

func deductions(v float64) *float64 {
	return &v
}

func TestService_CreateRecord_Success(t *testing.T) {
	t.Parallel()

	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, FirstName: "John", LastName: "Doe", Position: "Engineer", DepartmentCode: "IT"}, "acc-1")

	repo := &fakePayrollRepo{}
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, directory, &stubClock{now: now})

	created, err := svc.CreateRecord(context.Background(), CreateRecordInput{
		EmployeeNumber: 1,
		Month:          "2025-03",
		Deductions:     deductions(500),
		ActorID:        "acc-1",
	})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	if created.SalaryID == "" {
		t.Errorf("expected generated salary id")
	}
	if created.GrossSalary != 5000 {
		t.Errorf("expected gross salary frozen from department, got %v", created.GrossSalary)
	}
	if created.Deductions != 500 {
		t.Errorf("unexpected deductions: %v", created.Deductions)
	}
	if created.NetSalary != 4500 {
		t.Errorf("expected net salary 4500, got %v", created.NetSalary)
	}
	if created.OwnerID != "acc-1" {
		t.Errorf("expected owner acc-1, got %s", created.OwnerID)
	}
}

func TestService_CreateRecord_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   CreateRecordInput
		wantErr error
	}{
		{
			name:    "zero employee number",
			input:   CreateRecordInput{EmployeeNumber: 0, Month: "2025-03"},
			wantErr: ErrInvalidEmployeeNumber,
		},
		{
			name:    "negative employee number",
			input:   CreateRecordInput{EmployeeNumber: -3, Month: "2025-03"},
			wantErr: ErrInvalidEmployeeNumber,
		},
		{
			name:    "empty month",
			input:   CreateRecordInput{EmployeeNumber: 1},
			wantErr: ErrInvalidMonth,
		},
		{
			name:    "month without day separator",
			input:   CreateRecordInput{EmployeeNumber: 1, Month: "202503"},
			wantErr: ErrInvalidMonth,
		},
		{
			name:    "month out of range",
			input:   CreateRecordInput{EmployeeNumber: 1, Month: "2025-13"},
			wantErr: ErrInvalidMonth,
		},
		{
			name:    "negative deductions",
			input:   CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", Deductions: deductions(-1)},
			wantErr: ErrInvalidDeductions,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService(&fakePayrollRepo{}, newFakeDirectory(), nil)
			if _, err := svc.CreateRecord(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_CreateRecord_EmployeeNotVisible(t *testing.T) {
	t.Parallel()

	directory := newFakeDirectory()
	directory.addEmployee(EmployeeSnapshot{Number: 1, DepartmentCode: "IT"}, "acc-1")

	svc := NewService(&fakePayrollRepo{}, directory, nil)

	if _, err := svc.CreateRecord(context.Background(), CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-2"}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_CreateRecord_DuplicateMonth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, DepartmentCode: "IT"}, "acc-1")
	directory.addEmployee(EmployeeSnapshot{Number: 2, DepartmentCode: "IT"}, "acc-1")

	repo := &fakePayrollRepo{}
	svc := NewService(repo, directory, nil)

	if _, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"}); err != nil {
		t.Fatalf("first CreateRecord returned error: %v", err)
	}

	if _, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"}); !errors.Is(err, ErrRecordAlreadyExists) {
		t.Fatalf("expected ErrRecordAlreadyExists, got %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected collection unchanged, got %d records", len(repo.records))
	}

	// 別の月、別の社員は常に成功する
	if _, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-04", ActorID: "acc-1"}); err != nil {
		t.Fatalf("different month returned error: %v", err)
	}
	if _, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 2, Month: "2025-03", ActorID: "acc-1"}); err != nil {
		t.Fatalf("different employee returned error: %v", err)
	}
}

func TestService_CreateRecord_MissingDepartmentFallsBackToZero(t *testing.T) {
	t.Parallel()

	directory := newFakeDirectory()
	directory.addEmployee(EmployeeSnapshot{Number: 1, DepartmentCode: "GHOST"}, "acc-1")

	svc := NewService(&fakePayrollRepo{}, directory, nil)

	created, err := svc.CreateRecord(context.Background(), CreateRecordInput{
		EmployeeNumber: 1,
		Month:          "2025-03",
		Deductions:     deductions(200),
		ActorID:        "acc-1",
	})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	if created.GrossSalary != 0 {
		t.Errorf("expected gross salary 0 for missing department, got %v", created.GrossSalary)
	}
	if created.NetSalary != -200 {
		t.Errorf("expected negative net salary kept as-is, got %v", created.NetSalary)
	}
}

func TestService_CreateRecord_DefaultDeductions(t *testing.T) {
	t.Parallel()

	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, DepartmentCode: "IT"}, "acc-1")

	svc := NewService(&fakePayrollRepo{}, directory, nil)

	created, err := svc.CreateRecord(context.Background(), CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}
	if created.Deductions != 0 {
		t.Errorf("expected deductions default 0, got %v", created.Deductions)
	}
	if created.NetSalary != 5000 {
		t.Errorf("expected net salary equal to gross, got %v", created.NetSalary)
	}
}

func TestService_CreateRecord_GrossFrozenAtCreation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, DepartmentCode: "IT"}, "acc-1")

	repo := &fakePayrollRepo{}
	svc := NewService(repo, directory, nil)

	created, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	// 部門が消えても既存明細の総支給額は変わらない
	delete(directory.departments, "IT")

	listed, err := svc.ListRecords(ctx, ListRecordsInput{ActorID: "acc-1"})
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one record, got %d", len(listed))
	}
	if listed[0].GrossSalary != created.GrossSalary {
		t.Fatalf("expected gross salary frozen at %v, got %v", created.GrossSalary, listed[0].GrossSalary)
	}
}

func TestService_ListRecords_Enrichment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, FirstName: "John", LastName: "Doe", Position: "Engineer", DepartmentCode: "IT"}, "acc-1")

	svc := NewService(&fakePayrollRepo{}, directory, nil)

	if _, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"}); err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	listed, err := svc.ListRecords(ctx, ListRecordsInput{ActorID: "acc-1"})
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one record, got %d", len(listed))
	}
	row := listed[0]
	if row.FirstName != "John" || row.LastName != "Doe" || row.Position != "Engineer" {
		t.Fatalf("unexpected enrichment: %+v", row)
	}
}

func TestService_ListRecords_OrphanedRowGetsPlaceholders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, FirstName: "John", LastName: "Doe", Position: "Engineer", DepartmentCode: "IT"}, "acc-1")

	svc := NewService(&fakePayrollRepo{}, directory, nil)

	if _, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"}); err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	// 社員を削除しても給与明細は残り、結合はプレースホルダーになる
	delete(directory.employees, 1)

	listed, err := svc.ListRecords(ctx, ListRecordsInput{ActorID: "acc-1"})
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected orphaned record kept, got %d", len(listed))
	}
	row := listed[0]
	if row.FirstName != PlaceholderName {
		t.Errorf("expected placeholder first name, got %q", row.FirstName)
	}
	if row.LastName != "" {
		t.Errorf("expected empty last name, got %q", row.LastName)
	}
	if row.Position != PlaceholderPosition {
		t.Errorf("expected placeholder position, got %q", row.Position)
	}
}

func TestService_DeleteRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	directory := newFakeDirectory()
	directory.addDepartment(DepartmentSnapshot{Code: "IT", GrossSalary: 5000})
	directory.addEmployee(EmployeeSnapshot{Number: 1, DepartmentCode: "IT"}, "acc-1")

	repo := &fakePayrollRepo{}
	svc := NewService(repo, directory, nil)

	created, err := svc.CreateRecord(ctx, CreateRecordInput{EmployeeNumber: 1, Month: "2025-03", ActorID: "acc-1"})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	if err := svc.DeleteRecord(ctx, DeleteRecordInput{SalaryID: created.SalaryID, ActorID: "acc-2"}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for other actor, got %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected collection unchanged, got %d", len(repo.records))
	}

	if err := svc.DeleteRecord(ctx, DeleteRecordInput{SalaryID: created.SalaryID, ActorID: "acc-1"}); err != nil {
		t.Fatalf("DeleteRecord returned error: %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected record removed, got %d", len(repo.records))
	}

	if err := svc.DeleteRecord(ctx, DeleteRecordInput{SalaryID: "missing", ActorID: "acc-1"}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

package blob

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ogurasousui/epms-core/internal/core/payroll"
	"github.com/ogurasousui/epms-core/internal/platform/kv"
)

// PayrollRepository はブロブストアを利用した給与明細永続化の実装です。
type PayrollRepository struct {
	store  kv.Store
	strict bool
	mu     sync.Mutex
}

// NewPayrollRepository は PayrollRepository を生成します。
func NewPayrollRepository(store kv.Store, strict bool) *PayrollRepository {
	return &PayrollRepository{store: store, strict: strict}
}

// Create は給与明細を新規作成します。SalaryID は時刻ベースのトークンで
// 採番され、既存 ID と衝突する場合はインクリメントして一意にします。
func (r *PayrollRepository) Create(ctx context.Context, rec *payroll.Record) (*payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, existing := range records {
		if existing.EmployeeNumber == rec.EmployeeNumber && existing.Month == rec.Month {
			return nil, payroll.ErrRecordAlreadyExists
		}
	}

	created := *rec
	created.SalaryID = nextSalaryID(records)
	records = append(records, created)

	if err := saveJSON(ctx, r.store, keySalaries, records); err != nil {
		return nil, err
	}

	return &created, nil
}

// FindByEmployeeAndMonth は所有者を問わず (社員番号, 支給月) で明細を取得します。
func (r *PayrollRepository) FindByEmployeeAndMonth(ctx context.Context, employeeNumber int64, month string) (*payroll.Record, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.EmployeeNumber == employeeNumber && rec.Month == month {
			found := rec
			return &found, nil
		}
	}
	return nil, payroll.ErrRecordNotFound
}

// List はアクターに可視な給与明細を挿入順で返します。
func (r *PayrollRepository) List(ctx context.Context, ownerID string) ([]*payroll.Record, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*payroll.Record, 0, len(records))
	for _, rec := range records {
		if visibleTo(rec.OwnerID, ownerID, r.strict) {
			found := rec
			visible = append(visible, &found)
		}
	}
	return visible, nil
}

// Delete は給与明細 ID で可視な明細を 1 件削除します。
func (r *PayrollRepository) Delete(ctx context.Context, salaryID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	for idx, rec := range records {
		if rec.SalaryID == salaryID && visibleTo(rec.OwnerID, ownerID, r.strict) {
			records = append(records[:idx], records[idx+1:]...)
			return saveJSON(ctx, r.store, keySalaries, records)
		}
	}
	return payroll.ErrRecordNotFound
}

func (r *PayrollRepository) load(ctx context.Context) ([]payroll.Record, error) {
	var records []payroll.Record
	if err := loadJSON(ctx, r.store, keySalaries, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func nextSalaryID(records []payroll.Record) string {
	ts := time.Now().UnixNano()
	for {
		id := strconv.FormatInt(ts, 10)
		if !salaryIDExists(records, id) {
			return id
		}
		ts++
	}
}

func salaryIDExists(records []payroll.Record, id string) bool {
	for _, rec := range records {
		if rec.SalaryID == id {
			return true
		}
	}
	return false
}

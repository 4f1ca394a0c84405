package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

var _ batchRepo = &batchRepoMock{}

type batchRepoMock struct {
	CreateFunc               func(ctx context.Context, b *domain.Batch) error
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	GetByIDForUpdateFunc     func(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListByTenantFunc         func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Batch, error)
	FindRecentEmptyDraftFunc func(ctx context.Context, tenantID uuid.UUID, name string, since time.Time) (*domain.Batch, error)
	UpdateNameFunc           func(ctx context.Context, id uuid.UUID, name string) error
	SetAttributeKeysFunc     func(ctx context.Context, id uuid.UUID, keys []string) error
	MarkInUseFunc            func(ctx context.Context, id uuid.UUID, effective time.Time) error
	MarkUsedFunc             func(ctx context.Context, id uuid.UUID, expiration time.Time) error
	DeleteFunc               func(ctx context.Context, id uuid.UUID) error
	StatsForFunc             func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.RowStats, error)
	InsertRowsFunc           func(ctx context.Context, rows []*domain.ValueRow, keys []string, types map[string]domain.AttributeType) error
	RowsByBatchFunc          func(ctx context.Context, batchID uuid.UUID, keys []string, types map[string]domain.AttributeType) ([]*domain.ValueRow, error)
	GetRowFunc               func(ctx context.Context, rowID uuid.UUID, keys []string, types map[string]domain.AttributeType) (*domain.ValueRow, error)
	UpdateRowValuesFunc      func(ctx context.Context, rowID uuid.UUID, values map[string]string, types map[string]domain.AttributeType) error
	LockEmployeesFunc        func(ctx context.Context, tenantID uuid.UUID, employeeKeys []string) error
	ActiveRowsElsewhereFunc  func(ctx context.Context, tenantID uuid.UUID, employeeKeys []string, excludeBatch uuid.UUID) ([]*domain.ValueRow, error)
	MarkRowsUsedFunc         func(ctx context.Context, ids []uuid.UUID) error
	ActivateRowsFunc         func(ctx context.Context, batchID uuid.UUID, at time.Time) error
	EndRowsFunc              func(ctx context.Context, batchID uuid.UUID) error
	CountRowsFunc            func(ctx context.Context, batchID uuid.UUID) (int, error)

	calls struct {
		Create       []struct{ Batch *domain.Batch }
		UpdateName   []struct {
			ID   uuid.UUID
			Name string
		}
		SetAttributeKeys []struct {
			ID   uuid.UUID
			Keys []string
		}
		MarkInUse []struct {
			ID        uuid.UUID
			Effective time.Time
		}
		MarkUsed []struct {
			ID         uuid.UUID
			Expiration time.Time
		}
		Delete     []struct{ ID uuid.UUID }
		InsertRows []struct {
			Rows []*domain.ValueRow
			Keys []string
		}
		UpdateRowValues []struct {
			RowID  uuid.UUID
			Values map[string]string
		}
		LockEmployees []struct {
			TenantID     uuid.UUID
			EmployeeKeys []string
		}
		MarkRowsUsed []struct{ IDs []uuid.UUID }
		ActivateRows []struct {
			BatchID uuid.UUID
			At      time.Time
		}
		EndRows []struct{ BatchID uuid.UUID }
	}
	mu sync.RWMutex
}

func (mock *batchRepoMock) Create(ctx context.Context, b *domain.Batch) error {
	if mock.CreateFunc == nil {
		panic("batchRepoMock.CreateFunc: method is nil but batchRepo.Create was just called")
	}
	mock.mu.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Batch *domain.Batch }{Batch: b})
	mock.mu.Unlock()
	return mock.CreateFunc(ctx, b)
}

func (mock *batchRepoMock) CreateCalls() []struct{ Batch *domain.Batch } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Create
}

func (mock *batchRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	if mock.GetByIDFunc == nil {
		panic("batchRepoMock.GetByIDFunc: method is nil but batchRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *batchRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	if mock.GetByIDForUpdateFunc == nil {
		panic("batchRepoMock.GetByIDForUpdateFunc: method is nil but batchRepo.GetByIDForUpdate was just called")
	}
	return mock.GetByIDForUpdateFunc(ctx, id)
}

func (mock *batchRepoMock) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Batch, error) {
	if mock.ListByTenantFunc == nil {
		panic("batchRepoMock.ListByTenantFunc: method is nil but batchRepo.ListByTenant was just called")
	}
	return mock.ListByTenantFunc(ctx, tenantID)
}

func (mock *batchRepoMock) FindRecentEmptyDraft(ctx context.Context, tenantID uuid.UUID, name string, since time.Time) (*domain.Batch, error) {
	if mock.FindRecentEmptyDraftFunc == nil {
		panic("batchRepoMock.FindRecentEmptyDraftFunc: method is nil but batchRepo.FindRecentEmptyDraft was just called")
	}
	return mock.FindRecentEmptyDraftFunc(ctx, tenantID, name, since)
}

func (mock *batchRepoMock) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	if mock.UpdateNameFunc == nil {
		panic("batchRepoMock.UpdateNameFunc: method is nil but batchRepo.UpdateName was just called")
	}
	callInfo := struct {
		ID   uuid.UUID
		Name string
	}{ID: id, Name: name}
	mock.mu.Lock()
	mock.calls.UpdateName = append(mock.calls.UpdateName, callInfo)
	mock.mu.Unlock()
	return mock.UpdateNameFunc(ctx, id, name)
}

func (mock *batchRepoMock) UpdateNameCalls() []struct {
	ID   uuid.UUID
	Name string
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.UpdateName
}

func (mock *batchRepoMock) SetAttributeKeys(ctx context.Context, id uuid.UUID, keys []string) error {
	if mock.SetAttributeKeysFunc == nil {
		panic("batchRepoMock.SetAttributeKeysFunc: method is nil but batchRepo.SetAttributeKeys was just called")
	}
	callInfo := struct {
		ID   uuid.UUID
		Keys []string
	}{ID: id, Keys: keys}
	mock.mu.Lock()
	mock.calls.SetAttributeKeys = append(mock.calls.SetAttributeKeys, callInfo)
	mock.mu.Unlock()
	return mock.SetAttributeKeysFunc(ctx, id, keys)
}

func (mock *batchRepoMock) SetAttributeKeysCalls() []struct {
	ID   uuid.UUID
	Keys []string
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.SetAttributeKeys
}

func (mock *batchRepoMock) MarkInUse(ctx context.Context, id uuid.UUID, effective time.Time) error {
	if mock.MarkInUseFunc == nil {
		panic("batchRepoMock.MarkInUseFunc: method is nil but batchRepo.MarkInUse was just called")
	}
	callInfo := struct {
		ID        uuid.UUID
		Effective time.Time
	}{ID: id, Effective: effective}
	mock.mu.Lock()
	mock.calls.MarkInUse = append(mock.calls.MarkInUse, callInfo)
	mock.mu.Unlock()
	return mock.MarkInUseFunc(ctx, id, effective)
}

func (mock *batchRepoMock) MarkInUseCalls() []struct {
	ID        uuid.UUID
	Effective time.Time
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.MarkInUse
}

func (mock *batchRepoMock) MarkUsed(ctx context.Context, id uuid.UUID, expiration time.Time) error {
	if mock.MarkUsedFunc == nil {
		panic("batchRepoMock.MarkUsedFunc: method is nil but batchRepo.MarkUsed was just called")
	}
	callInfo := struct {
		ID         uuid.UUID
		Expiration time.Time
	}{ID: id, Expiration: expiration}
	mock.mu.Lock()
	mock.calls.MarkUsed = append(mock.calls.MarkUsed, callInfo)
	mock.mu.Unlock()
	return mock.MarkUsedFunc(ctx, id, expiration)
}

func (mock *batchRepoMock) MarkUsedCalls() []struct {
	ID         uuid.UUID
	Expiration time.Time
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.MarkUsed
}

func (mock *batchRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("batchRepoMock.DeleteFunc: method is nil but batchRepo.Delete was just called")
	}
	mock.mu.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID uuid.UUID }{ID: id})
	mock.mu.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *batchRepoMock) DeleteCalls() []struct{ ID uuid.UUID } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Delete
}

func (mock *batchRepoMock) StatsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.RowStats, error) {
	if mock.StatsForFunc == nil {
		panic("batchRepoMock.StatsForFunc: method is nil but batchRepo.StatsFor was just called")
	}
	return mock.StatsForFunc(ctx, ids)
}

func (mock *batchRepoMock) InsertRows(ctx context.Context, rows []*domain.ValueRow, keys []string, types map[string]domain.AttributeType) error {
	if mock.InsertRowsFunc == nil {
		panic("batchRepoMock.InsertRowsFunc: method is nil but batchRepo.InsertRows was just called")
	}
	callInfo := struct {
		Rows []*domain.ValueRow
		Keys []string
	}{Rows: rows, Keys: keys}
	mock.mu.Lock()
	mock.calls.InsertRows = append(mock.calls.InsertRows, callInfo)
	mock.mu.Unlock()
	return mock.InsertRowsFunc(ctx, rows, keys, types)
}

func (mock *batchRepoMock) InsertRowsCalls() []struct {
	Rows []*domain.ValueRow
	Keys []string
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.InsertRows
}

func (mock *batchRepoMock) RowsByBatch(ctx context.Context, batchID uuid.UUID, keys []string, types map[string]domain.AttributeType) ([]*domain.ValueRow, error) {
	if mock.RowsByBatchFunc == nil {
		panic("batchRepoMock.RowsByBatchFunc: method is nil but batchRepo.RowsByBatch was just called")
	}
	return mock.RowsByBatchFunc(ctx, batchID, keys, types)
}

func (mock *batchRepoMock) GetRow(ctx context.Context, rowID uuid.UUID, keys []string, types map[string]domain.AttributeType) (*domain.ValueRow, error) {
	if mock.GetRowFunc == nil {
		panic("batchRepoMock.GetRowFunc: method is nil but batchRepo.GetRow was just called")
	}
	return mock.GetRowFunc(ctx, rowID, keys, types)
}

func (mock *batchRepoMock) UpdateRowValues(ctx context.Context, rowID uuid.UUID, values map[string]string, types map[string]domain.AttributeType) error {
	if mock.UpdateRowValuesFunc == nil {
		panic("batchRepoMock.UpdateRowValuesFunc: method is nil but batchRepo.UpdateRowValues was just called")
	}
	callInfo := struct {
		RowID  uuid.UUID
		Values map[string]string
	}{RowID: rowID, Values: values}
	mock.mu.Lock()
	mock.calls.UpdateRowValues = append(mock.calls.UpdateRowValues, callInfo)
	mock.mu.Unlock()
	return mock.UpdateRowValuesFunc(ctx, rowID, values, types)
}

func (mock *batchRepoMock) UpdateRowValuesCalls() []struct {
	RowID  uuid.UUID
	Values map[string]string
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.UpdateRowValues
}

func (mock *batchRepoMock) LockEmployees(ctx context.Context, tenantID uuid.UUID, employeeKeys []string) error {
	if mock.LockEmployeesFunc == nil {
		panic("batchRepoMock.LockEmployeesFunc: method is nil but batchRepo.LockEmployees was just called")
	}
	callInfo := struct {
		TenantID     uuid.UUID
		EmployeeKeys []string
	}{TenantID: tenantID, EmployeeKeys: employeeKeys}
	mock.mu.Lock()
	mock.calls.LockEmployees = append(mock.calls.LockEmployees, callInfo)
	mock.mu.Unlock()
	return mock.LockEmployeesFunc(ctx, tenantID, employeeKeys)
}

func (mock *batchRepoMock) LockEmployeesCalls() []struct {
	TenantID     uuid.UUID
	EmployeeKeys []string
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.LockEmployees
}

func (mock *batchRepoMock) ActiveRowsElsewhere(ctx context.Context, tenantID uuid.UUID, employeeKeys []string, excludeBatch uuid.UUID) ([]*domain.ValueRow, error) {
	if mock.ActiveRowsElsewhereFunc == nil {
		panic("batchRepoMock.ActiveRowsElsewhereFunc: method is nil but batchRepo.ActiveRowsElsewhere was just called")
	}
	return mock.ActiveRowsElsewhereFunc(ctx, tenantID, employeeKeys, excludeBatch)
}

func (mock *batchRepoMock) MarkRowsUsed(ctx context.Context, ids []uuid.UUID) error {
	if mock.MarkRowsUsedFunc == nil {
		panic("batchRepoMock.MarkRowsUsedFunc: method is nil but batchRepo.MarkRowsUsed was just called")
	}
	mock.mu.Lock()
	mock.calls.MarkRowsUsed = append(mock.calls.MarkRowsUsed, struct{ IDs []uuid.UUID }{IDs: ids})
	mock.mu.Unlock()
	return mock.MarkRowsUsedFunc(ctx, ids)
}

func (mock *batchRepoMock) MarkRowsUsedCalls() []struct{ IDs []uuid.UUID } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.MarkRowsUsed
}

func (mock *batchRepoMock) ActivateRows(ctx context.Context, batchID uuid.UUID, at time.Time) error {
	if mock.ActivateRowsFunc == nil {
		panic("batchRepoMock.ActivateRowsFunc: method is nil but batchRepo.ActivateRows was just called")
	}
	callInfo := struct {
		BatchID uuid.UUID
		At      time.Time
	}{BatchID: batchID, At: at}
	mock.mu.Lock()
	mock.calls.ActivateRows = append(mock.calls.ActivateRows, callInfo)
	mock.mu.Unlock()
	return mock.ActivateRowsFunc(ctx, batchID, at)
}

func (mock *batchRepoMock) ActivateRowsCalls() []struct {
	BatchID uuid.UUID
	At      time.Time
} {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.ActivateRows
}

func (mock *batchRepoMock) EndRows(ctx context.Context, batchID uuid.UUID) error {
	if mock.EndRowsFunc == nil {
		panic("batchRepoMock.EndRowsFunc: method is nil but batchRepo.EndRows was just called")
	}
	mock.mu.Lock()
	mock.calls.EndRows = append(mock.calls.EndRows, struct{ BatchID uuid.UUID }{BatchID: batchID})
	mock.mu.Unlock()
	return mock.EndRowsFunc(ctx, batchID)
}

func (mock *batchRepoMock) EndRowsCalls() []struct{ BatchID uuid.UUID } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.EndRows
}

func (mock *batchRepoMock) CountRows(ctx context.Context, batchID uuid.UUID) (int, error) {
	if mock.CountRowsFunc == nil {
		panic("batchRepoMock.CountRowsFunc: method is nil but batchRepo.CountRows was just called")
	}
	return mock.CountRowsFunc(ctx, batchID)
}

var _ defRepo = &defRepoMock{}

type defRepoMock struct {
	EffectiveForFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error)
}

func (mock *defRepoMock) EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error) {
	if mock.EffectiveForFunc == nil {
		panic("defRepoMock.EffectiveForFunc: method is nil but defRepo.EffectiveFor was just called")
	}
	return mock.EffectiveForFunc(ctx, tenantID)
}

var _ employeeRepo = &employeeRepoMock{}

type employeeRepoMock struct {
	FindByIdentitiesFunc func(ctx context.Context, tenantID uuid.UUID, identityKeys []string) (map[string]*domain.Employee, error)
}

func (mock *employeeRepoMock) FindByIdentities(ctx context.Context, tenantID uuid.UUID, identityKeys []string) (map[string]*domain.Employee, error) {
	if mock.FindByIdentitiesFunc == nil {
		panic("employeeRepoMock.FindByIdentitiesFunc: method is nil but employeeRepo.FindByIdentities was just called")
	}
	return mock.FindByIdentitiesFunc(ctx, tenantID, identityKeys)
}

var _ auditRepo = &auditRepoMock{}

type auditRepoMock struct {
	AppendFunc      func(ctx context.Context, e *domain.AuditEntry) error
	AppendAllFunc   func(ctx context.Context, entries []*domain.AuditEntry) error
	ListByBatchFunc func(ctx context.Context, batchID uuid.UUID, level *domain.AuditLevel) ([]*domain.AuditEntry, error)
	CountsFunc      func(ctx context.Context, batchID uuid.UUID) (domain.AuditCounts, error)

	calls struct {
		Append    []struct{ Entry *domain.AuditEntry }
		AppendAll []struct{ Entries []*domain.AuditEntry }
	}
	mu sync.RWMutex
}

func (mock *auditRepoMock) Append(ctx context.Context, e *domain.AuditEntry) error {
	if mock.AppendFunc == nil {
		panic("auditRepoMock.AppendFunc: method is nil but auditRepo.Append was just called")
	}
	mock.mu.Lock()
	mock.calls.Append = append(mock.calls.Append, struct{ Entry *domain.AuditEntry }{Entry: e})
	mock.mu.Unlock()
	return mock.AppendFunc(ctx, e)
}

func (mock *auditRepoMock) AppendCalls() []struct{ Entry *domain.AuditEntry } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Append
}

func (mock *auditRepoMock) AppendAll(ctx context.Context, entries []*domain.AuditEntry) error {
	if mock.AppendAllFunc == nil {
		panic("auditRepoMock.AppendAllFunc: method is nil but auditRepo.AppendAll was just called")
	}
	mock.mu.Lock()
	mock.calls.AppendAll = append(mock.calls.AppendAll, struct{ Entries []*domain.AuditEntry }{Entries: entries})
	mock.mu.Unlock()
	return mock.AppendAllFunc(ctx, entries)
}

func (mock *auditRepoMock) AppendAllCalls() []struct{ Entries []*domain.AuditEntry } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.AppendAll
}

func (mock *auditRepoMock) ListByBatch(ctx context.Context, batchID uuid.UUID, level *domain.AuditLevel) ([]*domain.AuditEntry, error) {
	if mock.ListByBatchFunc == nil {
		panic("auditRepoMock.ListByBatchFunc: method is nil but auditRepo.ListByBatch was just called")
	}
	return mock.ListByBatchFunc(ctx, batchID, level)
}

func (mock *auditRepoMock) Counts(ctx context.Context, batchID uuid.UUID) (domain.AuditCounts, error) {
	if mock.CountsFunc == nil {
		panic("auditRepoMock.CountsFunc: method is nil but auditRepo.Counts was just called")
	}
	return mock.CountsFunc(ctx, batchID)
}

var _ materializer = &materializerMock{}

type materializerMock struct {
	MaterializeFunc func(ctx context.Context, def *domain.AttributeDefinition) error

	calls struct {
		Materialize []struct{ Def *domain.AttributeDefinition }
	}
	mu sync.RWMutex
}

func (mock *materializerMock) Materialize(ctx context.Context, def *domain.AttributeDefinition) error {
	if mock.MaterializeFunc == nil {
		panic("materializerMock.MaterializeFunc: method is nil but materializer.Materialize was just called")
	}
	mock.mu.Lock()
	mock.calls.Materialize = append(mock.calls.Materialize, struct{ Def *domain.AttributeDefinition }{Def: def})
	mock.mu.Unlock()
	return mock.MaterializeFunc(ctx, def)
}

func (mock *materializerMock) MaterializeCalls() []struct{ Def *domain.AttributeDefinition } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Materialize
}

var _ projectionGenerator = &projectionGeneratorMock{}

type projectionGeneratorMock struct {
	GenerateFunc func(ctx context.Context, b *domain.Batch) (*domain.Projection, error)

	calls struct {
		Generate []struct{ Batch *domain.Batch }
	}
	mu sync.RWMutex
}

func (mock *projectionGeneratorMock) Generate(ctx context.Context, b *domain.Batch) (*domain.Projection, error) {
	if mock.GenerateFunc == nil {
		panic("projectionGeneratorMock.GenerateFunc: method is nil but projectionGenerator.Generate was just called")
	}
	mock.mu.Lock()
	mock.calls.Generate = append(mock.calls.Generate, struct{ Batch *domain.Batch }{Batch: b})
	mock.mu.Unlock()
	return mock.GenerateFunc(ctx, b)
}

func (mock *projectionGeneratorMock) GenerateCalls() []struct{ Batch *domain.Batch } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Generate
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

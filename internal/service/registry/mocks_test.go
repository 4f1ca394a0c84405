package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

var _ defRepo = &defRepoMock{}

type defRepoMock struct {
	CreateFunc          func(ctx context.Context, def *domain.AttributeDefinition) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.AttributeDefinition, error)
	GetByKeyFunc        func(ctx context.Context, key string) (*domain.AttributeDefinition, error)
	UpdateLabelFunc     func(ctx context.Context, id uuid.UUID, label string) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	EffectiveForFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error)
	ListFunc            func(ctx context.Context) ([]*domain.AttributeDefinition, error)

	calls struct {
		Create      []struct{ Def *domain.AttributeDefinition }
		UpdateLabel []struct {
			ID    uuid.UUID
			Label string
		}
		Delete []struct{ ID uuid.UUID }
	}
	lockCreate      sync.RWMutex
	lockUpdateLabel sync.RWMutex
	lockDelete      sync.RWMutex
}

func (mock *defRepoMock) Create(ctx context.Context, def *domain.AttributeDefinition) error {
	if mock.CreateFunc == nil {
		panic("defRepoMock.CreateFunc: method is nil but defRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Def *domain.AttributeDefinition }{Def: def})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, def)
}

func (mock *defRepoMock) CreateCalls() []struct{ Def *domain.AttributeDefinition } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *defRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttributeDefinition, error) {
	if mock.GetByIDFunc == nil {
		panic("defRepoMock.GetByIDFunc: method is nil but defRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *defRepoMock) GetByKey(ctx context.Context, key string) (*domain.AttributeDefinition, error) {
	if mock.GetByKeyFunc == nil {
		panic("defRepoMock.GetByKeyFunc: method is nil but defRepo.GetByKey was just called")
	}
	return mock.GetByKeyFunc(ctx, key)
}

func (mock *defRepoMock) UpdateLabel(ctx context.Context, id uuid.UUID, label string) error {
	if mock.UpdateLabelFunc == nil {
		panic("defRepoMock.UpdateLabelFunc: method is nil but defRepo.UpdateLabel was just called")
	}
	callInfo := struct {
		ID    uuid.UUID
		Label string
	}{ID: id, Label: label}
	mock.lockUpdateLabel.Lock()
	mock.calls.UpdateLabel = append(mock.calls.UpdateLabel, callInfo)
	mock.lockUpdateLabel.Unlock()
	return mock.UpdateLabelFunc(ctx, id, label)
}

func (mock *defRepoMock) UpdateLabelCalls() []struct {
	ID    uuid.UUID
	Label string
} {
	mock.lockUpdateLabel.RLock()
	calls := mock.calls.UpdateLabel
	mock.lockUpdateLabel.RUnlock()
	return calls
}

func (mock *defRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("defRepoMock.DeleteFunc: method is nil but defRepo.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID uuid.UUID }{ID: id})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *defRepoMock) DeleteCalls() []struct{ ID uuid.UUID } {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *defRepoMock) EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error) {
	if mock.EffectiveForFunc == nil {
		panic("defRepoMock.EffectiveForFunc: method is nil but defRepo.EffectiveFor was just called")
	}
	return mock.EffectiveForFunc(ctx, tenantID)
}

func (mock *defRepoMock) List(ctx context.Context) ([]*domain.AttributeDefinition, error) {
	if mock.ListFunc == nil {
		panic("defRepoMock.ListFunc: method is nil but defRepo.List was just called")
	}
	return mock.ListFunc(ctx)
}

var _ materializer = &materializerMock{}

type materializerMock struct {
	MaterializeFunc func(ctx context.Context, def *domain.AttributeDefinition) error
	DropFunc        func(ctx context.Context, def *domain.AttributeDefinition) error
	ColumnInUseFunc func(ctx context.Context, def *domain.AttributeDefinition) (bool, error)
	SyncLabelFunc   func(ctx context.Context, key, label string) error

	calls struct {
		Materialize []struct{ Def *domain.AttributeDefinition }
		Drop        []struct{ Def *domain.AttributeDefinition }
		SyncLabel   []struct {
			Key   string
			Label string
		}
	}
	lockMaterialize sync.RWMutex
	lockDrop        sync.RWMutex
	lockSyncLabel   sync.RWMutex
}

func (mock *materializerMock) Materialize(ctx context.Context, def *domain.AttributeDefinition) error {
	if mock.MaterializeFunc == nil {
		panic("materializerMock.MaterializeFunc: method is nil but materializer.Materialize was just called")
	}
	mock.lockMaterialize.Lock()
	mock.calls.Materialize = append(mock.calls.Materialize, struct{ Def *domain.AttributeDefinition }{Def: def})
	mock.lockMaterialize.Unlock()
	return mock.MaterializeFunc(ctx, def)
}

func (mock *materializerMock) MaterializeCalls() []struct{ Def *domain.AttributeDefinition } {
	mock.lockMaterialize.RLock()
	calls := mock.calls.Materialize
	mock.lockMaterialize.RUnlock()
	return calls
}

func (mock *materializerMock) Drop(ctx context.Context, def *domain.AttributeDefinition) error {
	if mock.DropFunc == nil {
		panic("materializerMock.DropFunc: method is nil but materializer.Drop was just called")
	}
	mock.lockDrop.Lock()
	mock.calls.Drop = append(mock.calls.Drop, struct{ Def *domain.AttributeDefinition }{Def: def})
	mock.lockDrop.Unlock()
	return mock.DropFunc(ctx, def)
}

func (mock *materializerMock) DropCalls() []struct{ Def *domain.AttributeDefinition } {
	mock.lockDrop.RLock()
	calls := mock.calls.Drop
	mock.lockDrop.RUnlock()
	return calls
}

func (mock *materializerMock) ColumnInUse(ctx context.Context, def *domain.AttributeDefinition) (bool, error) {
	if mock.ColumnInUseFunc == nil {
		panic("materializerMock.ColumnInUseFunc: method is nil but materializer.ColumnInUse was just called")
	}
	return mock.ColumnInUseFunc(ctx, def)
}

func (mock *materializerMock) SyncLabel(ctx context.Context, key, label string) error {
	if mock.SyncLabelFunc == nil {
		panic("materializerMock.SyncLabelFunc: method is nil but materializer.SyncLabel was just called")
	}
	callInfo := struct {
		Key   string
		Label string
	}{Key: key, Label: label}
	mock.lockSyncLabel.Lock()
	mock.calls.SyncLabel = append(mock.calls.SyncLabel, callInfo)
	mock.lockSyncLabel.Unlock()
	return mock.SyncLabelFunc(ctx, key, label)
}

func (mock *materializerMock) SyncLabelCalls() []struct {
	Key   string
	Label string
} {
	mock.lockSyncLabel.RLock()
	calls := mock.calls.SyncLabel
	mock.lockSyncLabel.RUnlock()
	return calls
}

var _ projectionPruner = &projectionPrunerMock{}

type projectionPrunerMock struct {
	DeleteColumnsByKeyFunc func(ctx context.Context, fieldKey string) error

	calls struct {
		DeleteColumnsByKey []struct{ FieldKey string }
	}
	lockDeleteColumnsByKey sync.RWMutex
}

func (mock *projectionPrunerMock) DeleteColumnsByKey(ctx context.Context, fieldKey string) error {
	if mock.DeleteColumnsByKeyFunc == nil {
		panic("projectionPrunerMock.DeleteColumnsByKeyFunc: method is nil but projectionPruner.DeleteColumnsByKey was just called")
	}
	mock.lockDeleteColumnsByKey.Lock()
	mock.calls.DeleteColumnsByKey = append(mock.calls.DeleteColumnsByKey, struct{ FieldKey string }{FieldKey: fieldKey})
	mock.lockDeleteColumnsByKey.Unlock()
	return mock.DeleteColumnsByKeyFunc(ctx, fieldKey)
}

func (mock *projectionPrunerMock) DeleteColumnsByKeyCalls() []struct{ FieldKey string } {
	mock.lockDeleteColumnsByKey.RLock()
	calls := mock.calls.DeleteColumnsByKey
	mock.lockDeleteColumnsByKey.RUnlock()
	return calls
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

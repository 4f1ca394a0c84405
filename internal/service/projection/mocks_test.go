package projection

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

var _ projectionRepo = &projectionRepoMock{}

type projectionRepoMock struct {
	ReplaceFunc    func(ctx context.Context, p *domain.Projection) error
	GetByBatchFunc func(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error)

	calls struct {
		Replace []struct{ Projection *domain.Projection }
	}
	mu sync.RWMutex
}

func (mock *projectionRepoMock) Replace(ctx context.Context, p *domain.Projection) error {
	if mock.ReplaceFunc == nil {
		panic("projectionRepoMock.ReplaceFunc: method is nil but projectionRepo.Replace was just called")
	}
	mock.mu.Lock()
	mock.calls.Replace = append(mock.calls.Replace, struct{ Projection *domain.Projection }{Projection: p})
	mock.mu.Unlock()
	return mock.ReplaceFunc(ctx, p)
}

func (mock *projectionRepoMock) ReplaceCalls() []struct{ Projection *domain.Projection } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Replace
}

func (mock *projectionRepoMock) GetByBatch(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error) {
	if mock.GetByBatchFunc == nil {
		panic("projectionRepoMock.GetByBatchFunc: method is nil but projectionRepo.GetByBatch was just called")
	}
	return mock.GetByBatchFunc(ctx, batchID)
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

var _ batchRepo = &batchRepoMock{}

type batchRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
}

func (mock *batchRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	if mock.GetByIDFunc == nil {
		panic("batchRepoMock.GetByIDFunc: method is nil but batchRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

// Package registry manages the attribute catalog: defining, renaming and
// retiring the dynamic salary attributes, and keeping the physical storage
// columns in sync with the catalog.
package registry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

type defRepo interface {
	Create(ctx context.Context, def *domain.AttributeDefinition) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AttributeDefinition, error)
	GetByKey(ctx context.Context, key string) (*domain.AttributeDefinition, error)
	UpdateLabel(ctx context.Context, id uuid.UUID, label string) error
	Delete(ctx context.Context, id uuid.UUID) error
	EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error)
	List(ctx context.Context) ([]*domain.AttributeDefinition, error)
}

type materializer interface {
	Materialize(ctx context.Context, def *domain.AttributeDefinition) error
	Drop(ctx context.Context, def *domain.AttributeDefinition) error
	ColumnInUse(ctx context.Context, def *domain.AttributeDefinition) (bool, error)
	SyncLabel(ctx context.Context, key, label string) error
}

type projectionPruner interface {
	DeleteColumnsByKey(ctx context.Context, fieldKey string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides attribute catalog operations.
type Service struct {
	defs        defRepo
	schema      materializer
	projections projectionPruner
	tx          txManager
	log         *slog.Logger
}

// NewService creates a new registry service.
func NewService(
	log *slog.Logger,
	defs defRepo,
	schema materializer,
	projections projectionPruner,
	tx txManager,
) *Service {
	return &Service{
		defs:        defs,
		schema:      schema,
		projections: projections,
		tx:          tx,
		log:         log.With("service", "registry"),
	}
}

// Package projection generates and serves the read-only column layouts
// batches expose to reporting.
package projection

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

type projectionRepo interface {
	Replace(ctx context.Context, p *domain.Projection) error
	GetByBatch(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error)
}

type defRepo interface {
	EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error)
}

type batchRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
}

// Service provides projection generation and lookup.
type Service struct {
	projections projectionRepo
	defs        defRepo
	batches     batchRepo
	log         *slog.Logger
}

// NewService creates a new projection service.
func NewService(log *slog.Logger, projections projectionRepo, defs defRepo, batches batchRepo) *Service {
	return &Service{
		projections: projections,
		defs:        defs,
		batches:     batches,
		log:         log.With("service", "projection"),
	}
}

package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// EffectiveFor returns the attribute definitions visible to the tenant:
// global definitions plus those scoped to include it.
func (s *Service) EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant_id", "required")
	}
	defs, err := s.defs.EffectiveFor(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("effective definitions: %w", err)
	}
	return defs, nil
}

// List returns every attribute definition. Admin only.
func (s *Service) List(ctx context.Context) ([]*domain.AttributeDefinition, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}
	defs, err := s.defs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	return defs, nil
}

// Get returns one attribute definition by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.AttributeDefinition, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	def, err := s.defs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get definition: %w", err)
	}
	return def, nil
}

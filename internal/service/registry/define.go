package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Define creates an attribute definition and provisions its storage column.
// The technical key is derived from the display label and never changes
// afterwards; two labels folding to the same key collide as duplicates.
//
// Column provisioning failure is surfaced to the caller. The definition is
// kept with materialized=false so a retry (or the next import) can finish
// the job without re-entering the metadata.
func (s *Service) Define(ctx context.Context, input DefineInput) (*domain.AttributeDefinition, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(input.DisplayLabel)
	key, err := domain.TechnicalKey(label)
	if err != nil {
		return nil, domain.NewValidationError("display_label", "no usable characters after folding")
	}

	def := &domain.AttributeDefinition{
		ID:               uuid.New(),
		DisplayLabel:     label,
		TechnicalKey:     key,
		DataType:         input.DataType,
		TenantIDs:        input.TenantIDs,
		RequiredOnImport: input.RequiredOnImport,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.defs.Create(ctx, def); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			existing, getErr := s.defs.GetByKey(ctx, key)
			if getErr == nil {
				return nil, fmt.Errorf("label %q folds to key %q already used by %q: %w",
					label, key, existing.DisplayLabel, domain.ErrDuplicateKey)
			}
		}
		return nil, fmt.Errorf("create definition: %w", err)
	}

	if err := s.schema.Materialize(ctx, def); err != nil {
		s.log.ErrorContext(ctx, "column provisioning failed, definition kept pending",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "attribute defined",
		slog.String("key", key),
		slog.String("label", label),
		slog.String("type", string(def.DataType)),
		slog.Int("tenant_scopes", len(def.TenantIDs)),
	)
	return def, nil
}

// Package batch implements the policy batch lifecycle: creating drafts,
// importing value rows, approving, ending and auditing batches.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

type batchRepo interface {
	Create(ctx context.Context, b *domain.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Batch, error)
	FindRecentEmptyDraft(ctx context.Context, tenantID uuid.UUID, name string, since time.Time) (*domain.Batch, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	SetAttributeKeys(ctx context.Context, id uuid.UUID, keys []string) error
	MarkInUse(ctx context.Context, id uuid.UUID, effective time.Time) error
	MarkUsed(ctx context.Context, id uuid.UUID, expiration time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	StatsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.RowStats, error)

	InsertRows(ctx context.Context, rows []*domain.ValueRow, keys []string, types map[string]domain.AttributeType) error
	RowsByBatch(ctx context.Context, batchID uuid.UUID, keys []string, types map[string]domain.AttributeType) ([]*domain.ValueRow, error)
	GetRow(ctx context.Context, rowID uuid.UUID, keys []string, types map[string]domain.AttributeType) (*domain.ValueRow, error)
	UpdateRowValues(ctx context.Context, rowID uuid.UUID, values map[string]string, types map[string]domain.AttributeType) error
	LockEmployees(ctx context.Context, tenantID uuid.UUID, employeeKeys []string) error
	ActiveRowsElsewhere(ctx context.Context, tenantID uuid.UUID, employeeKeys []string, excludeBatch uuid.UUID) ([]*domain.ValueRow, error)
	MarkRowsUsed(ctx context.Context, ids []uuid.UUID) error
	ActivateRows(ctx context.Context, batchID uuid.UUID, at time.Time) error
	EndRows(ctx context.Context, batchID uuid.UUID) error
	CountRows(ctx context.Context, batchID uuid.UUID) (int, error)
}

type defRepo interface {
	EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error)
}

type employeeRepo interface {
	FindByIdentities(ctx context.Context, tenantID uuid.UUID, identityKeys []string) (map[string]*domain.Employee, error)
}

type auditRepo interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	AppendAll(ctx context.Context, entries []*domain.AuditEntry) error
	ListByBatch(ctx context.Context, batchID uuid.UUID, level *domain.AuditLevel) ([]*domain.AuditEntry, error)
	Counts(ctx context.Context, batchID uuid.UUID) (domain.AuditCounts, error)
}

type materializer interface {
	Materialize(ctx context.Context, def *domain.AttributeDefinition) error
}

type projectionGenerator interface {
	Generate(ctx context.Context, b *domain.Batch) (*domain.Projection, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config carries the service's tunables.
type Config struct {
	// DedupWindow is how long an empty draft with the same name blocks a
	// second create, absorbing double submits.
	DedupWindow time.Duration
}

// Service provides batch lifecycle operations.
type Service struct {
	batches     batchRepo
	defs        defRepo
	employees   employeeRepo
	audit       auditRepo
	schema      materializer
	projections projectionGenerator
	tx          txManager
	cfg         Config
	log         *slog.Logger
}

// NewService creates a new batch service.
func NewService(
	log *slog.Logger,
	batches batchRepo,
	defs defRepo,
	employees employeeRepo,
	audit auditRepo,
	schema materializer,
	projections projectionGenerator,
	tx txManager,
	cfg Config,
) *Service {
	return &Service{
		batches:     batches,
		defs:        defs,
		employees:   employees,
		audit:       audit,
		schema:      schema,
		projections: projections,
		tx:          tx,
		cfg:         cfg,
		log:         log.With("service", "batch"),
	}
}

// effectiveSet loads the tenant's attribute definitions keyed by technical key.
func (s *Service) effectiveSet(ctx context.Context, tenantID uuid.UUID) (domain.AttributeSet, error) {
	defs, err := s.defs.EffectiveFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return domain.NewAttributeSet(defs), nil
}

// typesOf maps technical keys to their data types for the given keys. Keys
// absent from the set fall back to text so stale values still round-trip.
func typesOf(set domain.AttributeSet, keys []string) map[string]domain.AttributeType {
	types := make(map[string]domain.AttributeType, len(keys))
	for _, k := range keys {
		if def, ok := set[k]; ok {
			types[k] = def.DataType
			continue
		}
		types[k] = domain.AttributeTypeText
	}
	return types
}

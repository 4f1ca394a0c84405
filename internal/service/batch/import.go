package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// ImportResult summarizes a finished import.
type ImportResult struct {
	Batch    *domain.Batch
	RowCount int
}

// Import loads spreadsheet rows into a draft batch. Validation runs in
// stages and each stage collects every error it finds before aborting, so
// the operator fixes a broken spreadsheet in one round trip, not one cell
// at a time. A batch imports exactly once; re-importing requires deleting
// the draft and starting over.
func (s *Service) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	b, err := s.batches.GetByID(ctx, input.BatchID)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if b.State != domain.StateDraft {
		return nil, fmt.Errorf("batch %s is %s: %w", b.ID, b.State, domain.ErrBatchNotDraft)
	}
	if b.Stats.Total > 0 {
		return nil, fmt.Errorf("batch %s: %w", b.ID, domain.ErrBatchAlreadyImported)
	}

	set, err := s.effectiveSet(ctx, b.TenantID)
	if err != nil {
		return nil, fmt.Errorf("effective definitions: %w", err)
	}

	// Stage 1: every value column must resolve to an effective definition,
	// and no two columns may resolve to the same one.
	headerKey, unknown, colliding := resolveHeaders(set, input.Headers)
	if len(unknown) > 0 {
		return nil, &domain.UnknownColumnsError{Columns: unknown}
	}
	if len(colliding) > 0 {
		return nil, &domain.DuplicateColumnsError{Columns: colliding}
	}

	keys := make([]string, 0, len(headerKey))
	for _, h := range input.Headers {
		keys = append(keys, headerKey[h])
	}

	// Definitions declared but never provisioned get their column now, so
	// the insert below cannot hit a missing column.
	for _, k := range keys {
		def := set[k]
		if def.Materialized {
			continue
		}
		if err := s.schema.Materialize(ctx, def); err != nil {
			return nil, fmt.Errorf("materialize pending %q: %w", k, err)
		}
	}

	// Stage 2: an employee appears at most once per batch.
	if dup := duplicateKeys(input.Rows); len(dup) > 0 {
		return nil, &domain.DuplicateEmployeeError{Keys: dup}
	}

	// Stage 3: every row must reference a known employee of the tenant.
	identities := make([]string, 0, len(input.Rows))
	for _, r := range input.Rows {
		identities = append(identities, r.EmployeeKey)
	}
	found, err := s.employees.FindByIdentities(ctx, b.TenantID, identities)
	if err != nil {
		return nil, fmt.Errorf("resolve employees: %w", err)
	}
	var missing []domain.RowIssue
	for _, r := range input.Rows {
		if _, ok := found[r.EmployeeKey]; !ok {
			missing = append(missing, domain.RowIssue{Line: r.Line, EmployeeKey: r.EmployeeKey})
		}
	}
	if len(missing) > 0 {
		return nil, &domain.EmployeeLookupError{Issues: missing}
	}

	// Stage 4: required attributes must be present and non-blank.
	if issues := requiredIssues(set, input.Headers, headerKey, input.Rows); len(issues) > 0 {
		return nil, &domain.RequiredFieldError{Issues: issues}
	}

	// Stage 5: every cell must parse as its attribute's data type.
	if issues := valueIssues(set, headerKey, input.Rows); len(issues) > 0 {
		return nil, &domain.InvalidValueError{Issues: issues}
	}

	types := typesOf(set, keys)
	now := time.Now().UTC()

	rows := make([]*domain.ValueRow, 0, len(input.Rows))
	for _, r := range input.Rows {
		emp := found[r.EmployeeKey]
		values := make(map[string]string, len(keys))
		for header, key := range headerKey {
			values[key] = domain.NormalizeValue(types[key], r.Values[header])
		}
		rows = append(rows, &domain.ValueRow{
			ID:           uuid.New(),
			BatchID:      b.ID,
			TenantID:     b.TenantID,
			EmployeeKey:  emp.IdentityKey,
			EmployeeName: emp.FullName,
			State:        domain.StateDraft,
			Values:       values,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-check under the row lock. The read above is a fast path; a
		// concurrent import or approve may have changed the batch since.
		locked, err := s.batches.GetByIDForUpdate(txCtx, b.ID)
		if err != nil {
			return fmt.Errorf("lock batch: %w", err)
		}
		if locked.State != domain.StateDraft {
			return fmt.Errorf("batch %s is %s: %w", locked.ID, locked.State, domain.ErrBatchNotDraft)
		}
		if locked.Stats.Total > 0 {
			return fmt.Errorf("batch %s: %w", locked.ID, domain.ErrBatchAlreadyImported)
		}

		if err := s.batches.InsertRows(txCtx, rows, keys, types); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		if err := s.batches.SetAttributeKeys(txCtx, b.ID, keys); err != nil {
			return fmt.Errorf("set attribute keys: %w", err)
		}

		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = set.Label(k)
		}
		fieldKey := "attribute_keys"
		entries := []*domain.AuditEntry{
			{
				ID:          uuid.New(),
				BatchID:     b.ID,
				TenantID:    b.TenantID,
				Level:       domain.AuditLevelBatch,
				Action:      domain.AuditActionFieldChange,
				FieldKey:    &fieldKey,
				OldValue:    "",
				NewValue:    strings.Join(keys, ","),
				Description: fmt.Sprintf("Attribute set: %s", strings.Join(labels, ", ")),
				ActorID:     actorID,
				CreatedAt:   now,
			},
			{
				ID:          uuid.New(),
				BatchID:     b.ID,
				TenantID:    b.TenantID,
				Level:       domain.AuditLevelBatch,
				Action:      domain.AuditActionImport,
				Description: fmt.Sprintf("Imported %d rows", len(rows)),
				ActorID:     actorID,
				CreatedAt:   now,
			},
		}
		if err := s.audit.AppendAll(txCtx, entries); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		b.AttributeKeys = keys
		if _, err := s.projections.Generate(txCtx, b); err != nil {
			return fmt.Errorf("generate projection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.Stats.Total = len(rows)
	s.log.InfoContext(ctx, "batch imported",
		slog.String("batch_id", b.ID.String()),
		slog.Int("rows", len(rows)),
		slog.Int("attributes", len(keys)),
	)
	return &ImportResult{Batch: b, RowCount: len(rows)}, nil
}

// resolveHeaders maps each display-label header to its technical key.
// Matching is by display label first, then by technical key, both
// case-insensitive. Unresolved headers come back in unknown. Headers whose
// key another header already claimed, as when a sheet carries both the
// label and the key of one attribute, come back in colliding.
func resolveHeaders(set domain.AttributeSet, headers []string) (map[string]string, []string, []string) {
	byKey := make(map[string]string, len(headers))
	claimed := make(map[string]string, len(headers))
	var unknown, colliding []string

	for _, h := range headers {
		key := ""
		for k, def := range set {
			if strings.EqualFold(def.DisplayLabel, h) || strings.EqualFold(k, h) {
				key = k
				break
			}
		}
		if key == "" {
			unknown = append(unknown, h)
			continue
		}
		if first, dup := claimed[key]; dup {
			colliding = append(colliding, first, h)
			continue
		}
		claimed[key] = h
		byKey[h] = key
	}
	sort.Strings(unknown)
	colliding = dedupSorted(colliding)
	return byKey, unknown, colliding
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func duplicateKeys(rows []domain.ImportRow) []string {
	seen := map[string]int{}
	for _, r := range rows {
		seen[r.EmployeeKey]++
	}
	var dup []string
	for k, n := range seen {
		if n > 1 {
			dup = append(dup, k)
		}
	}
	sort.Strings(dup)
	return dup
}

func requiredIssues(set domain.AttributeSet, headers []string, headerKey map[string]string, rows []domain.ImportRow) []domain.RowIssue {
	var issues []domain.RowIssue

	imported := map[string]string{} // key -> header
	for h, k := range headerKey {
		imported[k] = h
	}

	required := set.Required()
	sort.Slice(required, func(i, j int) bool {
		return required[i].TechnicalKey < required[j].TechnicalKey
	})

	for _, def := range required {
		header, present := imported[def.TechnicalKey]
		if !present {
			issues = append(issues, domain.RowIssue{Field: def.DisplayLabel})
			continue
		}
		for _, r := range rows {
			if strings.TrimSpace(r.Values[header]) == "" {
				issues = append(issues, domain.RowIssue{
					Line:        r.Line,
					EmployeeKey: r.EmployeeKey,
					Field:       def.DisplayLabel,
				})
			}
		}
	}
	return issues
}

func valueIssues(set domain.AttributeSet, headerKey map[string]string, rows []domain.ImportRow) []domain.RowIssue {
	var issues []domain.RowIssue
	for _, r := range rows {
		for header, key := range headerKey {
			raw := strings.TrimSpace(r.Values[header])
			if raw == "" {
				continue
			}
			if !domain.ValidValue(set[key].DataType, raw) {
				issues = append(issues, domain.RowIssue{
					Line:        r.Line,
					EmployeeKey: r.EmployeeKey,
					Field:       set[key].DisplayLabel,
				})
			}
		}
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Field < issues[j].Field
	})
	return issues
}

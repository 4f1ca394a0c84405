// Package schema is the controlled DDL executor behind the Attribute
// Registry: it turns definitions into physical columns on the value-row
// table and keeps the column metadata in sync with the registry. All
// materialization runs single-file behind a process mutex and a PostgreSQL
// advisory lock, since concurrent DDL against the same table is unsafe.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// rowTable is the table dynamic attribute columns are added to.
const rowTable = "policy_rows"

// advisoryLockID serializes materialization across processes sharing the
// database. Arbitrary but stable.
const advisoryLockID int64 = 0x6e6b5f736368656d // "nk_schem"

// validKey guards identifier interpolation: technical keys are ASCII slugs
// produced by the registry, anything else is rejected before reaching DDL.
var validKey = regexp.MustCompile(`^x_[a-z0-9_]+$`)

// Materializer provisions and removes storage columns for attribute
// definitions.
type Materializer struct {
	pool *pgxpool.Pool
	log  *slog.Logger

	mu sync.Mutex // one migration in flight per process
}

// New creates a Materializer.
func New(pool *pgxpool.Pool, log *slog.Logger) *Materializer {
	return &Materializer{
		pool: pool,
		log:  log.With("component", "materializer"),
	}
}

// storageType maps an attribute type to its column type. Columns are always
// nullable with no default so pre-existing rows stay untouched.
func storageType(t domain.AttributeType) (string, error) {
	switch t {
	case domain.AttributeTypeText:
		return "text", nil
	case domain.AttributeTypeInteger:
		return "bigint", nil
	case domain.AttributeTypeDecimal:
		return "numeric", nil
	case domain.AttributeTypeDate:
		return "date", nil
	case domain.AttributeTypeBoolean:
		return "boolean", nil
	}
	return "", fmt.Errorf("unsupported attribute type %q", t)
}

// Materialize provisions the definition's storage column and flips its
// materialized flag, atomically. If the column already exists only the label
// comment is re-synced. On failure the flag stays false so the definition can
// be retried; it is never left partially true.
func (m *Materializer) Materialize(ctx context.Context, def *domain.AttributeDefinition) error {
	if !validKey.MatchString(def.TechnicalKey) {
		return fmt.Errorf("materialize %q: %w", def.TechnicalKey, domain.ErrMaterializationFailed)
	}
	colType, err := storageType(def.DataType)
	if err != nil {
		return fmt.Errorf("materialize %q: %v: %w", def.TechnicalKey, err, domain.ErrMaterializationFailed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("materialize %q: begin: %w", def.TechnicalKey, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockID); err != nil {
		return fmt.Errorf("materialize %q: advisory lock: %w", def.TechnicalKey, err)
	}

	exists, err := columnExists(ctx, tx, def.TechnicalKey)
	if err != nil {
		return fmt.Errorf("materialize %q: %w", def.TechnicalKey, err)
	}

	if !exists {
		ddl := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %q %s NULL`, rowTable, def.TechnicalKey, colType)
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("materialize %q: add column: %v: %w",
				def.TechnicalKey, err, domain.ErrMaterializationFailed)
		}

		if def.DataType.IsNumeric() {
			// Rows created before materialization must not be forced to zero.
			relax := fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %q DROP NOT NULL`, rowTable, def.TechnicalKey)
			if _, err := tx.Exec(ctx, relax); err != nil {
				return fmt.Errorf("materialize %q: drop not null: %v: %w",
					def.TechnicalKey, err, domain.ErrMaterializationFailed)
			}
			relax = fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %q DROP DEFAULT`, rowTable, def.TechnicalKey)
			if _, err := tx.Exec(ctx, relax); err != nil {
				return fmt.Errorf("materialize %q: drop default: %v: %w",
					def.TechnicalKey, err, domain.ErrMaterializationFailed)
			}
		}
	}

	if err := syncLabel(ctx, tx, def.TechnicalKey, def.DisplayLabel); err != nil {
		return fmt.Errorf("materialize %q: %v: %w", def.TechnicalKey, err, domain.ErrMaterializationFailed)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE attribute_defs SET materialized = true WHERE id = $1`, def.ID); err != nil {
		return fmt.Errorf("materialize %q: flag: %w", def.TechnicalKey, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("materialize %q: commit: %w", def.TechnicalKey, err)
	}

	def.Materialized = true
	m.log.InfoContext(ctx, "attribute materialized",
		slog.String("key", def.TechnicalKey),
		slog.String("type", colType),
		slog.Bool("column_added", !exists),
	)
	return nil
}

// Drop removes the definition's storage column. It joins the caller's
// transaction when one is in the context, so registry deletion stays atomic.
func (m *Materializer) Drop(ctx context.Context, def *domain.AttributeDefinition) error {
	if !validKey.MatchString(def.TechnicalKey) {
		return fmt.Errorf("drop column %q: invalid key", def.TechnicalKey)
	}

	q := postgres.QuerierFromCtx(ctx, m.pool)
	ddl := fmt.Sprintf(`ALTER TABLE %s DROP COLUMN IF EXISTS %q`, rowTable, def.TechnicalKey)
	if _, err := q.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("drop column %q: %w", def.TechnicalKey, err)
	}

	m.log.InfoContext(ctx, "attribute column dropped", slog.String("key", def.TechnicalKey))
	return nil
}

// HasColumn reports whether the key is backed by a physical column.
func (m *Materializer) HasColumn(ctx context.Context, key string) (bool, error) {
	if !validKey.MatchString(key) {
		return false, nil
	}
	return columnExists(ctx, postgres.QuerierFromCtx(ctx, m.pool), key)
}

// ColumnInUse reports whether any value row holds a populated value for the
// definition. Zero counts as empty for numerics and false for booleans, so a
// column full of zeroes can still be dropped.
func (m *Materializer) ColumnInUse(ctx context.Context, def *domain.AttributeDefinition) (bool, error) {
	if !validKey.MatchString(def.TechnicalKey) {
		return false, nil
	}

	exists, err := m.HasColumn(ctx, def.TechnicalKey)
	if err != nil || !exists {
		return false, err
	}

	var pred string
	switch {
	case def.DataType.IsNumeric():
		pred = fmt.Sprintf(`%q IS NOT NULL AND %q <> 0`, def.TechnicalKey, def.TechnicalKey)
	case def.DataType == domain.AttributeTypeBoolean:
		pred = fmt.Sprintf(`%q IS TRUE`, def.TechnicalKey)
	case def.DataType == domain.AttributeTypeText:
		pred = fmt.Sprintf(`%q IS NOT NULL AND btrim(%q) <> ''`, def.TechnicalKey, def.TechnicalKey)
	default:
		pred = fmt.Sprintf(`%q IS NOT NULL`, def.TechnicalKey)
	}

	q := postgres.QuerierFromCtx(ctx, m.pool)
	var used bool
	err = q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s)`, rowTable, pred),
	).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("column in use %q: %w", def.TechnicalKey, err)
	}
	return used, nil
}

// SyncLabel mirrors the registry's display label into the column comment.
func (m *Materializer) SyncLabel(ctx context.Context, key, label string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("sync label %q: invalid key", key)
	}
	return syncLabel(ctx, postgres.QuerierFromCtx(ctx, m.pool), key, label)
}

func columnExists(ctx context.Context, q postgres.Querier, key string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM information_schema.columns
		   WHERE table_name = $1 AND column_name = $2
		 )`, rowTable, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("column exists: %w", err)
	}
	return exists, nil
}

func syncLabel(ctx context.Context, q postgres.Querier, key, label string) error {
	// COMMENT ON takes no parameters; the label is a string literal.
	stmt := fmt.Sprintf(`COMMENT ON COLUMN %s.%q IS %s`, rowTable, key, quoteLiteral(label))
	if _, err := q.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("sync label: %w", err)
	}
	return nil
}

func quoteLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

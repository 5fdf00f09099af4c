package numbering

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps format configs in a single document_number_formats
// row per (tenant, document type). Every mutation is one statement, so the
// read-and-advance step the allocator depends on is atomic at the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore constructs a store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get upserts defaults so the conflict path still fires RETURNING.
func (s *PostgresStore) Get(ctx context.Context, tenant string, docType DocumentType) (FormatConfig, error) {
	const query = `
		INSERT INTO document_number_formats (tenant_id, document_type, prefix, separator, padding, counter)
		VALUES ($1, $2, '', '-', 6, 1)
		ON CONFLICT (tenant_id, document_type)
		DO UPDATE SET tenant_id = EXCLUDED.tenant_id
		RETURNING prefix, separator, padding, counter`

	var cfg FormatConfig
	err := s.pool.QueryRow(ctx, query, tenant, docType).
		Scan(&cfg.Prefix, &cfg.Separator, &cfg.Padding, &cfg.Counter)
	if err != nil {
		return FormatConfig{}, classify(fmt.Errorf("numbering: get config: %w", err))
	}
	return cfg, nil
}

// IncrementAndGet issues the current counter value and advances it in one
// statement. A fresh pair inserts counter=2 and issues 1.
func (s *PostgresStore) IncrementAndGet(ctx context.Context, tenant string, docType DocumentType) (int64, FormatConfig, error) {
	const query = `
		INSERT INTO document_number_formats (tenant_id, document_type, prefix, separator, padding, counter)
		VALUES ($1, $2, '', '-', 6, 2)
		ON CONFLICT (tenant_id, document_type)
		DO UPDATE SET counter = document_number_formats.counter + 1, updated_at = now()
		RETURNING prefix, separator, padding, counter - 1`

	var cfg FormatConfig
	var issued int64
	err := s.pool.QueryRow(ctx, query, tenant, docType).
		Scan(&cfg.Prefix, &cfg.Separator, &cfg.Padding, &issued)
	if err != nil {
		return 0, FormatConfig{}, classify(fmt.Errorf("numbering: increment: %w", err))
	}
	cfg.Counter = issued + 1
	return issued, cfg, nil
}

// UpdateFormat applies the partial update field-by-field; the counter column
// is never listed in the SET clause.
func (s *PostgresStore) UpdateFormat(ctx context.Context, tenant string, docType DocumentType, upd FormatUpdate) (FormatConfig, error) {
	const query = `
		INSERT INTO document_number_formats (tenant_id, document_type, prefix, separator, padding, counter)
		VALUES ($1, $2, COALESCE($3, ''), COALESCE($4, '-'), COALESCE($5, 6), 1)
		ON CONFLICT (tenant_id, document_type)
		DO UPDATE SET
			prefix    = COALESCE($3, document_number_formats.prefix),
			separator = COALESCE($4, document_number_formats.separator),
			padding   = COALESCE($5, document_number_formats.padding),
			updated_at = now()
		RETURNING prefix, separator, padding, counter`

	var cfg FormatConfig
	err := s.pool.QueryRow(ctx, query, tenant, docType, upd.Prefix, upd.Separator, upd.Padding).
		Scan(&cfg.Prefix, &cfg.Separator, &cfg.Padding, &cfg.Counter)
	if err != nil {
		return FormatConfig{}, classify(fmt.Errorf("numbering: update format: %w", err))
	}
	return cfg, nil
}

// ResetCounter sets the counter unconditionally, upserting defaults for the
// format fields when the pair is unseen.
func (s *PostgresStore) ResetCounter(ctx context.Context, tenant string, docType DocumentType, start int64) (FormatConfig, error) {
	const query = `
		INSERT INTO document_number_formats (tenant_id, document_type, prefix, separator, padding, counter)
		VALUES ($1, $2, '', '-', 6, $3)
		ON CONFLICT (tenant_id, document_type)
		DO UPDATE SET counter = $3, updated_at = now()
		RETURNING prefix, separator, padding, counter`

	var cfg FormatConfig
	err := s.pool.QueryRow(ctx, query, tenant, docType, start).
		Scan(&cfg.Prefix, &cfg.Separator, &cfg.Padding, &cfg.Counter)
	if err != nil {
		return FormatConfig{}, classify(fmt.Errorf("numbering: reset counter: %w", err))
	}
	return cfg, nil
}

// classify tags contention and deadline failures as retryable.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization failure, deadlock, lock timeout
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
	}
	return err
}

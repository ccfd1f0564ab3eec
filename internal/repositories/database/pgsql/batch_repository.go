package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
)

const batchColumns = `batch_id, batch_number, status, start_date, initial_count, initial_weight_kg, initial_cost, current_count, current_weight_kg, created_at, created_by, last_updated_at, last_updated_by`

type PgxBatchRepository struct {
	pool *pgxpool.Pool
}

// newPgxBatchRepository creates a new repository for batch snapshots.
func newPgxBatchRepository(pool *pgxpool.Pool) portsrepo.BatchRepositoryFacade {
	return &PgxBatchRepository{pool: pool}
}

var _ portsrepo.BatchRepositoryFacade = (*PgxBatchRepository)(nil)

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var b domain.Batch
	err := row.Scan(
		&b.BatchID,
		&b.BatchNumber,
		&b.Status,
		&b.StartDate,
		&b.InitialCount,
		&b.InitialWeightKg,
		&b.InitialCost,
		&b.CurrentCount,
		&b.CurrentWeightKg,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// querier covers both a pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findBatchByID(ctx context.Context, db querier, batchID string) (*domain.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_id = $1;`

	batch, err := scanBatch(db.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find batch by ID %s: %w", batchID, err)
	}
	return batch, nil
}

func listActiveBatches(ctx context.Context, db querier) ([]domain.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE status = 'ACTIVE' ORDER BY batch_number;`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		batches = append(batches, *batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch rows: %w", err)
	}
	return batches, nil
}

// FindBatchByID retrieves a batch snapshot by its unique identifier.
func (r *PgxBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.Batch, error) {
	return findBatchByID(ctx, r.pool, batchID)
}

// FindBatchByIDInTx retrieves a batch snapshot within a caller-owned transaction.
func (r *PgxBatchRepository) FindBatchByIDInTx(ctx context.Context, tx pgx.Tx, batchID string) (*domain.Batch, error) {
	return findBatchByID(ctx, tx, batchID)
}

// ListActiveBatches retrieves all active batches ordered by batch number.
func (r *PgxBatchRepository) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	return listActiveBatches(ctx, r.pool)
}

// ListActiveBatchesInTx retrieves active batches within a caller-owned transaction.
func (r *PgxBatchRepository) ListActiveBatchesInTx(ctx context.Context, tx pgx.Tx) ([]domain.Batch, error) {
	return listActiveBatches(ctx, tx)
}

// CloseOutBatch marks a batch harvested and zeroes its live totals.
func (r *PgxBatchRepository) CloseOutBatch(ctx context.Context, batchID string, updatedBy string, now time.Time) error {
	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE batches
		SET status = 'HARVESTED', current_count = 0, current_weight_kg = 0,
		    last_updated_at = $2, last_updated_by = $3
		WHERE batch_id = $1;
	`, batchID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to close out batch %s: %w", batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReduceBatch subtracts harvested count and weight from the live totals,
// clamping at zero.
func (r *PgxBatchRepository) ReduceBatch(ctx context.Context, batchID string, count int64, weightKg decimal.Decimal, updatedBy string, now time.Time) error {
	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE batches
		SET current_count = GREATEST(current_count - $2, 0),
		    current_weight_kg = GREATEST(current_weight_kg - $3, 0),
		    last_updated_at = $4, last_updated_by = $5
		WHERE batch_id = $1;
	`, batchID, count, weightKg, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to reduce batch %s: %w", batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

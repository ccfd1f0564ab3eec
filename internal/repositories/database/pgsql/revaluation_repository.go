package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
)

const revaluationColumns = `revaluation_id, batch_id, revaluation_date, carrying_amount, fair_value, market_price_per_kg, current_weight_kg, current_count, unrealized_gain_loss, entry_id, notes, created_at, created_by`

type PgxRevaluationRepository struct {
	BaseRepository
}

// newPgxRevaluationRepository creates a new repository for revaluation records.
func newPgxRevaluationRepository(pool *pgxpool.Pool) portsrepo.RevaluationRepositoryWithTx {
	return &PgxRevaluationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RevaluationRepositoryWithTx = (*PgxRevaluationRepository)(nil)

func scanRevaluation(row pgx.Row) (*domain.BiologicalAssetRevaluation, error) {
	var rev domain.BiologicalAssetRevaluation
	var entryID, notes sql.NullString

	err := row.Scan(
		&rev.RevaluationID,
		&rev.BatchID,
		&rev.RevaluationDate,
		&rev.CarryingAmount,
		&rev.FairValue,
		&rev.MarketPricePerKg,
		&rev.CurrentWeightKg,
		&rev.CurrentCount,
		&rev.UnrealizedGainLoss,
		&entryID,
		&notes,
		&rev.CreatedAt,
		&rev.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if entryID.Valid {
		rev.EntryID = &entryID.String
	}
	rev.Notes = notes.String
	return &rev, nil
}

// UpsertRevaluationInTx inserts the record or overwrites the figures of an
// existing (batch, date) row in place. The row's identity and creation audit
// survive an overwrite; only the measurement columns move.
func (r *PgxRevaluationRepository) UpsertRevaluationInTx(ctx context.Context, tx pgx.Tx, rev domain.BiologicalAssetRevaluation) error {
	query := `
		INSERT INTO biological_asset_revaluations (` + revaluationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (batch_id, revaluation_date) DO UPDATE SET
			carrying_amount = EXCLUDED.carrying_amount,
			fair_value = EXCLUDED.fair_value,
			market_price_per_kg = EXCLUDED.market_price_per_kg,
			current_weight_kg = EXCLUDED.current_weight_kg,
			current_count = EXCLUDED.current_count,
			unrealized_gain_loss = EXCLUDED.unrealized_gain_loss,
			entry_id = EXCLUDED.entry_id,
			notes = EXCLUDED.notes;
	`
	_, err := tx.Exec(ctx, query,
		rev.RevaluationID,
		rev.BatchID,
		rev.RevaluationDate,
		rev.CarryingAmount,
		rev.FairValue,
		rev.MarketPricePerKg,
		rev.CurrentWeightKg,
		rev.CurrentCount,
		rev.UnrealizedGainLoss,
		rev.EntryID,
		rev.Notes,
		rev.CreatedAt,
		rev.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert revaluation for batch %s: %w", rev.BatchID, err)
	}
	return nil
}

func findRevaluation(ctx context.Context, db querier, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error) {
	query := `SELECT ` + revaluationColumns + ` FROM biological_asset_revaluations WHERE batch_id = $1 AND revaluation_date = $2;`

	rev, err := scanRevaluation(db.QueryRow(ctx, query, batchID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find revaluation for batch %s: %w", batchID, err)
	}
	return rev, nil
}

// FindRevaluation retrieves the record for one (batch, date) pair.
func (r *PgxRevaluationRepository) FindRevaluation(ctx context.Context, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error) {
	return findRevaluation(ctx, r.Pool, batchID, date)
}

// FindRevaluationInTx retrieves the record within a caller-owned transaction.
func (r *PgxRevaluationRepository) FindRevaluationInTx(ctx context.Context, tx pgx.Tx, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error) {
	return findRevaluation(ctx, tx, batchID, date)
}

// ListRevaluations retrieves records newest first, optionally filtered.
func (r *PgxRevaluationRepository) ListRevaluations(ctx context.Context, filter portsrepo.ListRevaluationsFilter) ([]domain.BiologicalAssetRevaluation, error) {
	query := `SELECT ` + revaluationColumns + ` FROM biological_asset_revaluations WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.BatchID != nil {
		query += fmt.Sprintf(" AND batch_id = $%d", argPos)
		args = append(args, *filter.BatchID)
		argPos++
	}
	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND revaluation_date >= $%d", argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND revaluation_date <= $%d", argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}
	query += " ORDER BY revaluation_date DESC, batch_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list revaluations: %w", err)
	}
	defer rows.Close()

	var revs []domain.BiologicalAssetRevaluation
	for rows.Next() {
		rev, err := scanRevaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revaluation row: %w", err)
		}
		revs = append(revs, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revaluation rows: %w", err)
	}
	return revs, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RevaluationReader defines read operations for revaluation records.
type RevaluationReader interface {
	// FindRevaluation retrieves the record for one (batch, date) pair.
	FindRevaluation(ctx context.Context, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error)

	// ListRevaluations retrieves records newest first, optionally filtered.
	ListRevaluations(ctx context.Context, filter ListRevaluationsFilter) ([]domain.BiologicalAssetRevaluation, error)
}

// ListRevaluationsFilter narrows a revaluation listing.
type ListRevaluationsFilter struct {
	BatchID   *string
	StartDate *time.Time
	EndDate   *time.Time
}

// RevaluationWriter defines write operations for revaluation records.
type RevaluationWriter interface {
	// UpsertRevaluationInTx inserts the record or, when one already exists
	// for the same (batch, date), overwrites its figures in place. Runs
	// within a caller-owned transaction so dry-runs can roll it back.
	UpsertRevaluationInTx(ctx context.Context, tx pgx.Tx, rev domain.BiologicalAssetRevaluation) error

	// FindRevaluationInTx retrieves the record for one (batch, date) pair
	// within a caller-owned transaction.
	FindRevaluationInTx(ctx context.Context, tx pgx.Tx, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error)
}

// RevaluationRepositoryFacade combines all revaluation repository interfaces.
type RevaluationRepositoryFacade interface {
	RevaluationReader
	RevaluationWriter
}

// RevaluationRepositoryWithTx extends the facade with transaction capabilities;
// the revaluation run owns one transaction across all batches.
type RevaluationRepositoryWithTx interface {
	RevaluationRepositoryFacade
	TransactionManager
}

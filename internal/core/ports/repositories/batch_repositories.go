package repositories

import (
	"context"
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BatchReader defines the read operations the accounting core needs from the
// batch store. Batch lifecycle management itself belongs to the biological
// module.
type BatchReader interface {
	// FindBatchByID retrieves a batch snapshot by its unique identifier.
	FindBatchByID(ctx context.Context, batchID string) (*domain.Batch, error)

	// ListActiveBatches retrieves all active batches ordered by batch number.
	ListActiveBatches(ctx context.Context) ([]domain.Batch, error)

	// FindBatchByIDInTx retrieves a batch snapshot within a caller-owned transaction.
	FindBatchByIDInTx(ctx context.Context, tx pgx.Tx, batchID string) (*domain.Batch, error)

	// ListActiveBatchesInTx retrieves active batches within a caller-owned transaction.
	ListActiveBatchesInTx(ctx context.Context, tx pgx.Tx) ([]domain.Batch, error)
}

// BatchWriter defines the narrow write the core performs: closing out a
// batch when a completed harvest empties it.
type BatchWriter interface {
	// CloseOutBatch marks a batch harvested and zeroes its live totals.
	CloseOutBatch(ctx context.Context, batchID string, updatedBy string, now time.Time) error

	// ReduceBatch subtracts harvested count and weight from the live totals.
	ReduceBatch(ctx context.Context, batchID string, count int64, weightKg decimal.Decimal, updatedBy string, now time.Time) error
}

// BatchRepositoryFacade combines batch reader and writer interfaces.
type BatchRepositoryFacade interface {
	BatchReader
	BatchWriter
}

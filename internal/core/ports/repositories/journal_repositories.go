package repositories

import (
	"context"
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves an entry header by its entry number.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of one entry in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error)

	// ListEntries retrieves a token-paginated list of entries, newest first,
	// optionally filtered by reference.
	ListEntries(ctx context.Context, params ListEntriesFilter) ([]domain.JournalEntry, *string, error)
}

// ListEntriesFilter narrows a journal entry listing.
type ListEntriesFilter struct {
	ReferenceType *string
	ReferenceID   *string
	Limit         int
	NextToken     *string
}

// EntryWriter defines write operations for journal entry data.
type EntryWriter interface {
	// SaveEntry persists an entry and all of its lines as one atomic unit.
	// Nothing is persisted when any part fails.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error

	// MarkPosted flips the posted flag of a previously saved entry.
	MarkPosted(ctx context.Context, entryID string, updatedBy string, now time.Time) error

	// LinkReversal records the two-way link between an entry and the entry
	// that offsets it.
	LinkReversal(ctx context.Context, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error
}

// EntryTransactionSupport defines the tx-scoped variants used by the
// revaluation run, which must be able to roll every posting back in dry-run
// mode.
type EntryTransactionSupport interface {
	// SaveEntryInTx persists an entry and its lines within a caller-owned transaction.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.EntryLine) error

	// CarryingAmountInTx aggregates the biological-asset line history of one
	// batch: debits restricted to debitRefs reference types, credits to
	// creditRefs, within a caller-owned transaction.
	CarryingAmountInTx(ctx context.Context, tx pgx.Tx, batchID string, debitRefs, creditRefs []string) (decimal.Decimal, error)

	// LinkReversalInTx records the reversal link within a caller-owned transaction.
	LinkReversalInTx(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
	EntryTransactionSupport
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}

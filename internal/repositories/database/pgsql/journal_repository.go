package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	"github.com/aquaerp/aqua-accounting/internal/utils/pagination"
)

const entryColumns = `entry_id, entry_number, entry_date, description, reference_type, reference_id, is_posted, reversed_by, reverses, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var refType, refID sql.NullString
	var reversedBy, reverses sql.NullString

	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Description,
		&refType,
		&refID,
		&e.IsPosted,
		&reversedBy,
		&reverses,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	e.ReferenceType = refType.String
	e.ReferenceID = refID.String
	if reversedBy.Valid {
		e.ReversedBy = &reversedBy.String
	}
	if reverses.Valid {
		e.Reverses = &reverses.String
	}
	return &e, nil
}

// saveEntryTx writes the entry header and queues every line in one batch.
func saveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.EntryLine) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.IsPosted,
		entry.ReversedBy,
		entry.Reverses,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, line_type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.LineType,
			line.Amount,
			line.Description,
			line.CreatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert entry line for entry %s: %w", entry.EntryID, err)
		}
	}
	return nil
}

// SaveEntry persists an entry and all of its lines as one atomic unit.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := saveEntryTx(ctx, tx, entry, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveEntryInTx persists an entry and its lines within a caller-owned transaction.
func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.EntryLine) error {
	return saveEntryTx(ctx, tx, entry, lines)
}

// MarkPosted flips the posted flag of a previously saved entry.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, updatedBy string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE journal_entries
		SET is_posted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1;
	`, entryID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkReversal records the two-way link between an entry and its reversal.
func (r *PgxJournalRepository) LinkReversal(ctx context.Context, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error {
	return linkReversal(ctx, r.Pool, originalEntryID, reversingEntryID, updatedBy, now)
}

// LinkReversalInTx records the reversal link within a caller-owned transaction.
func (r *PgxJournalRepository) LinkReversalInTx(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error {
	return linkReversal(ctx, tx, originalEntryID, reversingEntryID, updatedBy, now)
}

// execer covers both a pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func linkReversal(ctx context.Context, db execer, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error {
	cmdTag, err := db.Exec(ctx, `
		UPDATE journal_entries
		SET reversed_by = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND reversed_by IS NULL;
	`, originalEntryID, reversingEntryID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to link reversal for entry %s: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is missing or already reversed", apperrors.ErrConflict, originalEntryID)
	}
	return nil
}

// FindEntryByID retrieves an entry header by its unique identifier.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	return entry, nil
}

// FindEntryByNumber retrieves an entry header by its entry number.
func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_number = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by number %s: %w", entryNumber, err)
	}
	return entry, nil
}

// FindLinesByEntryID retrieves all lines of one entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT line_id, entry_id, account_id, line_type, amount, description, created_at
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.EntryLine
	for rows.Next() {
		var line domain.EntryLine
		var description sql.NullString
		if err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.AccountID,
			&line.LineType,
			&line.Amount,
			&description,
			&line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry line: %w", err)
		}
		line.Description = description.String
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry lines: %w", err)
	}
	return lines, nil
}

// ListEntries retrieves a token-paginated list of entries, newest first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, params portsrepo.ListEntriesFilter) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argPos := 1

	if params.ReferenceType != nil {
		query += fmt.Sprintf(" AND reference_type = $%d", argPos)
		args = append(args, *params.ReferenceType)
		argPos++
	}
	if params.ReferenceID != nil {
		query += fmt.Sprintf(" AND reference_id = $%d", argPos)
		args = append(args, *params.ReferenceID)
		argPos++
	}
	if params.NextToken != nil && *params.NextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += fmt.Sprintf(" AND (entry_date, created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, entryDate, createdAt)
		argPos += 2
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(" ORDER BY entry_date DESC, created_at DESC LIMIT $%d;", argPos)
	args = append(args, params.Limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var nextToken *string
	if len(entries) > params.Limit {
		entries = entries[:params.Limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextToken = &token
	}
	return entries, nextToken, nil
}

// CarryingAmountInTx aggregates the biological-asset line history of one
// batch inside the revaluation run's transaction. Debits are restricted to
// debitRefs reference types and credits to creditRefs; only posted entries
// count.
func (r *PgxJournalRepository) CarryingAmountInTx(ctx context.Context, tx pgx.Tx, batchID string, debitRefs, creditRefs []string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN l.line_type = 'DEBIT' AND e.reference_type = ANY($2) THEN l.amount
			     WHEN l.line_type = 'CREDIT' AND e.reference_type = ANY($3) THEN -l.amount
			     ELSE 0 END
		), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.reference_id = $1
		  AND e.is_posted = TRUE
		  AND a.account_type = 'BIOLOGICAL_ASSET';
	`
	var carrying decimal.Decimal
	if err := tx.QueryRow(ctx, query, batchID, debitRefs, creditRefs).Scan(&carrying); err != nil {
		return decimal.Zero, fmt.Errorf("failed to derive carrying amount for batch %s: %w", batchID, err)
	}
	return carrying, nil
}

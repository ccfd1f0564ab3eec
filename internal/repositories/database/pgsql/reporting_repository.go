package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	"github.com/aquaerp/aqua-accounting/internal/utils/accounting"
)

type ReportingRepository struct {
	pool *pgxpool.Pool
}

// newReportingRepository creates a new repository for report aggregations.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// GetAccountTotals returns the debit and credit totals of one account for
// posted entries with entry_date <= asOf.
func (r *ReportingRepository) GetAccountTotals(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN l.line_type = 'DEBIT' THEN l.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN l.line_type = 'CREDIT' THEN l.amount ELSE 0 END), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND e.is_posted = TRUE
		  AND e.entry_date <= $2;
	`
	var debit, credit decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, accountID, asOf).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to aggregate totals for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}

// GetTrialBalanceData returns per-account debit/credit totals and signed
// balances for posted entries with entry_date <= asOf. Accounts with no
// activity are omitted.
func (r *ReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(CASE WHEN l.line_type = 'DEBIT' THEN l.amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN l.line_type = 'CREDIT' THEN l.amount ELSE 0 END), 0) AS total_credit
		FROM accounts a
		JOIN journal_entry_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.is_posted = TRUE
		  AND e.entry_date <= $1
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.Balance = accounting.Balance(row.AccountType, row.Debit, row.Credit)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetBalanceSheetData returns net amounts grouped into assets (including
// biological assets), liabilities and equity as of a date.
func (r *ReportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	rows, err := r.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		return nil, nil, nil, err
	}

	var assets, liabilities, equity []domain.AccountAmount
	for _, row := range rows {
		amount := domain.AccountAmount{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			Name:        row.AccountName,
			NetAmount:   row.Balance,
		}
		switch row.AccountType {
		case domain.Asset, domain.BiologicalAsset:
			assets = append(assets, amount)
		case domain.Liability:
			liabilities = append(liabilities, amount)
		case domain.Equity:
			equity = append(equity, amount)
		}
		// Revenue and expense balances roll into the income statement, not here.
	}
	return assets, liabilities, equity, nil
}

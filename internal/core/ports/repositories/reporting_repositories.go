package repositories

import (
	"context"
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the aggregation queries behind the reports.
// All aggregations consider posted entries only.
type ReportingRepository interface {
	// GetAccountTotals returns the debit and credit totals of one account for
	// posted entries with entry_date <= asOf; both are zero when the account
	// has no lines.
	GetAccountTotals(ctx context.Context, accountID string, asOf time.Time) (debit, credit decimal.Decimal, err error)

	// GetTrialBalanceData returns per-account totals for posted entries with
	// entry_date <= asOf. Accounts with no activity are omitted.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetBalanceSheetData returns net amounts grouped into assets (including
	// biological assets), liabilities and equity as of a date.
	GetBalanceSheetData(ctx context.Context, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)
}

package services

import (
	"context"
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
)

// ReportingSvc derives financial statements from posted journal lines.
type ReportingSvc interface {
	// TrialBalance lists every account with posted activity up to asOf,
	// with debit and credit totals and the signed balance.
	TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// BalanceSheet groups account balances into assets, liabilities and
	// equity as of a date.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
}

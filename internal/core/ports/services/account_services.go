package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/aquaerp/aqua-accounting/internal/dto"
)

// AccountReaderSvc defines read operations for the account registry
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves a specific account by its ledger code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts, optionally filtered by type.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// ComputeBalance derives the balance of an account from its posted
	// entry lines, honoring the account type's normal side.
	ComputeBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for the account registry
type AccountWriterSvc interface {
	// CreateAccount persists a new account after validating its type and parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)

	// GetOrCreateAccount returns the account with the given code, creating it
	// from the supplied template when missing. First write wins under races.
	GetOrCreateAccount(ctx context.Context, template domain.Account, creatorID string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive; its history remains intact.
	DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error

	// SeedChartOfAccounts installs the standard aquaculture chart of
	// accounts. It is idempotent and safe to run on every startup.
	SeedChartOfAccounts(ctx context.Context, creatorID string) error
}

// AccountSvcFacade combines reader and writer interfaces for accounts
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

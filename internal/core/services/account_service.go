package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
	"github.com/aquaerp/aqua-accounting/internal/utils/accounting"
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrParentNotFound     = errors.New("parent account not found")
	ErrParentTypeMismatch = errors.New("parent account type does not match")
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// seedAccount is one row of the standard aquaculture chart of accounts.
type seedAccount struct {
	code        string
	name        string
	arabicName  string
	accountType domain.AccountType
	parentCode  string
}

// seedChart mirrors the unified fish-farm chart this system ships with.
// Codes are stable; tenants add their own accounts under these roots.
var seedChart = []seedAccount{
	{"1000", "Assets", "الأصول", domain.Asset, ""},
	{"1100", "Current Assets", "الأصول المتداولة", domain.Asset, "1000"},
	{"1110", "Cash", "النقدية", domain.Asset, "1100"},
	{"1120", "Bank", "البنك", domain.Asset, "1100"},
	{"1130", "Accounts Receivable", "العملاء", domain.Asset, "1100"},
	{"1140", "Feed Inventory", "مخزون الأعلاف", domain.Asset, "1100"},
	{"1150", "Medicine Inventory", "مخزون الأدوية", domain.Asset, "1100"},
	{"1160", "Finished Goods", "مخزون منتج تام", domain.Asset, "1100"},
	{"1200", "Fixed Assets", "الأصول الثابتة", domain.Asset, "1000"},
	{"1210", "Land", "الأرض", domain.Asset, "1200"},
	{"1220", "Buildings", "المباني", domain.Asset, "1200"},
	{"1230", "Ponds & Tanks", "الأحواض والخزانات", domain.Asset, "1200"},
	{"1240", "Equipment", "المعدات", domain.Asset, "1200"},
	{"1300", "Biological Assets", "الأصول البيولوجية", domain.BiologicalAsset, "1000"},
	{"1310", "Active Batches", "الدفعات النشطة", domain.BiologicalAsset, "1300"},
	{"1320", "Biological Asset Revaluation", "إعادة تقييم الأصول البيولوجية", domain.BiologicalAsset, "1300"},
	{"2000", "Liabilities", "الخصوم", domain.Liability, ""},
	{"2100", "Current Liabilities", "الخصوم المتداولة", domain.Liability, "2000"},
	{"2110", "Accounts Payable", "الموردون", domain.Liability, "2100"},
	{"2120", "Tax Payable", "الضرائب المستحقة", domain.Liability, "2100"},
	{"3000", "Equity", "حقوق الملكية", domain.Equity, ""},
	{"3100", "Capital", "رأس المال", domain.Equity, "3000"},
	{"3200", "Retained Earnings", "الأرباح المحتجزة", domain.Equity, "3000"},
	{"3300", "Unrealized Gain/Loss", "أرباح/خسائر غير محققة", domain.Equity, "3000"},
	{"4000", "Revenue", "الإيرادات", domain.Revenue, ""},
	{"4100", "Sales Revenue", "إيرادات المبيعات", domain.Revenue, "4000"},
	{"4110", "Fish Sales", "مبيعات السمك", domain.Revenue, "4100"},
	{"5000", "Expenses", "المصروفات", domain.Expense, ""},
	{"5100", "Cost of Goods Sold", "تكلفة البضاعة المباعة", domain.Expense, "5000"},
	{"5110", "Feed Cost", "تكلفة العلف", domain.Expense, "5100"},
	{"5120", "Batch Operating Costs", "تكاليف تشغيل الدفعات", domain.Expense, "5100"},
	{"5200", "Operating Expenses", "المصروفات التشغيلية", domain.Expense, "5000"},
	{"5210", "Mortality Loss", "خسائر النفوق", domain.Expense, "5200"},
	{"5220", "Labor Cost", "تكلفة العمالة", domain.Expense, "5200"},
	{"5230", "Utilities", "المرافق", domain.Expense, "5200"},
	{"5240", "Maintenance", "الصيانة", domain.Expense, "5200"},
}

// CreateAccount persists a new account after validating its type and parent.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAccountType, req.AccountType)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %s", ErrParentNotFound, *req.ParentAccountID)
			}
			s.LogError(ctx, err, "Failed to fetch parent account", slog.String("parent_account_id", *req.ParentAccountID))
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		// A sub-account inherits its section of the statement from the parent.
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent %s is %s, child is %s",
				ErrParentTypeMismatch, parent.Code, parent.AccountType, req.AccountType)
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if account.DisplayName == "" {
		account.DisplayName = account.Name
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetOrCreateAccount returns the account with the template's code, creating
// it when missing. Concurrent creators converge on the first stored row.
func (s *accountService) GetOrCreateAccount(ctx context.Context, template domain.Account, creatorID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByCode(ctx, template.Code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account code %s: %w", template.Code, err)
	}

	now := time.Now().UTC()
	template.AccountID = uuid.NewString()
	template.IsActive = true
	template.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}
	if template.DisplayName == "" {
		template.DisplayName = template.Name
	}

	stored, err := s.accountRepo.EnsureAccount(ctx, template)
	if err != nil {
		s.LogError(ctx, err, "Failed to ensure account", slog.String("code", template.Code))
		return nil, fmt.Errorf("failed to ensure account code %s: %w", template.Code, err)
	}
	return stored, nil
}

// GetAccountByID retrieves a specific account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves a specific account by its ledger code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts retrieves accounts, optionally filtered by type.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	if params.AccountType != nil && !params.AccountType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAccountType, *params.AccountType)
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, params.AccountType, params.IncludeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// ComputeBalance derives the account balance from its posted line totals.
// Accounts with no lines balance to exactly zero.
func (s *accountService) ComputeBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	debit, credit, err := s.reportingRepo.GetAccountTotals(ctx, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account totals", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to aggregate account totals: %w", err)
	}

	return accounting.Balance(account.AccountType, debit, credit), nil
}

// DeactivateAccount marks an account inactive; history is never deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID), slog.String("deactivated_by", requestingUserID))
	return nil
}

// SeedChartOfAccounts installs the standard chart. Existing accounts are
// left untouched, so the call is safe on every startup of every tenant.
func (s *accountService) SeedChartOfAccounts(ctx context.Context, creatorID string) error {
	now := time.Now().UTC()
	created := 0
	idsByCode := make(map[string]string, len(seedChart))

	// Parents precede children in the chart ordering.
	for _, row := range seedChart {
		account := domain.Account{
			AccountID:       uuid.NewString(),
			Code:            row.code,
			Name:            row.name,
			DisplayName:     row.arabicName,
			AccountType:     row.accountType,
			ParentAccountID: idsByCode[row.parentCode],
			IsActive:        true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}

		stored, err := s.accountRepo.EnsureAccount(ctx, account)
		if err != nil {
			s.LogError(ctx, err, "Failed to seed account", slog.String("code", row.code))
			return fmt.Errorf("failed to seed account %s: %w", row.code, err)
		}
		idsByCode[row.code] = stored.AccountID
		if stored.AccountID == account.AccountID {
			created++
		}
	}

	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("created", created), slog.Int("total", len(seedChart)))
	return nil
}

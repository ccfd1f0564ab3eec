package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/core/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockReportingRepo *MockReportingRepository
	service           portssvc.AccountSvcFacade
	userID            string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockReportingRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1150",
		Name:        "Packaging Materials",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("1150", account.Code)
	suite.Equal("Packaging Materials", account.DisplayName)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "9999",
		Name:        "Mystery",
		AccountType: domain.AccountType("GOODWILL"),
	}

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAccountType)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentNotFound() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1151",
		Name:            "Nets",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParentNotFound)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parent := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4100",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "4190",
		Name:            "Misfiled Expense",
		AccountType:     domain.Expense,
		ParentAccountID: &parent.AccountID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParentTypeMismatch)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetOrCreateAccount_ReturnsExisting() {
	ctx := context.Background()
	existing := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1140",
		Name:        "Feed Inventory",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1140").Return(existing, nil).Once()

	template := domain.Account{Code: "1140", Name: "Feed Inventory", AccountType: domain.Asset}
	account, err := suite.service.GetOrCreateAccount(ctx, template, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.AccountID, account.AccountID)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "EnsureAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetOrCreateAccount_CreatesWhenMissing() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1320").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("EnsureAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(func(ctx context.Context, account domain.Account) *domain.Account {
			return &account
		}, nil).Once()

	template := domain.Account{Code: "1320", Name: "Biological Asset Revaluation", AccountType: domain.BiologicalAsset}
	account, err := suite.service.GetOrCreateAccount(ctx, template, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.True(account.IsActive)
	suite.Equal("Biological Asset Revaluation", account.DisplayName)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSeedChartOfAccounts_LinksParents() {
	ctx := context.Background()
	seeded := make(map[string]domain.Account)
	suite.mockAccountRepo.On("EnsureAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(func(ctx context.Context, account domain.Account) *domain.Account {
			seeded[account.Code] = account
			return &account
		}, nil)

	err := suite.service.SeedChartOfAccounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(seeded)

	// Core accounts of the aquaculture chart must be present.
	for _, code := range []string{"1000", "1310", "1320", "3300", "5120", "5210", "4110"} {
		suite.Contains(seeded, code)
	}
	suite.Equal(domain.BiologicalAsset, seeded["1310"].AccountType)
	suite.Equal(domain.BiologicalAsset, seeded["1320"].AccountType)
	suite.Equal(domain.Equity, seeded["3300"].AccountType)

	// Children reference the stored parent row.
	suite.Equal(seeded["1300"].AccountID, seeded["1310"].ParentAccountID)
	suite.Equal(seeded["3000"].AccountID, seeded["3300"].ParentAccountID)
	suite.Empty(seeded["1000"].ParentAccountID)
}

func (suite *AccountServiceTestSuite) TestSeedChartOfAccounts_ReusesExistingRows() {
	ctx := context.Background()
	storedIDs := make(map[string]string)
	suite.mockAccountRepo.On("EnsureAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(func(ctx context.Context, account domain.Account) *domain.Account {
			// Simulate a chart seeded by an earlier startup: every row
			// already exists under a different ID.
			stored := account
			stored.AccountID = "existing-" + account.Code
			storedIDs[account.Code] = stored.AccountID
			return &stored
		}, nil)

	err := suite.service.SeedChartOfAccounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(storedIDs)
}

func (suite *AccountServiceTestSuite) TestComputeBalance_CreditNormalAccount() {
	ctx := context.Background()
	asOf := time.Now().UTC()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4110",
		AccountType: domain.Revenue,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountTotals", ctx, account.AccountID, asOf).
		Return(decimal.RequireFromString("100.00"), decimal.RequireFromString("750.00"), nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, account.AccountID, asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("650.00")))
}

func (suite *AccountServiceTestSuite) TestComputeBalance_NoLinesIsZero() {
	ctx := context.Background()
	asOf := time.Now().UTC()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1140",
		AccountType: domain.Asset,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountTotals", ctx, account.AccountID, asOf).
		Return(decimal.Zero, decimal.Zero, nil).Once()

	balance, err := suite.service.ComputeBalance(ctx, account.AccountID, asOf)

	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

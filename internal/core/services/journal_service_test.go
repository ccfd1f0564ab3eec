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

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade
	expenseAccount  domain.Account
	assetAccount    domain.Account
	revenueAccount  domain.Account
	userID          string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.userID = uuid.NewString()
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "5120",
		AccountType: domain.Expense,
		IsActive:    true,
	}
	suite.assetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1140",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4110",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (suite *JournalServiceTestSuite) balancedEntry(amount decimal.Decimal) domain.JournalEntry {
	return domain.JournalEntry{
		EntryDate:   time.Now().UTC(),
		Description: "Feeding batch B-001",
		Lines: []domain.EntryLine{
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: amount},
			{AccountID: suite.assetAccount.AccountID, LineType: domain.Credit, Amount: amount},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	entry := suite.balancedEntry(decimal.RequireFromString("250.00"))

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.assetAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.EntryLine")).
		Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.EntryID)
	suite.NotEmpty(created.EntryNumber)
	suite.True(created.IsPosted)
	suite.Equal(suite.userID, created.CreatedBy)
	for _, line := range created.Lines {
		suite.Equal(created.EntryID, line.EntryID)
		suite.NotEmpty(line.LineID)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced_PersistsNothing() {
	ctx := context.Background()
	entry := domain.JournalEntry{
		EntryDate:   time.Now().UTC(),
		Description: "Broken entry",
		Lines: []domain.EntryLine{
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: decimal.RequireFromString("100.00")},
			{AccountID: suite.assetAccount.AccountID, LineType: domain.Credit, Amount: decimal.RequireFromString("99.00")},
		},
	}

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	var unbalanced *services.UnbalancedEntryError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.Debits.Equal(decimal.RequireFromString("100.00")))
	suite.True(unbalanced.Credits.Equal(decimal.RequireFromString("99.00")))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_TooManyDecimalPlaces() {
	ctx := context.Background()
	amount := decimal.RequireFromString("10.555")
	entry := suite.balancedEntry(amount)

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NegativeAmount() {
	ctx := context.Background()
	entry := domain.JournalEntry{
		EntryDate:   time.Now().UTC(),
		Description: "Signed amounts are not allowed",
		Lines: []domain.EntryLine{
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: decimal.RequireFromString("-50.00")},
			{AccountID: suite.assetAccount.AccountID, LineType: domain.Credit, Amount: decimal.RequireFromString("-50.00")},
		},
	}

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleLine() {
	ctx := context.Background()
	entry := domain.JournalEntry{
		EntryDate:   time.Now().UTC(),
		Description: "Half an entry",
		Lines: []domain.EntryLine{
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: decimal.RequireFromString("10.00")},
		},
	}

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryMinLines)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleAccount() {
	ctx := context.Background()
	entry := domain.JournalEntry{
		EntryDate:   time.Now().UTC(),
		Description: "Self-transfer",
		Lines: []domain.EntryLine{
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: decimal.RequireFromString("10.00")},
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Credit, Amount: decimal.RequireFromString("10.00")},
		},
	}

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryMinAccounts)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_MissingDescription() {
	ctx := context.Background()
	entry := suite.balancedEntry(decimal.RequireFromString("10.00"))
	entry.Description = ""

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDescriptionMissing)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.assetAccount
	inactive.IsActive = false
	entry := suite.balancedEntry(decimal.RequireFromString("10.00"))

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, inactive), nil).Once()

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	entry := suite.balancedEntry(decimal.RequireFromString("10.00"))

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount), nil).Once()

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_DuplicateNumber() {
	ctx := context.Background()
	entry := suite.balancedEntry(decimal.RequireFromString("10.00"))
	entry.EntryNumber = "FEED-42-20260815"

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.assetAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateEntry(ctx, entry, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *JournalServiceTestSuite) TestCreateManualEntry_DefaultsReferenceType() {
	ctx := context.Background()
	req := dto.CreateManualEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Opening stock adjustment",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: decimal.RequireFromString("75.50")},
			{AccountID: suite.assetAccount.AccountID, LineType: domain.Credit, Amount: decimal.RequireFromString("75.50")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.assetAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("MarkPosted", ctx, mock.AnythingOfType("string"), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	created, err := suite.service.CreateManualEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.RefManual, created.ReferenceType)
	suite.True(created.IsPosted)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_FlipsLines() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.JournalEntry{
		EntryID:     originalID,
		EntryNumber: "FEED-42-20260815",
		EntryDate:   time.Now().UTC().AddDate(0, 0, -1),
		Description: "Feeding batch B-001",
		IsPosted:    true,
	}
	lines := []domain.EntryLine{
		{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.expenseAccount.AccountID, LineType: domain.Debit, Amount: decimal.RequireFromString("250.00")},
		{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.assetAccount.AccountID, LineType: domain.Credit, Amount: decimal.RequireFromString("250.00")},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, originalID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.assetAccount), nil).Once()

	var savedEntry domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()
	suite.mockJournalRepo.On("LinkReversal", ctx, originalID, mock.AnythingOfType("string"), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, originalID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal("RVRSL-FEED-42-20260815", reversal.EntryNumber)
	suite.Equal(domain.RefReversal, reversal.ReferenceType)
	suite.Require().NotNil(reversal.Reverses)
	suite.Equal(originalID, *reversal.Reverses)

	suite.Require().Len(savedEntry.Lines, 2)
	suite.Equal(domain.Credit, savedEntry.Lines[0].LineType)
	suite.Equal(suite.expenseAccount.AccountID, savedEntry.Lines[0].AccountID)
	suite.Equal(domain.Debit, savedEntry.Lines[1].LineType)
	suite.Equal(suite.assetAccount.AccountID, savedEntry.Lines[1].AccountID)
	suite.True(savedEntry.Lines[0].Amount.Equal(decimal.RequireFromString("250.00")))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	originalID := uuid.NewString()
	reversedBy := uuid.NewString()
	original := &domain.JournalEntry{
		EntryID:     originalID,
		EntryNumber: "MORT-7-20260810",
		Description: "Mortality write-off",
		IsPosted:    true,
		ReversedBy:  &reversedBy,
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, originalID).Return([]domain.EntryLine{}, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, originalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_NotPosted() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.JournalEntry{
		EntryID:     originalID,
		EntryNumber: "JE-123",
		Description: "Draft",
		IsPosted:    false,
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, originalID).Return([]domain.EntryLine{}, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, originalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotPosted)
}

func (suite *JournalServiceTestSuite) TestListEntries_ClampsLimit() {
	ctx := context.Background()
	suite.mockJournalRepo.On("ListEntries", ctx, mock.Anything).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{Limit: -5})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Empty(resp.Entries)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

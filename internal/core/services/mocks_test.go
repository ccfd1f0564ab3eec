package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, params portsrepo.ListEntriesFilter) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), nextToken, args.Error(2)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, entryID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, entryID, updatedBy, now)
	return args.Error(0)
}

func (m *MockJournalRepository) LinkReversal(ctx context.Context, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, originalEntryID, reversingEntryID, updatedBy, now)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.EntryLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) CarryingAmountInTx(ctx context.Context, tx pgx.Tx, batchID string, debitRefs, creditRefs []string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, batchID, debitRefs, creditRefs)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockJournalRepository) LinkReversalInTx(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, originalEntryID, reversingEntryID, updatedBy, now)
	return args.Error(0)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, accountType *domain.AccountType, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, accountType, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountAccountsByType(ctx context.Context, accountType domain.AccountType) (int64, error) {
	args := m.Called(ctx, accountType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) EnsureAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if fn, ok := args.Get(0).(func(context.Context, domain.Account) *domain.Account); ok {
		return fn(ctx, account), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountTotals(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, asOf)
	var assets, liabilities, equity []domain.AccountAmount
	if args.Get(0) != nil {
		assets = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		liabilities = args.Get(1).([]domain.AccountAmount)
	}
	if args.Get(2) != nil {
		equity = args.Get(2).([]domain.AccountAmount)
	}
	return assets, liabilities, equity, args.Error(3)
}

// --- Mock BatchRepository ---

type MockBatchRepository struct {
	mock.Mock
}

var _ portsrepo.BatchRepositoryFacade = (*MockBatchRepository)(nil)

func (m *MockBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.Batch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindBatchByIDInTx(ctx context.Context, tx pgx.Tx, batchID string) (*domain.Batch, error) {
	args := m.Called(ctx, tx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListActiveBatchesInTx(ctx context.Context, tx pgx.Tx) ([]domain.Batch, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) CloseOutBatch(ctx context.Context, batchID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, batchID, updatedBy, now)
	return args.Error(0)
}

func (m *MockBatchRepository) ReduceBatch(ctx context.Context, batchID string, count int64, weightKg decimal.Decimal, updatedBy string, now time.Time) error {
	args := m.Called(ctx, batchID, count, weightKg, updatedBy, now)
	return args.Error(0)
}

// --- Mock RevaluationRepository ---

type MockRevaluationRepository struct {
	mock.Mock
}

var _ portsrepo.RevaluationRepositoryWithTx = (*MockRevaluationRepository)(nil)

func (m *MockRevaluationRepository) FindRevaluation(ctx context.Context, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error) {
	args := m.Called(ctx, batchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BiologicalAssetRevaluation), args.Error(1)
}

func (m *MockRevaluationRepository) ListRevaluations(ctx context.Context, filter portsrepo.ListRevaluationsFilter) ([]domain.BiologicalAssetRevaluation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BiologicalAssetRevaluation), args.Error(1)
}

func (m *MockRevaluationRepository) UpsertRevaluationInTx(ctx context.Context, tx pgx.Tx, rev domain.BiologicalAssetRevaluation) error {
	args := m.Called(ctx, tx, rev)
	return args.Error(0)
}

func (m *MockRevaluationRepository) FindRevaluationInTx(ctx context.Context, tx pgx.Tx, batchID string, date time.Time) (*domain.BiologicalAssetRevaluation, error) {
	args := m.Called(ctx, tx, batchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BiologicalAssetRevaluation), args.Error(1)
}

func (m *MockRevaluationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockRevaluationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRevaluationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock JournalWriterSvc (as used by PostingService) ---

type MockJournalWriterSvc struct {
	mock.Mock
}

var _ portssvc.JournalWriterSvc = (*MockJournalWriterSvc)(nil)

func (m *MockJournalWriterSvc) CreateEntry(ctx context.Context, entry domain.JournalEntry, creatorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, creatorID)
	if fn, ok := args.Get(0).(func(context.Context, domain.JournalEntry, string) *domain.JournalEntry); ok {
		return fn(ctx, entry, creatorID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterSvc) CreateManualEntry(ctx context.Context, req dto.CreateManualEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterSvc) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock AccountWriterSvc ---

type MockAccountWriterSvc struct {
	mock.Mock
}

var _ portssvc.AccountWriterSvc = (*MockAccountWriterSvc)(nil)

func (m *MockAccountWriterSvc) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountWriterSvc) GetOrCreateAccount(ctx context.Context, template domain.Account, creatorID string) (*domain.Account, error) {
	args := m.Called(ctx, template, creatorID)
	if fn, ok := args.Get(0).(func(context.Context, domain.Account, string) *domain.Account); ok {
		return fn(ctx, template, creatorID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountWriterSvc) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	args := m.Called(ctx, accountID, requestingUserID)
	return args.Error(0)
}

func (m *MockAccountWriterSvc) SeedChartOfAccounts(ctx context.Context, creatorID string) error {
	args := m.Called(ctx, creatorID)
	return args.Error(0)
}

// --- Mock EntryTrailPublisher ---

type MockTrailPublisher struct {
	mock.Mock
}

var _ portssvc.EntryTrailPublisher = (*MockTrailPublisher)(nil)

func (m *MockTrailPublisher) PublishEntryPosted(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTrailPublisher) PublishPostingFailed(ctx context.Context, event domain.Event, reason string) error {
	args := m.Called(ctx, event, reason)
	return args.Error(0)
}

func (m *MockTrailPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

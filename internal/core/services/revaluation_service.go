package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
)

var (
	ErrMarketPriceNotPositive = errors.New("market price per kg must be positive")
	ErrBatchNotActive         = errors.New("batch is not active")
)

// Accounts the revaluation run posts against.
var (
	acctBioRevaluation = domain.Account{Code: "1320", Name: "Biological Asset Revaluation", DisplayName: "إعادة تقييم الأصول البيولوجية", AccountType: domain.BiologicalAsset}
	acctUnrealizedGL   = domain.Account{Code: "3300", Name: "Unrealized Gain/Loss", DisplayName: "أرباح/خسائر غير محققة", AccountType: domain.Equity}
)

// Reference types whose biological-asset lines build up the carrying amount
// of a batch. Stocking and feeding accumulate value on the debit side;
// stocking adjustments and harvests draw it down on the credit side.
var (
	carryingDebitRefs  = []string{domain.RefBatch, domain.RefFeedingLog, domain.RefMortalityLog}
	carryingCreditRefs = []string{domain.RefBatch, domain.RefHarvest}
)

// revaluationService computes and records fair-value adjustments for active
// batches under IAS 41. A run, dry or real, executes inside one database
// transaction so a dry run can roll everything back and a failed run leaves
// no partial figures.
type revaluationService struct {
	BaseService
	revalRepo   portsrepo.RevaluationRepositoryWithTx
	journalRepo portsrepo.JournalRepositoryFacade
	batchRepo   portsrepo.BatchReader
	accountSvc  portssvc.AccountWriterSvc
}

// NewRevaluationService creates a new RevaluationService.
func NewRevaluationService(
	revalRepo portsrepo.RevaluationRepositoryWithTx,
	journalRepo portsrepo.JournalRepositoryFacade,
	batchRepo portsrepo.BatchReader,
	accountSvc portssvc.AccountWriterSvc,
) portssvc.RevaluationSvc {
	return &revaluationService{
		revalRepo:   revalRepo,
		journalRepo: journalRepo,
		batchRepo:   batchRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.RevaluationSvc = (*revaluationService)(nil)

// Run revalues the requested batches as of a date.
func (s *revaluationService) Run(ctx context.Context, req dto.RunRevaluationRequest, actorID string) (*portssvc.RevaluationRunResult, error) {
	if !req.MarketPricePerKg.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrMarketPriceNotPositive, req.MarketPricePerKg.String())
	}
	revaluationDate := req.RevaluationDate.UTC().Truncate(24 * time.Hour)

	bioAccount, err := s.accountSvc.GetOrCreateAccount(ctx, acctBioRevaluation, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve biological asset account: %w", err)
	}
	glAccount, err := s.accountSvc.GetOrCreateAccount(ctx, acctUnrealizedGL, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unrealized gain/loss account: %w", err)
	}

	tx, err := s.revalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin revaluation transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.revalRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogWarn(ctx, "Failed to roll back revaluation transaction", slog.String("error", rbErr.Error()))
			}
		}
	}()

	var batches []domain.Batch
	if req.BatchID != nil && *req.BatchID != "" {
		batch, err := s.batchRepo.FindBatchByIDInTx(ctx, tx, *req.BatchID)
		if err != nil {
			return nil, fmt.Errorf("failed to load batch %s: %w", *req.BatchID, err)
		}
		if batch.Status != domain.BatchActive {
			return nil, fmt.Errorf("%w: batch %s is %s", ErrBatchNotActive, batch.BatchID, batch.Status)
		}
		batches = []domain.Batch{*batch}
	} else {
		batches, err = s.batchRepo.ListActiveBatchesInTx(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active batches: %w", err)
		}
	}

	result := &portssvc.RevaluationRunResult{DryRun: req.DryRun}
	totalGainLoss := decimal.Zero

	for i := range batches {
		batch := &batches[i]

		rev, err := s.revalueBatch(ctx, tx, batch, revaluationDate, req, bioAccount, glAccount, actorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				s.LogWarn(ctx, "Skipping already revalued batch",
					slog.String("batch_id", batch.BatchID),
					slog.Time("revaluation_date", revaluationDate))
				result.SkippedBatches = append(result.SkippedBatches, batch.BatchID)
				continue
			}
			return nil, err
		}

		totalGainLoss = totalGainLoss.Add(rev.UnrealizedGainLoss)
		result.Revaluations = append(result.Revaluations, *rev)
	}

	if req.DryRun {
		// The deferred rollback discards every posting and upsert of the run.
		s.LogInfo(ctx, "Dry-run revaluation complete",
			slog.Int("batches", len(result.Revaluations)),
			slog.Int("skipped", len(result.SkippedBatches)),
			slog.String("total_unrealized_gain_loss", totalGainLoss.String()))
		return result, nil
	}

	if err := s.revalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit revaluation transaction: %w", err)
	}
	committed = true

	s.LogInfo(ctx, "Revaluation complete",
		slog.Int("batches", len(result.Revaluations)),
		slog.Int("skipped", len(result.SkippedBatches)),
		slog.String("total_unrealized_gain_loss", totalGainLoss.String()))
	return result, nil
}

// revalueBatch processes one batch inside the run's transaction.
func (s *revaluationService) revalueBatch(
	ctx context.Context,
	tx pgx.Tx,
	batch *domain.Batch,
	revaluationDate time.Time,
	req dto.RunRevaluationRequest,
	bioAccount, glAccount *domain.Account,
	actorID string,
) (*domain.BiologicalAssetRevaluation, error) {
	existing, err := s.revalRepo.FindRevaluationInTx(ctx, tx, batch.BatchID, revaluationDate)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing revaluation for batch %s: %w", batch.BatchID, err)
	}

	rerun := existing != nil
	if rerun && !req.Force {
		return nil, fmt.Errorf("%w: batch %s already revalued on %s",
			apperrors.ErrConflict, batch.BatchID, revaluationDate.Format("2006-01-02"))
	}
	if rerun && existing.EntryID != nil {
		// The prior delta must come out of the ledger before the new one
		// goes in, otherwise the adjustment would double up.
		if err := s.reverseInTx(ctx, tx, *existing.EntryID, actorID); err != nil {
			return nil, fmt.Errorf("failed to reverse prior revaluation entry for batch %s: %w", batch.BatchID, err)
		}
	}

	carrying, err := s.journalRepo.CarryingAmountInTx(ctx, tx, batch.BatchID, carryingDebitRefs, carryingCreditRefs)
	if err != nil {
		return nil, fmt.Errorf("failed to derive carrying amount for batch %s: %w", batch.BatchID, err)
	}
	// A batch with no ledger history yet is carried at its stocking cost.
	if !carrying.IsPositive() {
		carrying = batch.InitialCost
	}

	weight := batch.EstimatedBiomassKg()
	fairValue := weight.Mul(req.MarketPricePerKg).Round(2)
	gainLoss := fairValue.Sub(carrying)

	now := time.Now().UTC()
	rev := domain.BiologicalAssetRevaluation{
		RevaluationID:    uuid.NewString(),
		BatchID:          batch.BatchID,
		RevaluationDate:  revaluationDate,
		CarryingAmount:   carrying,
		FairValue:        fairValue,
		MarketPricePerKg: req.MarketPricePerKg,
		CurrentWeightKg:  weight,
		CurrentCount:     batch.CurrentCount,
		CreatedAt:        now,
		CreatedBy:        actorID,
	}
	rev.Recompute()

	if !gainLoss.IsZero() {
		entry, err := s.buildDeltaEntry(batch, revaluationDate, gainLoss, bioAccount, glAccount, rerun, now, actorID)
		if err != nil {
			return nil, err
		}
		if err := s.journalRepo.SaveEntryInTx(ctx, tx, *entry, entry.Lines); err != nil {
			return nil, fmt.Errorf("failed to save revaluation entry for batch %s: %w", batch.BatchID, err)
		}
		rev.EntryID = &entry.EntryID
	}

	if err := s.revalRepo.UpsertRevaluationInTx(ctx, tx, rev); err != nil {
		return nil, fmt.Errorf("failed to upsert revaluation for batch %s: %w", batch.BatchID, err)
	}

	s.LogDebug(ctx, "Batch revalued",
		slog.String("batch_id", batch.BatchID),
		slog.String("carrying_amount", carrying.String()),
		slog.String("fair_value", fairValue.String()),
		slog.String("unrealized_gain_loss", gainLoss.String()))
	return &rev, nil
}

// buildDeltaEntry constructs the balanced two-line entry for a non-zero
// gain or loss. A gain debits the biological asset and credits unrealized
// gain/loss; a loss runs the other way at the absolute amount.
func (s *revaluationService) buildDeltaEntry(
	batch *domain.Batch,
	revaluationDate time.Time,
	gainLoss decimal.Decimal,
	bioAccount, glAccount *domain.Account,
	rerun bool,
	now time.Time,
	actorID string,
) (*domain.JournalEntry, error) {
	entryNumber := fmt.Sprintf("REV-%s-%s", revaluationDate.Format("20060102"), batch.BatchID)
	if rerun {
		// The original number is taken by the reversed entry.
		entryNumber = fmt.Sprintf("%s-R%d", entryNumber, now.Unix())
	}

	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		EntryNumber:   entryNumber,
		EntryDate:     revaluationDate,
		Description:   fmt.Sprintf("Biological asset revaluation - batch %s", batch.BatchNumber),
		ReferenceType: domain.RefRevaluation,
		ReferenceID:   batch.BatchID,
		IsPosted:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	amount := gainLoss.Abs()
	if gainLoss.IsPositive() {
		entry.Lines = []domain.EntryLine{
			{AccountID: bioAccount.AccountID, LineType: domain.Debit, Amount: amount,
				Description: fmt.Sprintf("Fair value increase - batch %s", batch.BatchNumber)},
			{AccountID: glAccount.AccountID, LineType: domain.Credit, Amount: amount,
				Description: fmt.Sprintf("Unrealized gain - batch %s", batch.BatchNumber)},
		}
	} else {
		entry.Lines = []domain.EntryLine{
			{AccountID: glAccount.AccountID, LineType: domain.Debit, Amount: amount,
				Description: fmt.Sprintf("Unrealized loss - batch %s", batch.BatchNumber)},
			{AccountID: bioAccount.AccountID, LineType: domain.Credit, Amount: amount,
				Description: fmt.Sprintf("Fair value decrease - batch %s", batch.BatchNumber)},
		}
	}

	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
		entry.Lines[i].CreatedAt = now
	}
	return &entry, nil
}

// reverseInTx posts a mirror-image of a prior entry inside the run's
// transaction and links the pair.
func (s *revaluationService) reverseInTx(ctx context.Context, tx pgx.Tx, entryID string, actorID string) error {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry %s: %w", entryID, err)
	}
	if original.ReversedBy != nil {
		// Already neutralized by an earlier force re-run.
		return nil
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversal := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		EntryNumber:   fmt.Sprintf("RVRSL-%s", original.EntryNumber),
		EntryDate:     now,
		Description:   fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description),
		ReferenceType: domain.RefReversal,
		ReferenceID:   original.EntryID,
		Reverses:      &original.EntryID,
		IsPosted:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	for _, line := range lines {
		flipped := domain.Credit
		if line.LineType == domain.Credit {
			flipped = domain.Debit
		}
		reversal.Lines = append(reversal.Lines, domain.EntryLine{
			LineID:      uuid.NewString(),
			EntryID:     reversal.EntryID,
			AccountID:   line.AccountID,
			LineType:    flipped,
			Amount:      line.Amount,
			Description: line.Description,
			CreatedAt:   now,
		})
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, reversal, reversal.Lines); err != nil {
		return fmt.Errorf("failed to save reversal entry: %w", err)
	}
	return s.journalRepo.LinkReversalInTx(ctx, tx, original.EntryID, reversal.EntryID, actorID, now)
}

// GetRevaluation retrieves the stored revaluation for a batch and date.
func (s *revaluationService) GetRevaluation(ctx context.Context, batchID string, date string) (*domain.BiologicalAssetRevaluation, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", apperrors.ErrValidation, date)
	}
	rev, err := s.revalRepo.FindRevaluation(ctx, batchID, parsed)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find revaluation",
				slog.String("batch_id", batchID), slog.String("date", date))
		}
		return nil, fmt.Errorf("failed to find revaluation for batch %s on %s: %w", batchID, date, err)
	}
	return rev, nil
}

// ListRevaluations retrieves stored revaluations, newest first.
func (s *revaluationService) ListRevaluations(ctx context.Context, params dto.ListRevaluationsParams) ([]domain.BiologicalAssetRevaluation, error) {
	revs, err := s.revalRepo.ListRevaluations(ctx, portsrepo.ListRevaluationsFilter{
		BatchID:   params.BatchID,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list revaluations")
		return nil, fmt.Errorf("failed to list revaluations: %w", err)
	}
	return revs, nil
}

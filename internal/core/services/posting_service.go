package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portsrepo "github.com/aquaerp/aqua-accounting/internal/core/ports/repositories"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
)

// Accounts the automated mappers post against. Missing accounts are created
// on first use so postings never fail on a freshly provisioned tenant.
var (
	acctOperatingCosts = domain.Account{Code: "5120", Name: "Batch Operating Costs", DisplayName: "تكاليف تشغيل الدفعات", AccountType: domain.Expense}
	acctFeedInventory  = domain.Account{Code: "1140", Name: "Feed Inventory", DisplayName: "مخزون الأعلاف", AccountType: domain.Asset}
	acctMortalityLoss  = domain.Account{Code: "5210", Name: "Mortality Loss", DisplayName: "خسائر النفوق", AccountType: domain.Expense}
	acctActiveBatches  = domain.Account{Code: "1310", Name: "Active Batches", DisplayName: "الدفعات النشطة", AccountType: domain.BiologicalAsset}
	acctFinishedGoods  = domain.Account{Code: "1160", Name: "Finished Goods", DisplayName: "مخزون منتج تام", AccountType: domain.Asset}
	acctReceivable     = domain.Account{Code: "1130", Name: "Accounts Receivable", DisplayName: "العملاء", AccountType: domain.Asset}
	acctFishSales      = domain.Account{Code: "4110", Name: "Fish Sales", DisplayName: "مبيعات السمك", AccountType: domain.Revenue}
	acctTaxPayable     = domain.Account{Code: "2120", Name: "Tax Payable", DisplayName: "الضرائب المستحقة", AccountType: domain.Liability}
	acctCOGS           = domain.Account{Code: "5100", Name: "Cost of Goods Sold", DisplayName: "تكلفة البضاعة المباعة", AccountType: domain.Expense}
)

// postingService translates operational events into posted journal entries.
// One mapper per event type; postings that would be worthless (zero value)
// are skipped rather than recorded.
type postingService struct {
	BaseService
	journalSvc portssvc.JournalWriterSvc
	accountSvc portssvc.AccountWriterSvc
	batchRepo  portsrepo.BatchRepositoryFacade
	trail      portssvc.EntryTrailPublisher
}

// NewPostingService creates a new PostingService. trail may be nil when no
// broker is configured.
func NewPostingService(
	journalSvc portssvc.JournalWriterSvc,
	accountSvc portssvc.AccountWriterSvc,
	batchRepo portsrepo.BatchRepositoryFacade,
	trail portssvc.EntryTrailPublisher,
) portssvc.PostingSvc {
	return &postingService{
		journalSvc: journalSvc,
		accountSvc: accountSvc,
		batchRepo:  batchRepo,
		trail:      trail,
	}
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// RegisterMappers wires the posting service's mappers into a dispatcher.
func RegisterMappers(dispatcher portssvc.EventDispatcherSvc, posting portssvc.PostingSvc) {
	dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		e, ok := event.(domain.FeedingRecorded)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", event, domain.EventFeedingRecorded)
		}
		_, err := posting.PostFeeding(ctx, e)
		return err
	})
	dispatcher.Register(domain.EventMortalityRecorded, func(ctx context.Context, event domain.Event) error {
		e, ok := event.(domain.MortalityRecorded)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", event, domain.EventMortalityRecorded)
		}
		_, err := posting.PostMortality(ctx, e)
		return err
	})
	dispatcher.Register(domain.EventHarvestCompleted, func(ctx context.Context, event domain.Event) error {
		e, ok := event.(domain.HarvestCompleted)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", event, domain.EventHarvestCompleted)
		}
		_, err := posting.PostHarvest(ctx, e)
		return err
	})
	dispatcher.Register(domain.EventInvoiceIssued, func(ctx context.Context, event domain.Event) error {
		e, ok := event.(domain.InvoiceIssued)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", event, domain.EventInvoiceIssued)
		}
		_, err := posting.PostInvoice(ctx, e)
		return err
	})
}

// resolve fetches or creates the account a mapper posts against.
func (s *postingService) resolve(ctx context.Context, template domain.Account, actorID string) (*domain.Account, error) {
	account, err := s.accountSvc.GetOrCreateAccount(ctx, template, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", template.Code, err)
	}
	return account, nil
}

// post creates the entry and records the outcome on the trail.
func (s *postingService) post(ctx context.Context, event domain.Event, entry domain.JournalEntry, actorID string) (*domain.JournalEntry, error) {
	saved, err := s.journalSvc.CreateEntry(ctx, entry, actorID)
	if err != nil {
		// A duplicate entry number means this event was already posted;
		// re-dispatching is a no-op, not a failure.
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Entry already posted for event",
				slog.String("entry_number", entry.EntryNumber),
				slog.String("event_type", event.EventType()))
			return nil, nil
		}
		s.publishFailure(ctx, event, err)
		return nil, err
	}
	s.publishPosted(ctx, *saved)
	return saved, nil
}

func (s *postingService) publishPosted(ctx context.Context, entry domain.JournalEntry) {
	if s.trail == nil {
		return
	}
	if err := s.trail.PublishEntryPosted(ctx, entry); err != nil {
		s.LogWarn(ctx, "Failed to publish posted entry to trail",
			slog.String("entry_number", entry.EntryNumber),
			slog.String("error", err.Error()))
	}
}

func (s *postingService) publishFailure(ctx context.Context, event domain.Event, cause error) {
	if s.trail == nil {
		return
	}
	if err := s.trail.PublishPostingFailed(ctx, event, cause.Error()); err != nil {
		s.LogWarn(ctx, "Failed to publish posting failure to trail",
			slog.String("event_type", event.EventType()),
			slog.String("error", err.Error()))
	}
}

// PostFeeding records feed consumption:
// debit Batch Operating Costs, credit Feed Inventory, for quantity x price.
func (s *postingService) PostFeeding(ctx context.Context, event domain.FeedingRecorded) (*domain.JournalEntry, error) {
	totalCost := event.TotalCost()
	if !totalCost.IsPositive() {
		s.LogWarn(ctx, "Skipping feeding entry with non-positive cost",
			slog.String("feeding_log_id", event.FeedingLogID),
			slog.String("total_cost", totalCost.String()))
		return nil, nil
	}

	operatingCosts, err := s.resolve(ctx, acctOperatingCosts, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}
	feedInventory, err := s.resolve(ctx, acctFeedInventory, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryNumber:   fmt.Sprintf("FEED-%s-%s", event.FeedingLogID, event.FeedingDate.Format("20060102")),
		EntryDate:     event.FeedingDate,
		Description:   fmt.Sprintf("Feeding batch %s - %s", event.BatchNumber, event.FeedName),
		ReferenceType: domain.RefFeedingLog,
		ReferenceID:   event.FeedingLogID,
		Lines: []domain.EntryLine{
			{
				AccountID:   operatingCosts.AccountID,
				LineType:    domain.Debit,
				Amount:      totalCost,
				Description: fmt.Sprintf("Feed: %s kg x %s", event.QuantityKg.String(), event.UnitPrice.String()),
			},
			{
				AccountID:   feedInventory.AccountID,
				LineType:    domain.Credit,
				Amount:      totalCost,
				Description: "Inventory drawdown",
			},
		},
	}
	return s.post(ctx, event, entry, event.RecordedBy)
}

// PostMortality writes off dead fish at average weight x count. The log's
// average weight wins; otherwise the batch's current average is used. A
// non-positive value produces no entry.
func (s *postingService) PostMortality(ctx context.Context, event domain.MortalityRecorded) (*domain.JournalEntry, error) {
	avgWeight := event.AverageWeightKg
	if !avgWeight.IsPositive() {
		batch, err := s.batchRepo.FindBatchByID(ctx, event.BatchID)
		if err != nil {
			s.publishFailure(ctx, event, err)
			return nil, fmt.Errorf("failed to load batch %s for mortality valuation: %w", event.BatchID, err)
		}
		avgWeight = batch.AverageWeightKg()
	}

	value := avgWeight.Mul(decimal.NewFromInt(event.Count)).Round(2)
	if !value.IsPositive() {
		s.LogWarn(ctx, "Skipping mortality entry with non-positive value",
			slog.String("mortality_log_id", event.MortalityLogID),
			slog.String("value", value.String()))
		return nil, nil
	}

	mortalityLoss, err := s.resolve(ctx, acctMortalityLoss, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}
	activeBatches, err := s.resolve(ctx, acctActiveBatches, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryNumber:   fmt.Sprintf("MORT-%s-%s", event.MortalityLogID, event.MortalityDate.Format("20060102")),
		EntryDate:     event.MortalityDate,
		Description:   fmt.Sprintf("Mortality of %d fish from batch %s", event.Count, event.BatchNumber),
		ReferenceType: domain.RefMortalityLog,
		ReferenceID:   event.MortalityLogID,
		Lines: []domain.EntryLine{
			{
				AccountID:   mortalityLoss.AccountID,
				LineType:    domain.Debit,
				Amount:      value,
				Description: fmt.Sprintf("%d fish x %s kg", event.Count, avgWeight.String()),
			},
			{
				AccountID:   activeBatches.AccountID,
				LineType:    domain.Credit,
				Amount:      value,
				Description: "Biological asset write-down",
			},
		},
	}
	return s.post(ctx, event, entry, event.RecordedBy)
}

// PostHarvest moves harvested biomass into finished goods at fair value,
// falling back to cost basis. When the harvest empties the batch, the batch
// is closed out; otherwise its live totals are reduced.
func (s *postingService) PostHarvest(ctx context.Context, event domain.HarvestCompleted) (*domain.JournalEntry, error) {
	value := event.Value()
	if !value.IsPositive() {
		s.LogWarn(ctx, "Skipping harvest entry with non-positive value",
			slog.String("harvest_id", event.HarvestID),
			slog.String("value", value.String()))
		return nil, nil
	}

	finishedGoods, err := s.resolve(ctx, acctFinishedGoods, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}
	activeBatches, err := s.resolve(ctx, acctActiveBatches, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryNumber:   fmt.Sprintf("HARV-%s-%s", event.HarvestID, event.HarvestDate.Format("20060102")),
		EntryDate:     event.HarvestDate,
		Description:   fmt.Sprintf("Harvest of %s kg from batch %s", event.QuantityKg.String(), event.BatchNumber),
		ReferenceType: domain.RefHarvest,
		ReferenceID:   event.HarvestID,
		Lines: []domain.EntryLine{
			{
				AccountID:   finishedGoods.AccountID,
				LineType:    domain.Debit,
				Amount:      value,
				Description: fmt.Sprintf("%s kg @ %s per kg", event.QuantityKg.String(), event.CostPerKg.String()),
			},
			{
				AccountID:   activeBatches.AccountID,
				LineType:    domain.Credit,
				Amount:      value,
				Description: "Transfer from biological asset",
			},
		},
	}

	saved, err := s.post(ctx, event, entry, event.RecordedBy)
	if err != nil || saved == nil {
		return saved, err
	}

	now := time.Now().UTC()
	batch, err := s.batchRepo.FindBatchByID(ctx, event.BatchID)
	if err != nil {
		// The entry stands; the batch update is reported but not rolled back.
		s.LogError(ctx, err, "Failed to load batch after harvest posting", slog.String("batch_id", event.BatchID))
		return saved, nil
	}
	if batch.CurrentCount <= event.Count {
		if err := s.batchRepo.CloseOutBatch(ctx, event.BatchID, event.RecordedBy, now); err != nil {
			s.LogError(ctx, err, "Failed to close out batch", slog.String("batch_id", event.BatchID))
		} else {
			s.LogInfo(ctx, "Batch closed out by harvest",
				slog.String("batch_id", event.BatchID),
				slog.String("harvest_id", event.HarvestID))
		}
	} else {
		if err := s.batchRepo.ReduceBatch(ctx, event.BatchID, event.Count, event.QuantityKg, event.RecordedBy, now); err != nil {
			s.LogError(ctx, err, "Failed to reduce batch totals", slog.String("batch_id", event.BatchID))
		}
	}
	return saved, nil
}

// PostInvoice records an issued invoice: debit receivable for the total,
// credit revenue for the subtotal and tax payable for the VAT. A known
// harvest cost adds a cost-of-goods leg against finished goods.
func (s *postingService) PostInvoice(ctx context.Context, event domain.InvoiceIssued) (*domain.JournalEntry, error) {
	receivable, err := s.resolve(ctx, acctReceivable, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}
	fishSales, err := s.resolve(ctx, acctFishSales, event.RecordedBy)
	if err != nil {
		s.publishFailure(ctx, event, err)
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryNumber:   fmt.Sprintf("INV-%s-%s", event.InvoiceID, event.InvoiceDate.Format("20060102")),
		EntryDate:     event.InvoiceDate,
		Description:   fmt.Sprintf("Invoice %s", event.InvoiceNumber),
		ReferenceType: domain.RefInvoice,
		ReferenceID:   event.InvoiceID,
		Lines: []domain.EntryLine{
			{
				AccountID:   receivable.AccountID,
				LineType:    domain.Debit,
				Amount:      event.TotalAmount,
				Description: fmt.Sprintf("Invoice %s", event.InvoiceNumber),
			},
			{
				AccountID:   fishSales.AccountID,
				LineType:    domain.Credit,
				Amount:      event.Subtotal,
				Description: "Sales",
			},
		},
	}

	if event.VATAmount.IsPositive() {
		taxPayable, err := s.resolve(ctx, acctTaxPayable, event.RecordedBy)
		if err != nil {
			s.publishFailure(ctx, event, err)
			return nil, err
		}
		entry.Lines = append(entry.Lines, domain.EntryLine{
			AccountID:   taxPayable.AccountID,
			LineType:    domain.Credit,
			Amount:      event.VATAmount,
			Description: "Value added tax",
		})
	}

	if event.COGSAmount.IsPositive() {
		cogs, err := s.resolve(ctx, acctCOGS, event.RecordedBy)
		if err != nil {
			s.publishFailure(ctx, event, err)
			return nil, err
		}
		finishedGoods, err := s.resolve(ctx, acctFinishedGoods, event.RecordedBy)
		if err != nil {
			s.publishFailure(ctx, event, err)
			return nil, err
		}
		entry.Lines = append(entry.Lines,
			domain.EntryLine{
				AccountID:   cogs.AccountID,
				LineType:    domain.Debit,
				Amount:      event.COGSAmount,
				Description: "Cost of goods sold",
			},
			domain.EntryLine{
				AccountID:   finishedGoods.AccountID,
				LineType:    domain.Credit,
				Amount:      event.COGSAmount,
				Description: "Finished goods drawdown",
			},
		)
	}

	return s.post(ctx, event, entry, event.RecordedBy)
}

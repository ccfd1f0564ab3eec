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
	ErrEntryMinLines      = errors.New("entry must have at least two lines")
	ErrEntryMinAccounts   = errors.New("entry must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrDescriptionMissing = errors.New("entry description is required")
	ErrAlreadyReversed    = errors.New("entry has already been reversed")
	ErrNotPosted          = errors.New("entry must be posted to be reversed")
)

// UnbalancedEntryError reports a rejected entry whose debit and credit
// totals differ. Validation happens before persistence, so a rejected entry
// leaves no trace in storage.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry does not balance: debits sum is %s and credits sum is %s",
		e.Debits.String(), e.Credits.String())
}

// journalService provides core journal entry operations.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountRepo portsrepo.AccountReader) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateEntry enforces the double-entry rules: at least two lines across
// two accounts, every amount strictly positive with at most two decimal
// places, and debit total equal to credit total.
func (s *journalService) validateEntry(entry *domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return ErrEntryMinLines
	}
	if entry.Description == "" {
		return ErrDescriptionMissing
	}

	accountSet := make(map[string]bool, len(entry.Lines))
	for _, line := range entry.Lines {
		accountSet[line.AccountID] = true
		if line.LineType != domain.Debit && line.LineType != domain.Credit {
			return fmt.Errorf("%w: line type must be DEBIT or CREDIT, got %q", apperrors.ErrValidation, line.LineType)
		}
		if !line.Amount.IsPositive() {
			return fmt.Errorf("%w: line amount must be positive for account %s", apperrors.ErrValidation, line.AccountID)
		}
		if line.Amount.Exponent() < -2 {
			return fmt.Errorf("%w: line amount %s has more than two decimal places", apperrors.ErrValidation, line.Amount.String())
		}
	}
	if len(accountSet) < 2 {
		return ErrEntryMinAccounts
	}

	debits, credits := accounting.SumByType(entry.Lines)
	if !debits.Equal(credits) {
		return &UnbalancedEntryError{Debits: debits, Credits: credits}
	}
	return nil
}

// checkAccounts verifies that every referenced account exists and is active.
func (s *journalService) checkAccounts(ctx context.Context, lines []domain.EntryLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s", ErrAccountInactive, id)
		}
	}
	return nil
}

// CreateEntry validates and persists a balanced entry atomically, posting it
// immediately. Used by the automated mappers; callers supply the entry
// number and reference.
func (s *journalService) CreateEntry(ctx context.Context, entry domain.JournalEntry, creatorID string) (*domain.JournalEntry, error) {
	now := time.Now().UTC()
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.EntryNumber == "" {
		entry.EntryNumber = fmt.Sprintf("JE-%d", now.UnixNano())
	}
	entry.IsPosted = true
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}
	for i := range entry.Lines {
		if entry.Lines[i].LineID == "" {
			entry.Lines[i].LineID = uuid.NewString()
		}
		entry.Lines[i].EntryID = entry.EntryID
		entry.Lines[i].CreatedAt = now
	}

	if err := s.validateEntry(&entry); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, entry.Lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, entry.Lines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: entry number %s already exists", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		s.LogError(ctx, err, "Failed to save entry", slog.String("entry_number", entry.EntryNumber))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.LogInfo(ctx, "Entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("reference_type", entry.ReferenceType))
	return &entry, nil
}

// CreateManualEntry builds an entry from an operator request, saves it as a
// draft and then posts it. A draft that fails posting stays visible for
// correction rather than disappearing.
func (s *journalService) CreateManualEntry(ctx context.Context, req dto.CreateManualEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	now := time.Now().UTC()
	referenceType := req.ReferenceType
	if referenceType == "" {
		referenceType = domain.RefManual
	}

	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		EntryNumber:   fmt.Sprintf("JE-%d", now.UnixNano()),
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		ReferenceType: referenceType,
		ReferenceID:   req.ReferenceID,
		IsPosted:      false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	for _, lineReq := range req.Lines {
		entry.Lines = append(entry.Lines, domain.EntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   lineReq.AccountID,
			LineType:    lineReq.LineType,
			Amount:      lineReq.Amount,
			Description: lineReq.Description,
			CreatedAt:   now,
		})
	}

	if err := s.validateEntry(&entry); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, entry.Lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, entry.Lines); err != nil {
		s.LogError(ctx, err, "Failed to save manual entry", slog.String("entry_number", entry.EntryNumber))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	if err := s.journalRepo.MarkPosted(ctx, entry.EntryID, creatorID, now); err != nil {
		s.LogError(ctx, err, "Failed to post manual entry", slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to post entry %s: %w", entry.EntryID, err)
	}
	entry.IsPosted = true

	s.LogInfo(ctx, "Manual entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// GetEntryByID retrieves a specific journal entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry by ID", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entry lines", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a token-paginated list of entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, portsrepo.ListEntriesFilter{
		ReferenceType: params.ReferenceType,
		ReferenceID:   params.ReferenceID,
		Limit:         limit,
		NextToken:     params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// ReverseEntry creates and posts a mirror-image entry for a posted entry.
// Each line keeps its account and amount with the debit/credit side flipped,
// and the two entries are linked both ways.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	original, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsPosted {
		return nil, fmt.Errorf("%w: entry %s", ErrNotPosted, entryID)
	}
	if original.ReversedBy != nil {
		return nil, fmt.Errorf("%w: entry %s was reversed by %s", ErrAlreadyReversed, entryID, *original.ReversedBy)
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
	}
	for _, line := range original.Lines {
		flipped := domain.Credit
		if line.LineType == domain.Credit {
			flipped = domain.Debit
		}
		reversal.Lines = append(reversal.Lines, domain.EntryLine{
			AccountID:   line.AccountID,
			LineType:    flipped,
			Amount:      line.Amount,
			Description: line.Description,
		})
	}

	saved, err := s.CreateEntry(ctx, reversal, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create reversal for entry %s: %w", entryID, err)
	}

	if err := s.journalRepo.LinkReversal(ctx, original.EntryID, saved.EntryID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to link reversal",
			slog.String("entry_id", original.EntryID),
			slog.String("reversal_id", saved.EntryID))
		return nil, fmt.Errorf("failed to link reversal: %w", err)
	}

	s.LogInfo(ctx, "Entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_id", saved.EntryID))
	return saved, nil
}

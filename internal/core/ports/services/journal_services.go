package services

import (
	"context"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/aquaerp/aqua-accounting/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries
type JournalWriterSvc interface {
	// CreateEntry validates and persists a balanced entry, posting it
	// immediately. Entry and lines are saved atomically.
	CreateEntry(ctx context.Context, entry domain.JournalEntry, creatorID string) (*domain.JournalEntry, error)

	// CreateManualEntry builds an entry from an API request, persists it as a
	// draft and then posts it.
	CreateManualEntry(ctx context.Context, req dto.CreateManualEntryRequest, creatorID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a mirror-image entry for an existing
	// posted entry, linking the two.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines reader and writer interfaces for journal entries
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

package services

import (
	"context"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
)

// EventHandlerFunc consumes a single operational event and produces its
// ledger effect. Returning an error marks the event failed without
// affecting other handlers.
type EventHandlerFunc func(ctx context.Context, event domain.Event) error

// EventDispatcherSvc routes operational events to their registered handlers.
// Handler failures are logged and isolated so the originating operation is
// never blocked by bookkeeping.
type EventDispatcherSvc interface {
	// Register attaches a handler to an event type, replacing any previous one.
	Register(eventType string, handler EventHandlerFunc)

	// Dispatch runs the handler for the event's type, recovering from panics.
	// The returned error is informational; callers are free to ignore it.
	Dispatch(ctx context.Context, event domain.Event) error
}

// PostingSvc translates operational events into posted journal entries.
type PostingSvc interface {
	// PostFeeding records fish feed consumption as an operating cost against
	// feed inventory.
	PostFeeding(ctx context.Context, event domain.FeedingRecorded) (*domain.JournalEntry, error)

	// PostMortality writes off the estimated value of dead fish. Events whose
	// estimated value is not positive produce no entry.
	PostMortality(ctx context.Context, event domain.MortalityRecorded) (*domain.JournalEntry, error)

	// PostHarvest moves harvested biomass from the biological asset account
	// into finished goods, closing out fully harvested batches.
	PostHarvest(ctx context.Context, event domain.HarvestCompleted) (*domain.JournalEntry, error)

	// PostInvoice records a sales invoice: receivable, revenue, tax payable
	// and, when known, cost of goods sold.
	PostInvoice(ctx context.Context, event domain.InvoiceIssued) (*domain.JournalEntry, error)
}

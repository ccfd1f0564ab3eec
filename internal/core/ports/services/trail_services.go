package services

import (
	"context"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
)

// EntryTrailPublisher emits a durable record of every automated posting
// outcome, so operations and accounting can be reconciled after the fact.
// Publishing is best effort; a broker outage never fails a posting.
type EntryTrailPublisher interface {
	// PublishEntryPosted records a successfully posted entry.
	PublishEntryPosted(ctx context.Context, entry domain.JournalEntry) error

	// PublishPostingFailed records an event whose ledger effect could not be
	// produced, together with the failure reason.
	PublishPostingFailed(ctx context.Context, event domain.Event, reason string) error

	// Close flushes and releases the underlying writers.
	Close() error
}

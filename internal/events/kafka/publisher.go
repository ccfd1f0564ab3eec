package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
)

const (
	TopicEntryPosted   = "entry_posted"
	TopicPostingFailed = "posting_failed"
)

// Publisher writes posting outcomes to Kafka so downstream consumers can
// reconcile the operational modules against the ledger.
type Publisher struct {
	posted *kafka.Writer
	failed *kafka.Writer
}

// NewPublisher creates a publisher with one writer per topic.
func NewPublisher(brokers []string) *Publisher {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
	}
	return &Publisher{
		posted: newWriter(TopicEntryPosted),
		failed: newWriter(TopicPostingFailed),
	}
}

var _ portssvc.EntryTrailPublisher = (*Publisher)(nil)

// entryPostedMessage is the wire shape of a successful posting.
type entryPostedMessage struct {
	EntryID       string    `json:"entryID"`
	EntryNumber   string    `json:"entryNumber"`
	EntryDate     time.Time `json:"entryDate"`
	ReferenceType string    `json:"referenceType"`
	ReferenceID   string    `json:"referenceID"`
	Description   string    `json:"description"`
	PostedAt      time.Time `json:"postedAt"`
}

// postingFailedMessage is the wire shape of a failed posting.
type postingFailedMessage struct {
	EventType     string    `json:"eventType"`
	ReferenceType string    `json:"referenceType"`
	ReferenceID   string    `json:"referenceID"`
	Reason        string    `json:"reason"`
	FailedAt      time.Time `json:"failedAt"`
}

// PublishEntryPosted records a successfully posted entry. The reference ID
// keys the message so one record's outcomes stay in order.
func (p *Publisher) PublishEntryPosted(ctx context.Context, entry domain.JournalEntry) error {
	data, err := json.Marshal(entryPostedMessage{
		EntryID:       entry.EntryID,
		EntryNumber:   entry.EntryNumber,
		EntryDate:     entry.EntryDate,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Description:   entry.Description,
		PostedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.posted.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.ReferenceID),
		Value: data,
	})
}

// PublishPostingFailed records an event whose ledger effect failed.
func (p *Publisher) PublishPostingFailed(ctx context.Context, event domain.Event, reason string) error {
	refType, refID := event.Source()
	data, err := json.Marshal(postingFailedMessage{
		EventType:     event.EventType(),
		ReferenceType: refType,
		ReferenceID:   refID,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.failed.WriteMessages(ctx, kafka.Message{
		Key:   []byte(refID),
		Value: data,
	})
}

// Close flushes and releases both writers.
func (p *Publisher) Close() error {
	err := p.posted.Close()
	if ferr := p.failed.Close(); err == nil {
		err = ferr
	}
	return err
}

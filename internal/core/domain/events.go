package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event type names used by the dispatcher and the kafka trail.
const (
	EventFeedingRecorded   = "feeding_recorded"
	EventMortalityRecorded = "mortality_recorded"
	EventHarvestCompleted  = "harvest_completed"
	EventInvoiceIssued     = "invoice_issued"
)

// Event is an operational fact already persisted by its owning module.
// The accounting core subscribes to these; it never owns or rejects them.
type Event interface {
	EventType() string
	// Source identifies the originating record for the entry reference.
	Source() (referenceType, referenceID string)
}

// FeedingRecorded is emitted after a feeding log is saved.
type FeedingRecorded struct {
	FeedingLogID string          `json:"feedingLogID"`
	BatchID      string          `json:"batchID"`
	BatchNumber  string          `json:"batchNumber"`
	FeedName     string          `json:"feedName"`
	QuantityKg   decimal.Decimal `json:"quantityKg"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	FeedingDate  time.Time       `json:"feedingDate"`
	RecordedBy   string          `json:"recordedBy"`
}

func (e FeedingRecorded) EventType() string { return EventFeedingRecorded }
func (e FeedingRecorded) Source() (string, string) {
	return RefFeedingLog, e.FeedingLogID
}

// TotalCost is the feed consumption value: quantity × unit price.
func (e FeedingRecorded) TotalCost() decimal.Decimal {
	return e.QuantityKg.Mul(e.UnitPrice).Round(2)
}

// MortalityRecorded is emitted after a mortality log is saved.
// AverageWeightKg may be zero when the log did not specify one; the mapper
// falls back to the batch's current average weight.
type MortalityRecorded struct {
	MortalityLogID  string          `json:"mortalityLogID"`
	BatchID         string          `json:"batchID"`
	BatchNumber     string          `json:"batchNumber"`
	Count           int64           `json:"count"`
	AverageWeightKg decimal.Decimal `json:"averageWeightKg"`
	MortalityDate   time.Time       `json:"mortalityDate"`
	RecordedBy      string          `json:"recordedBy"`
}

func (e MortalityRecorded) EventType() string { return EventMortalityRecorded }
func (e MortalityRecorded) Source() (string, string) {
	return RefMortalityLog, e.MortalityLogID
}

// HarvestCompleted is emitted when a harvest reaches completed status.
type HarvestCompleted struct {
	HarvestID   string          `json:"harvestID"`
	BatchID     string          `json:"batchID"`
	BatchNumber string          `json:"batchNumber"`
	QuantityKg  decimal.Decimal `json:"quantityKg"`
	Count       int64           `json:"count"`
	CostPerKg   decimal.Decimal `json:"costPerKg"`
	FairValue   decimal.Decimal `json:"fairValue"` // Zero when unset; mapper falls back to cost
	HarvestDate time.Time       `json:"harvestDate"`
	RecordedBy  string          `json:"recordedBy"`
}

func (e HarvestCompleted) EventType() string { return EventHarvestCompleted }
func (e HarvestCompleted) Source() (string, string) {
	return RefHarvest, e.HarvestID
}

// Value is the amount moved from biological assets into finished goods:
// fair value when set, cost basis otherwise.
func (e HarvestCompleted) Value() decimal.Decimal {
	if e.FairValue.IsPositive() {
		return e.FairValue.Round(2)
	}
	return e.CostPerKg.Mul(e.QuantityKg).Round(2)
}

// InvoiceIssued is emitted when a sales invoice reaches issued status.
// COGSAmount is the summed harvest cost of the invoiced lines; zero when the
// harvested cost is unknown, in which case no cost-of-goods leg is posted.
type InvoiceIssued struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	BatchID       string          `json:"batchID"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	COGSAmount    decimal.Decimal `json:"cogsAmount"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	RecordedBy    string          `json:"recordedBy"`
}

func (e InvoiceIssued) EventType() string { return EventInvoiceIssued }
func (e InvoiceIssued) Source() (string, string) {
	return RefInvoice, e.InvoiceID
}

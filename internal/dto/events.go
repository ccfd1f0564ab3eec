package dto

import (
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// The event ingestion DTOs are the HTTP shape of the operational facts the
// owning modules dispatch in-process. Validation happens here, at the
// boundary, so the mappers only ever see well-formed events.

// FeedingEventRequest reports a saved feeding log.
type FeedingEventRequest struct {
	FeedingLogID string          `json:"feedingLogID" binding:"required"`
	BatchID      string          `json:"batchID" binding:"required"`
	BatchNumber  string          `json:"batchNumber"`
	FeedName     string          `json:"feedName"`
	QuantityKg   decimal.Decimal `json:"quantityKg" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unitPrice" binding:"required"`
	FeedingDate  time.Time       `json:"feedingDate" binding:"required"`
}

// ToDomain converts the request to a domain event.
func (r FeedingEventRequest) ToDomain(actorID string) domain.FeedingRecorded {
	return domain.FeedingRecorded{
		FeedingLogID: r.FeedingLogID,
		BatchID:      r.BatchID,
		BatchNumber:  r.BatchNumber,
		FeedName:     r.FeedName,
		QuantityKg:   r.QuantityKg,
		UnitPrice:    r.UnitPrice,
		FeedingDate:  r.FeedingDate,
		RecordedBy:   actorID,
	}
}

// MortalityEventRequest reports a saved mortality log.
type MortalityEventRequest struct {
	MortalityLogID  string          `json:"mortalityLogID" binding:"required"`
	BatchID         string          `json:"batchID" binding:"required"`
	BatchNumber     string          `json:"batchNumber"`
	Count           int64           `json:"count" binding:"required,gt=0"`
	AverageWeightKg decimal.Decimal `json:"averageWeightKg"`
	MortalityDate   time.Time       `json:"mortalityDate" binding:"required"`
}

// ToDomain converts the request to a domain event.
func (r MortalityEventRequest) ToDomain(actorID string) domain.MortalityRecorded {
	return domain.MortalityRecorded{
		MortalityLogID:  r.MortalityLogID,
		BatchID:         r.BatchID,
		BatchNumber:     r.BatchNumber,
		Count:           r.Count,
		AverageWeightKg: r.AverageWeightKg,
		MortalityDate:   r.MortalityDate,
		RecordedBy:      actorID,
	}
}

// HarvestEventRequest reports a completed harvest.
type HarvestEventRequest struct {
	HarvestID   string          `json:"harvestID" binding:"required"`
	BatchID     string          `json:"batchID" binding:"required"`
	BatchNumber string          `json:"batchNumber"`
	QuantityKg  decimal.Decimal `json:"quantityKg" binding:"required"`
	Count       int64           `json:"count" binding:"required,gt=0"`
	CostPerKg   decimal.Decimal `json:"costPerKg"`
	FairValue   decimal.Decimal `json:"fairValue"`
	HarvestDate time.Time       `json:"harvestDate" binding:"required"`
}

// ToDomain converts the request to a domain event.
func (r HarvestEventRequest) ToDomain(actorID string) domain.HarvestCompleted {
	return domain.HarvestCompleted{
		HarvestID:   r.HarvestID,
		BatchID:     r.BatchID,
		BatchNumber: r.BatchNumber,
		QuantityKg:  r.QuantityKg,
		Count:       r.Count,
		CostPerKg:   r.CostPerKg,
		FairValue:   r.FairValue,
		HarvestDate: r.HarvestDate,
		RecordedBy:  actorID,
	}
}

// InvoiceEventRequest reports an issued sales invoice.
type InvoiceEventRequest struct {
	InvoiceID     string          `json:"invoiceID" binding:"required"`
	InvoiceNumber string          `json:"invoiceNumber" binding:"required"`
	BatchID       string          `json:"batchID"`
	Subtotal      decimal.Decimal `json:"subtotal" binding:"required"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount" binding:"required"`
	COGSAmount    decimal.Decimal `json:"cogsAmount"`
	InvoiceDate   time.Time       `json:"invoiceDate" binding:"required"`
}

// ToDomain converts the request to a domain event.
func (r InvoiceEventRequest) ToDomain(actorID string) domain.InvoiceIssued {
	return domain.InvoiceIssued{
		InvoiceID:     r.InvoiceID,
		InvoiceNumber: r.InvoiceNumber,
		BatchID:       r.BatchID,
		Subtotal:      r.Subtotal,
		VATAmount:     r.VATAmount,
		TotalAmount:   r.TotalAmount,
		COGSAmount:    r.COGSAmount,
		InvoiceDate:   r.InvoiceDate,
		RecordedBy:    actorID,
	}
}

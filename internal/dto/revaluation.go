package dto

import (
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RunRevaluationRequest triggers an IAS 41 revaluation run.
type RunRevaluationRequest struct {
	RevaluationDate  time.Time       `json:"revaluationDate" binding:"required" time_format:"2006-01-02"`
	MarketPricePerKg decimal.Decimal `json:"marketPricePerKg" binding:"required,dpositive"`
	BatchID          *string         `json:"batchID"` // Optional: one batch instead of all active
	DryRun           bool            `json:"dryRun"`
	Force            bool            `json:"force"` // Replace an existing revaluation for the same date
}

// RevaluationResponse defines the data returned for one revaluation record.
type RevaluationResponse struct {
	RevaluationID      string          `json:"revaluationID"`
	BatchID            string          `json:"batchID"`
	RevaluationDate    time.Time       `json:"revaluationDate"`
	CarryingAmount     decimal.Decimal `json:"carryingAmount"`
	FairValue          decimal.Decimal `json:"fairValue"`
	MarketPricePerKg   decimal.Decimal `json:"marketPricePerKg"`
	CurrentWeightKg    decimal.Decimal `json:"currentWeightKg"`
	CurrentCount       int64           `json:"currentCount"`
	UnrealizedGainLoss decimal.Decimal `json:"unrealizedGainLoss"`
	EntryID            *string         `json:"entryID,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToRevaluationResponse converts a domain record to its DTO.
func ToRevaluationResponse(rev *domain.BiologicalAssetRevaluation) RevaluationResponse {
	return RevaluationResponse{
		RevaluationID:      rev.RevaluationID,
		BatchID:            rev.BatchID,
		RevaluationDate:    rev.RevaluationDate,
		CarryingAmount:     rev.CarryingAmount,
		FairValue:          rev.FairValue,
		MarketPricePerKg:   rev.MarketPricePerKg,
		CurrentWeightKg:    rev.CurrentWeightKg,
		CurrentCount:       rev.CurrentCount,
		UnrealizedGainLoss: rev.UnrealizedGainLoss,
		EntryID:            rev.EntryID,
		CreatedAt:          rev.CreatedAt,
	}
}

// ListRevaluationsParams defines query parameters for listing revaluations.
type ListRevaluationsParams struct {
	BatchID   *string    `form:"batchID"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

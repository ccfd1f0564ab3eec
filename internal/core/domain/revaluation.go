package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BiologicalAssetRevaluation records one IAS 41 fair-value measurement of a
// batch. Exactly one row exists per (batch, revaluation date); re-running a
// revaluation for the same date overwrites the figures in place.
type BiologicalAssetRevaluation struct {
	RevaluationID    string          `json:"revaluationID"` // Primary Key (UUID)
	BatchID          string          `json:"batchID"`
	RevaluationDate  time.Time       `json:"revaluationDate"`
	CarryingAmount   decimal.Decimal `json:"carryingAmount"` // Ledger-derived value before revaluation
	FairValue        decimal.Decimal `json:"fairValue"`      // current weight × market price
	MarketPricePerKg decimal.Decimal `json:"marketPricePerKg"`
	CurrentWeightKg  decimal.Decimal `json:"currentWeightKg"` // Snapshotted from the batch
	CurrentCount     int64           `json:"currentCount"`
	// UnrealizedGainLoss is always exactly FairValue - CarryingAmount; it is
	// recomputed on every save and never stored independently of that formula.
	UnrealizedGainLoss decimal.Decimal `json:"unrealizedGainLoss"`
	EntryID            *string         `json:"entryID,omitempty"` // Journal entry that recorded the delta, if any
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"createdAt"`
	CreatedBy          string          `json:"createdBy"`
}

// Recompute enforces the gain/loss invariant from the stored components.
func (r *BiologicalAssetRevaluation) Recompute() {
	r.UnrealizedGainLoss = r.FairValue.Sub(r.CarryingAmount)
}

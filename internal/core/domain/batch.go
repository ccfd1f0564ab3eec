package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus indicates the lifecycle state of a fish batch.
type BatchStatus string

const (
	BatchActive     BatchStatus = "ACTIVE"
	BatchHarvested  BatchStatus = "HARVESTED"
	BatchTerminated BatchStatus = "TERMINATED"
)

// Batch is the accounting-relevant snapshot of a fish batch. The full batch
// lifecycle (stocking, transfers, growth sampling) is owned by the biological
// module; this core only reads the figures it needs for valuation and
// updates the live totals when a harvest empties the batch.
type Batch struct {
	BatchID         string          `json:"batchID"` // Primary Key (UUID)
	BatchNumber     string          `json:"batchNumber"`
	Status          BatchStatus     `json:"status"`
	StartDate       time.Time       `json:"startDate"`
	InitialCount    int64           `json:"initialCount"`
	InitialWeightKg decimal.Decimal `json:"initialWeightKg"`
	InitialCost     decimal.Decimal `json:"initialCost"` // Fingerling cost, carrying-amount fallback
	CurrentCount    int64           `json:"currentCount"`
	CurrentWeightKg decimal.Decimal `json:"currentWeightKg"`
	AuditFields
}

// EstimatedBiomassKg returns the current estimated live biomass.
// This release passes the tracked live weight straight through; growth-curve
// modelling can replace it without touching callers.
func (b *Batch) EstimatedBiomassKg() decimal.Decimal {
	return b.CurrentWeightKg
}

// AverageWeightKg returns the current average weight per fish, or zero when
// the batch holds no fish.
func (b *Batch) AverageWeightKg() decimal.Decimal {
	if b.CurrentCount <= 0 {
		return decimal.Zero
	}
	return b.CurrentWeightKg.Div(decimal.NewFromInt(b.CurrentCount))
}

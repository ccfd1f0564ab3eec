package services

import (
	"context"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/aquaerp/aqua-accounting/internal/dto"
)

// RevaluationRunResult summarizes one revaluation run across batches.
type RevaluationRunResult struct {
	Revaluations []domain.BiologicalAssetRevaluation
	SkippedBatches []string
	DryRun       bool
}

// RevaluationSvc computes and records fair-value adjustments for active
// batches under IAS 41.
type RevaluationSvc interface {
	// Run revalues the requested batches as of a date. Dry runs perform the
	// full computation inside a transaction that is rolled back.
	Run(ctx context.Context, req dto.RunRevaluationRequest, actorID string) (*RevaluationRunResult, error)

	// GetRevaluation retrieves the stored revaluation for a batch and date.
	GetRevaluation(ctx context.Context, batchID string, date string) (*domain.BiologicalAssetRevaluation, error)

	// ListRevaluations retrieves stored revaluations, newest first.
	ListRevaluations(ctx context.Context, params dto.ListRevaluationsParams) ([]domain.BiologicalAssetRevaluation, error)
}

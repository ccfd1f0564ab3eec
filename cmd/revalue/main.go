package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquaerp/aqua-accounting/internal/core/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
	"github.com/aquaerp/aqua-accounting/internal/middleware"
	"github.com/aquaerp/aqua-accounting/internal/platform/config"
	"github.com/aquaerp/aqua-accounting/internal/repositories/database/pgsql"
	"github.com/aquaerp/aqua-accounting/pkg/database"
)

// revalue runs an IAS 41 biological asset revaluation from the command line,
// typically from a nightly cron after market prices are published.
func main() {
	dateFlag := flag.String("date", time.Now().UTC().Format("2006-01-02"), "Revaluation date (YYYY-MM-DD)")
	priceFlag := flag.String("market-price", "", "Market price per kg (required)")
	batchFlag := flag.String("batch-id", "", "Revalue a single batch instead of all active batches")
	dryRun := flag.Bool("dry-run", false, "Compute and print results without persisting anything")
	force := flag.Bool("force", false, "Replace an existing revaluation for the same date")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *priceFlag == "" {
		fmt.Fprintln(os.Stderr, "error: -market-price is required")
		flag.Usage()
		os.Exit(2)
	}
	marketPrice, err := decimal.NewFromString(*priceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid -market-price %q: %v\n", *priceFlag, err)
		os.Exit(2)
	}
	revaluationDate, err := time.Parse("2006-01-02", *dateFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid -date %q: %v\n", *dateFlag, err)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	accountSvc := services.NewAccountService(repos.AccountRepo, repos.ReportingRepo)
	revaluationSvc := services.NewRevaluationService(repos.RevaluationRepo, repos.JournalRepo, repos.BatchRepo, accountSvc)

	req := dto.RunRevaluationRequest{
		RevaluationDate:  revaluationDate,
		MarketPricePerKg: marketPrice,
		DryRun:           *dryRun,
		Force:            *force,
	}
	if *batchFlag != "" {
		req.BatchID = batchFlag
	}

	result, err := revaluationSvc.Run(ctx, req, middleware.SystemActor)
	if err != nil {
		logger.Error("Revaluation run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if result.DryRun {
		fmt.Println("DRY RUN: no changes were persisted")
	}
	totalGainLoss := decimal.Zero
	for _, rev := range result.Revaluations {
		totalGainLoss = totalGainLoss.Add(rev.UnrealizedGainLoss)
		fmt.Printf("batch=%s carrying=%s fair_value=%s gain_loss=%s\n",
			rev.BatchID,
			rev.CarryingAmount.StringFixed(2),
			rev.FairValue.StringFixed(2),
			rev.UnrealizedGainLoss.StringFixed(2),
		)
	}
	for _, batchID := range result.SkippedBatches {
		fmt.Printf("batch=%s skipped: already revalued for %s (use -force to replace)\n", batchID, *dateFlag)
	}
	fmt.Printf("revalued=%d skipped=%d total_gain_loss=%s\n",
		len(result.Revaluations), len(result.SkippedBatches), totalGainLoss.StringFixed(2))
}

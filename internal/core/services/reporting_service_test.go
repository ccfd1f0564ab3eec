package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/aquaerp/aqua-accounting/internal/core/services"
)

func TestBalanceSheet_TotalsPerSection(t *testing.T) {
	ctx := context.Background()
	asOf := time.Now().UTC()
	mockRepo := new(MockReportingRepository)
	service := services.NewReportingService(mockRepo)

	assets := []domain.AccountAmount{
		{AccountCode: "1140", Name: "Feed Inventory", NetAmount: decimal.RequireFromString("2500.00")},
		{AccountCode: "1310", Name: "Active Batches", NetAmount: decimal.RequireFromString("12000.00")},
	}
	liabilities := []domain.AccountAmount{
		{AccountCode: "2120", Name: "Tax Payable", NetAmount: decimal.RequireFromString("1400.00")},
	}
	equity := []domain.AccountAmount{
		{AccountCode: "3300", Name: "Unrealized Gain/Loss", NetAmount: decimal.RequireFromString("500.00")},
	}
	mockRepo.On("GetBalanceSheetData", ctx, asOf).Return(assets, liabilities, equity, nil).Once()

	report, err := service.BalanceSheet(ctx, asOf)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.TotalAssets.Equal(decimal.RequireFromString("14500.00")))
	assert.True(t, report.TotalLiabilities.Equal(decimal.RequireFromString("1400.00")))
	assert.True(t, report.TotalEquity.Equal(decimal.RequireFromString("500.00")))
	assert.Len(t, report.Assets, 2)
	mockRepo.AssertExpectations(t)
}

func TestTrialBalance_PassesRowsThrough(t *testing.T) {
	ctx := context.Background()
	asOf := time.Now().UTC()
	mockRepo := new(MockReportingRepository)
	service := services.NewReportingService(mockRepo)

	rows := []domain.TrialBalanceRow{
		{
			AccountCode: "1310",
			AccountName: "Active Batches",
			AccountType: domain.BiologicalAsset,
			Debit:       decimal.RequireFromString("15000.00"),
			Credit:      decimal.RequireFromString("3000.00"),
			Balance:     decimal.RequireFromString("12000.00"),
		},
	}
	mockRepo.On("GetTrialBalanceData", ctx, asOf).Return(rows, nil).Once()

	got, err := service.TrialBalance(ctx, asOf)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Balance.Equal(got[0].Debit.Sub(got[0].Credit)))
	mockRepo.AssertExpectations(t)
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSavingsProgress(t *testing.T) {
	tests := []struct {
		name    string
		goal    int64
		current int64
		want    string
	}{
		{name: "no goal", goal: 0, current: 500, want: "0"},
		{name: "halfway", goal: 1000, current: 500, want: "50"},
		{name: "complete", goal: 1000, current: 1000, want: "100"},
		{name: "overfunded capped at 100", goal: 1000, current: 1500, want: "100"},
		{name: "nothing saved", goal: 1000, current: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := FinancialTotals{
				TotalSavingsGoal:    decimal.NewFromInt(tt.goal),
				TotalSavingsCurrent: decimal.NewFromInt(tt.current),
			}
			got := totals.SavingsProgress()
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("SavingsProgress() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		debt    int64
		savings int64
		want    FinancialHealth
	}{
		{name: "positive balance no debt", balance: 3300, debt: 0, savings: 0, want: HealthExcellent},
		{name: "debt below savings", balance: 3300, debt: 1000, savings: 5000, want: HealthGood},
		{name: "debt above savings", balance: 3300, debt: 5000, savings: 1000, want: HealthFair},
		{name: "zero balance", balance: 0, debt: 0, savings: 0, want: HealthNeutral},
		{name: "negative balance", balance: -500, debt: 0, savings: 0, want: HealthPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := FinancialTotals{
				TotalBalance:        decimal.NewFromInt(tt.balance),
				TotalDebtAmount:     decimal.NewFromInt(tt.debt),
				TotalSavingsCurrent: decimal.NewFromInt(tt.savings),
			}
			if got := totals.Health(); got != tt.want {
				t.Errorf("Health() = %s, want %s", got, tt.want)
			}
		})
	}
}

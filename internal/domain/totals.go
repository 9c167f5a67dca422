package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialTotals is one immutable snapshot of a user's derived financial
// summary. A fresh snapshot fully replaces the previous one.
type FinancialTotals struct {
	TotalBalance           decimal.Decimal `json:"totalBalance"`
	TotalSavingsGoal       decimal.Decimal `json:"totalSavingsGoal"`
	TotalSavingsCurrent    decimal.Decimal `json:"totalSavingsCurrent"`
	TotalDebtAmount        decimal.Decimal `json:"totalDebtAmount"`
	TotalEMIAmount         decimal.Decimal `json:"totalEMIAmount"`
	TotalEMIMonthlyPayment decimal.Decimal `json:"totalEMIMonthlyPayment"`
	TotalExpenses          decimal.Decimal `json:"totalExpenses"`
	MonthlyIncome          decimal.Decimal `json:"monthlyIncome"`
	LastCalculated         time.Time       `json:"lastCalculated"`
}

// FinancialHealth buckets for a snapshot
type FinancialHealth string

const (
	HealthExcellent FinancialHealth = "excellent"
	HealthGood      FinancialHealth = "good"
	HealthFair      FinancialHealth = "fair"
	HealthNeutral   FinancialHealth = "neutral"
	HealthPoor      FinancialHealth = "poor"
)

// SavingsProgress returns the savings completion percentage, capped at 100.
func (t *FinancialTotals) SavingsProgress() decimal.Decimal {
	if t.TotalSavingsGoal.IsZero() {
		return decimal.Zero
	}
	progress := t.TotalSavingsCurrent.Div(t.TotalSavingsGoal).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	return progress
}

// Health classifies the snapshot by balance, debt and savings.
func (t *FinancialTotals) Health() FinancialHealth {
	switch {
	case t.TotalBalance.IsPositive() && t.TotalDebtAmount.IsZero():
		return HealthExcellent
	case t.TotalBalance.IsPositive() && t.TotalDebtAmount.LessThan(t.TotalSavingsCurrent):
		return HealthGood
	case t.TotalBalance.IsPositive():
		return HealthFair
	case t.TotalBalance.IsZero():
		return HealthNeutral
	default:
		return HealthPoor
	}
}

package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProfile marks profiles with negative or non-finite numeric inputs.
var ErrInvalidProfile = errors.New("invalid financial profile")

// ValidateProfile rejects profiles that would propagate NaN or negative
// values into the indicators. Zero values are always valid; the indicator
// definitions handle them.
func ValidateProfile(p FinancialProfile) error {
	fields := map[string]float64{
		"monthly_income":    p.MonthlyIncome,
		"monthly_expenses":  p.MonthlyExpenses,
		"income_std_dev":    p.IncomeStdDev,
		"savings_amount":    p.SavingsAmount,
		"business_revenue":  p.BusinessRevenue,
		"business_expenses": p.BusinessExpenses,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidProfile, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalidProfile, name)
		}
	}
	counts := map[string]int{
		"upi_transaction_count":   p.UPITransactionCount,
		"bill_payment_streak":     p.BillPaymentStreak,
		"digital_activity_months": p.DigitalActivityMonths,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalidProfile, name)
		}
	}
	return nil
}

// ComputeIndicators derives the six behavioral indicators from a profile.
// Pure and side-effect free. Profiles with zero income or zero business
// revenue still produce a complete indicator set: the affected indicators
// fall back to 0 instead of erroring.
func ComputeIndicators(p FinancialProfile) IndicatorSet {
	var isi, ecr, sdr float64
	if p.MonthlyIncome > 0 {
		isi = math.Max(0, 1-p.IncomeStdDev/p.MonthlyIncome)
		ecr = math.Max(0, (p.MonthlyIncome-p.MonthlyExpenses)/p.MonthlyIncome)
		sdr = math.Min(1, p.SavingsAmount/(p.MonthlyIncome*3))
	}

	pcs := math.Min(1, float64(p.BillPaymentStreak)/12)

	// Both sub-signals must be present for a high digital activity score.
	upiComponent := math.Min(1, float64(p.UPITransactionCount)/30)
	monthsComponent := math.Min(1, float64(p.DigitalActivityMonths)/6)
	das := upiComponent * monthsComponent

	var chs float64
	if p.BusinessRevenue > 0 {
		chs = (p.BusinessRevenue - p.BusinessExpenses) / p.BusinessRevenue
		chs = clamp(chs, -1, 1)
	}

	return IndicatorSet{
		ISI: round4(isi),
		ECR: round4(ecr),
		PCS: round4(pcs),
		DAS: round4(das),
		SDR: round4(sdr),
		CHS: round4(chs),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

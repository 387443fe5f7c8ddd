package types

import "github.com/creditbridge/credit-risk-engine/internal/scoring"

// LoginRequest is the auth endpoint payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the logged-in account.
type LoginResponse struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Role     string   `json:"role"`
	Perms    []string `json:"permissions"`
}

// CreateAssessmentRequest is the payload for scoring a new applicant.
// Numeric fields mirror the financial profile the engine scores from.
type CreateAssessmentRequest struct {
	ApplicantName         string  `json:"applicant_name" binding:"required"`
	ApplicantEmail        string  `json:"applicant_email"`
	ApplicantPhone        string  `json:"applicant_phone"`
	MonthlyIncome         float64 `json:"monthly_income"`
	MonthlyExpenses       float64 `json:"monthly_expenses"`
	IncomeStdDev          float64 `json:"income_std_dev"`
	UPITransactionCount   int     `json:"upi_transaction_count"`
	BillPaymentStreak     int     `json:"bill_payment_streak"`
	DigitalActivityMonths int     `json:"digital_activity_months"`
	SavingsAmount         float64 `json:"savings_amount"`
	SelfEmployed          bool    `json:"self_employed"`
	BusinessRevenue       float64 `json:"business_revenue"`
	BusinessExpenses      float64 `json:"business_expenses"`
}

// Profile converts the request into the engine's input type.
func (r CreateAssessmentRequest) Profile() scoring.FinancialProfile {
	return scoring.FinancialProfile{
		MonthlyIncome:         r.MonthlyIncome,
		MonthlyExpenses:       r.MonthlyExpenses,
		IncomeStdDev:          r.IncomeStdDev,
		UPITransactionCount:   r.UPITransactionCount,
		BillPaymentStreak:     r.BillPaymentStreak,
		DigitalActivityMonths: r.DigitalActivityMonths,
		SavingsAmount:         r.SavingsAmount,
		BusinessRevenue:       r.BusinessRevenue,
		BusinessExpenses:      r.BusinessExpenses,
	}
}

// TrainRequest optionally overrides the synthetic sample count for a
// retraining run.
type TrainRequest struct {
	Samples int `json:"samples"`
}

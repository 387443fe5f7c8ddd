package scoring

// LoanOffer is the loan-eligibility guidance tier for a credit score.
type LoanOffer struct {
	Amount       string `json:"amount"`
	InterestRate string `json:"interest_rate"`
	Tenure       string `json:"tenure"`
}

// RecommendationBundle carries the qualitative read of an assessment.
// Purely presentational.
type RecommendationBundle struct {
	Positive     []string  `json:"positive"`
	Improvements []string  `json:"improvements"`
	Loan         LoanOffer `json:"loan"`
}

// Recommend maps indicators and score onto strengths, improvement areas,
// and a loan-offer tier. The qualitative indicator thresholds are distinct
// from the scoring thresholds; the loan tiers reuse the score thresholds.
func Recommend(ind IndicatorSet, score int) RecommendationBundle {
	var positive, improvements []string

	if ind.ISI >= 0.7 {
		positive = append(positive, "Excellent income stability")
	} else if ind.ISI < 0.5 {
		improvements = append(improvements, "Work on stabilizing income sources")
	}

	if ind.ECR >= 0.3 {
		positive = append(positive, "Good expense management")
	} else if ind.ECR < 0.15 {
		improvements = append(improvements, "Reduce monthly expenses to improve savings")
	}

	if ind.PCS >= 0.7 {
		positive = append(positive, "Consistent bill payment history")
	} else if ind.PCS < 0.5 {
		improvements = append(improvements, "Maintain regular bill payments for at least 6 months")
	}

	if ind.DAS >= 0.5 {
		positive = append(positive, "Active digital banking user")
	} else if ind.DAS < 0.3 {
		improvements = append(improvements, "Increase digital transaction frequency")
	}

	if ind.SDR >= 0.5 {
		positive = append(positive, "Strong savings discipline")
	} else if ind.SDR < 0.25 {
		improvements = append(improvements, "Build emergency savings fund (3-6 months expenses)")
	}

	if ind.CHS > 0.3 {
		positive = append(positive, "Healthy business cashflow")
	} else if ind.CHS < 0 {
		improvements = append(improvements, "Improve business profitability")
	}

	if len(positive) == 0 {
		positive = []string{"Continue building your financial profile"}
	}
	if len(improvements) == 0 {
		improvements = []string{"Maintain current good practices"}
	}

	return RecommendationBundle{
		Positive:     positive,
		Improvements: improvements,
		Loan:         loanOfferForScore(score),
	}
}

func loanOfferForScore(score int) LoanOffer {
	switch {
	case score >= lowRiskThreshold:
		return LoanOffer{
			Amount:       "Up to ₹5,00,000",
			InterestRate: "10-12% per annum",
			Tenure:       "12-36 months",
		}
	case score >= mediumRiskThreshold:
		return LoanOffer{
			Amount:       "Up to ₹2,00,000",
			InterestRate: "14-16% per annum",
			Tenure:       "6-24 months",
		}
	default:
		return LoanOffer{
			Amount:       "Up to ₹50,000",
			InterestRate: "18-22% per annum",
			Tenure:       "6-12 months",
		}
	}
}

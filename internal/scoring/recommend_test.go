package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendStrengthsAndImprovements(t *testing.T) {
	tests := []struct {
		name                 string
		indicators           IndicatorSet
		score                int
		expectedPositive     []string
		expectedImprovements []string
	}{
		{
			name:       "strong profile collects all strengths",
			indicators: IndicatorSet{ISI: 0.9, ECR: 0.5, PCS: 0.9, DAS: 0.8, SDR: 0.7, CHS: 0.5},
			score:      800,
			expectedPositive: []string{
				"Excellent income stability",
				"Good expense management",
				"Consistent bill payment history",
				"Active digital banking user",
				"Strong savings discipline",
				"Healthy business cashflow",
			},
			expectedImprovements: []string{"Maintain current good practices"},
		},
		{
			name:             "weak profile collects all improvements",
			indicators:       IndicatorSet{ISI: 0.2, ECR: 0.1, PCS: 0.2, DAS: 0.1, SDR: 0.1, CHS: -0.5},
			score:            400,
			expectedPositive: []string{"Continue building your financial profile"},
			expectedImprovements: []string{
				"Work on stabilizing income sources",
				"Reduce monthly expenses to improve savings",
				"Maintain regular bill payments for at least 6 months",
				"Increase digital transaction frequency",
				"Build emergency savings fund (3-6 months expenses)",
				"Improve business profitability",
			},
		},
		{
			name:                 "middling profile crosses no threshold",
			indicators:           IndicatorSet{ISI: 0.6, ECR: 0.2, PCS: 0.6, DAS: 0.4, SDR: 0.3, CHS: 0.1},
			score:                650,
			expectedPositive:     []string{"Continue building your financial profile"},
			expectedImprovements: []string{"Maintain current good practices"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := Recommend(tt.indicators, tt.score)
			assert.Equal(t, tt.expectedPositive, bundle.Positive)
			assert.Equal(t, tt.expectedImprovements, bundle.Improvements)
		})
	}
}

func TestRecommendLoanTiers(t *testing.T) {
	tests := []struct {
		score          int
		expectedAmount string
	}{
		{800, "Up to ₹5,00,000"},
		{750, "Up to ₹5,00,000"},
		{749, "Up to ₹2,00,000"},
		{600, "Up to ₹2,00,000"},
		{599, "Up to ₹50,000"},
		{300, "Up to ₹50,000"},
	}

	for _, tt := range tests {
		bundle := Recommend(IndicatorSet{}, tt.score)
		assert.Equal(t, tt.expectedAmount, bundle.Loan.Amount, "score %d", tt.score)
		assert.NotEmpty(t, bundle.Loan.InterestRate)
		assert.NotEmpty(t, bundle.Loan.Tenure)
	}
}

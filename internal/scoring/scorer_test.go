package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditScore(t *testing.T) {
	tests := []struct {
		name       string
		indicators IndicatorSet
		expected   int
	}{
		{
			name:       "all zero indicators floor the score",
			indicators: IndicatorSet{},
			expected:   300,
		},
		{
			name:       "perfect indicators hit the ceiling",
			indicators: IndicatorSet{ISI: 1, ECR: 1, PCS: 1, DAS: 1, SDR: 1, CHS: 1},
			expected:   900,
		},
		{
			name: "reference profile scores 714",
			indicators: IndicatorSet{
				ISI: 0.8889, ECR: 0.3333, PCS: 0.8333,
				DAS: 0.8333, SDR: 0.7407, CHS: 0,
			},
			expected: 714,
		},
		{
			name:       "strongly negative cashflow cannot drop below the floor",
			indicators: IndicatorSet{CHS: -1},
			expected:   300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CreditScore(tt.indicators))
		})
	}
}

func TestCreditScoreMonotonicity(t *testing.T) {
	base := IndicatorSet{ISI: 0.4, ECR: 0.3, PCS: 0.5, DAS: 0.2, SDR: 0.3, CHS: 0.1}
	baseline := CreditScore(base)

	bumps := map[string]IndicatorSet{
		"ISI": {ISI: 0.6, ECR: 0.3, PCS: 0.5, DAS: 0.2, SDR: 0.3, CHS: 0.1},
		"ECR": {ISI: 0.4, ECR: 0.5, PCS: 0.5, DAS: 0.2, SDR: 0.3, CHS: 0.1},
		"PCS": {ISI: 0.4, ECR: 0.3, PCS: 0.7, DAS: 0.2, SDR: 0.3, CHS: 0.1},
		"DAS": {ISI: 0.4, ECR: 0.3, PCS: 0.5, DAS: 0.4, SDR: 0.3, CHS: 0.1},
		"SDR": {ISI: 0.4, ECR: 0.3, PCS: 0.5, DAS: 0.2, SDR: 0.5, CHS: 0.1},
		"CHS": {ISI: 0.4, ECR: 0.3, PCS: 0.5, DAS: 0.2, SDR: 0.3, CHS: 0.5},
	}

	for name, bumped := range bumps {
		assert.GreaterOrEqual(t, CreditScore(bumped), baseline,
			"raising %s must not lower the score", name)
	}
}

func TestCategoryForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskCategory
	}{
		{900, RiskLow},
		{750, RiskLow},
		{749, RiskMedium},
		{600, RiskMedium},
		{599, RiskHigh},
		{300, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategoryForScore(tt.score), "score %d", tt.score)
	}
}

func TestCategoryLabelRoundTrip(t *testing.T) {
	for _, c := range []RiskCategory{RiskLow, RiskMedium, RiskHigh} {
		assert.Equal(t, c, CategoryForLabel(c.Label()))
	}
}

func TestAssess(t *testing.T) {
	profile := FinancialProfile{
		MonthlyIncome:         45000,
		MonthlyExpenses:       30000,
		IncomeStdDev:          5000,
		UPITransactionCount:   25,
		BillPaymentStreak:     10,
		DigitalActivityMonths: 12,
		SavingsAmount:         100000,
	}

	ind, score, category, err := Assess(profile)
	require.NoError(t, err)
	assert.Equal(t, 714, score)
	assert.Equal(t, RiskMedium, category)
	assert.Equal(t, 0.8889, ind.ISI)

	_, _, _, err = Assess(FinancialProfile{MonthlyIncome: -5})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

package scoring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIndicators(t *testing.T) {
	tests := []struct {
		name     string
		profile  FinancialProfile
		expected IndicatorSet
	}{
		{
			name: "reference salaried profile",
			profile: FinancialProfile{
				MonthlyIncome:         45000,
				MonthlyExpenses:       30000,
				IncomeStdDev:          5000,
				UPITransactionCount:   25,
				BillPaymentStreak:     10,
				DigitalActivityMonths: 12,
				SavingsAmount:         100000,
			},
			expected: IndicatorSet{
				ISI: 0.8889,
				ECR: 0.3333,
				PCS: 0.8333,
				DAS: 0.8333,
				SDR: 0.7407,
				CHS: 0,
			},
		},
		{
			name:    "zero profile yields zero indicators",
			profile: FinancialProfile{},
			expected: IndicatorSet{
				ISI: 0, ECR: 0, PCS: 0, DAS: 0, SDR: 0, CHS: 0,
			},
		},
		{
			name: "zero income zeroes income-derived indicators",
			profile: FinancialProfile{
				MonthlyExpenses:       20000,
				IncomeStdDev:          4000,
				SavingsAmount:         50000,
				UPITransactionCount:   30,
				BillPaymentStreak:     12,
				DigitalActivityMonths: 6,
			},
			expected: IndicatorSet{
				ISI: 0, ECR: 0, SDR: 0, PCS: 1, DAS: 1, CHS: 0,
			},
		},
		{
			name: "zero business revenue zeroes cashflow health",
			profile: FinancialProfile{
				MonthlyIncome:    50000,
				BusinessExpenses: 10000,
			},
			expected: IndicatorSet{
				ISI: 1, ECR: 1, PCS: 0, DAS: 0, SDR: 0, CHS: 0,
			},
		},
		{
			name: "loss-making business clamps to -1",
			profile: FinancialProfile{
				MonthlyIncome:    50000,
				BusinessRevenue:  10000,
				BusinessExpenses: 100000,
			},
			expected: IndicatorSet{
				ISI: 1, ECR: 1, PCS: 0, DAS: 0, SDR: 0, CHS: -1,
			},
		},
		{
			name: "digital activity needs both sub-signals",
			profile: FinancialProfile{
				MonthlyIncome:       40000,
				UPITransactionCount: 60,
				// No digital activity months at all.
			},
			expected: IndicatorSet{
				ISI: 1, ECR: 1, PCS: 0, DAS: 0, SDR: 0, CHS: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeIndicators(tt.profile))
		})
	}
}

func TestComputeIndicatorsBounds(t *testing.T) {
	// Indicators must stay within their declared ranges for any
	// non-negative input.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		p := FinancialProfile{
			MonthlyIncome:         rng.Float64() * 200000,
			MonthlyExpenses:       rng.Float64() * 200000,
			IncomeStdDev:          rng.Float64() * 100000,
			UPITransactionCount:   rng.Intn(200),
			BillPaymentStreak:     rng.Intn(30),
			DigitalActivityMonths: rng.Intn(60),
			SavingsAmount:         rng.Float64() * 1000000,
			BusinessRevenue:       rng.Float64() * 300000,
			BusinessExpenses:      rng.Float64() * 300000,
		}
		ind := ComputeIndicators(p)

		for name, v := range map[string]float64{
			"ISI": ind.ISI, "ECR": ind.ECR, "PCS": ind.PCS,
			"DAS": ind.DAS, "SDR": ind.SDR,
		} {
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 1.0, name)
		}
		assert.GreaterOrEqual(t, ind.CHS, -1.0)
		assert.LessOrEqual(t, ind.CHS, 1.0)
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile FinancialProfile
		wantErr bool
	}{
		{
			name:    "valid zero profile",
			profile: FinancialProfile{},
			wantErr: false,
		},
		{
			name:    "valid populated profile",
			profile: FinancialProfile{MonthlyIncome: 45000, MonthlyExpenses: 30000},
			wantErr: false,
		},
		{
			name:    "negative income",
			profile: FinancialProfile{MonthlyIncome: -1},
			wantErr: true,
		},
		{
			name:    "negative streak",
			profile: FinancialProfile{BillPaymentStreak: -3},
			wantErr: true,
		},
		{
			name:    "NaN savings",
			profile: FinancialProfile{SavingsAmount: math.NaN()},
			wantErr: true,
		},
		{
			name:    "infinite expenses",
			profile: FinancialProfile{MonthlyExpenses: math.Inf(1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidProfile)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

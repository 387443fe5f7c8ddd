package scoring

import (
	"math"
	"math/rand"
)

// DefaultSampleCount is the synthetic dataset size used when the caller
// does not ask for a specific one.
const DefaultSampleCount = 5000

// Generator produces labeled synthetic financial profiles. The random
// source is injected so callers control reproducibility.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator backed by the given source.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Samples generates n independent labeled samples. Each profile is run
// through the feature calculator and rule-based scorer, so the label always
// agrees with the rule engine's category for that row.
func (g *Generator) Samples(n int) []SyntheticSample {
	if n <= 0 {
		n = DefaultSampleCount
	}
	samples := make([]SyntheticSample, 0, n)
	for i := 0; i < n; i++ {
		profile := g.profile()
		ind := ComputeIndicators(profile)
		score := CreditScore(ind)
		category := CategoryForScore(score)
		samples = append(samples, SyntheticSample{
			Profile:     profile,
			Indicators:  ind,
			CreditScore: score,
			Category:    category,
			Label:       category.Label(),
		})
	}
	return samples
}

// profile draws one plausible financial profile. Distribution parameters
// mirror the population the engine is meant to score: informal-sector
// applicants with uneven income, mostly-digital payments, and a 30%
// self-employed subpopulation.
func (g *Generator) profile() FinancialProfile {
	income := g.uniform(10000, 100000)

	// Lower incomes swing harder relative to their size.
	var stdDev float64
	if income < 30000 {
		stdDev = g.uniform(income*0.15, income*0.35)
	} else {
		stdDev = g.uniform(income*0.05, income*0.20)
	}

	expenses := g.uniform(income*0.50, income*0.85)

	// Right-skewed transaction counts match observed UPI usage.
	upiCount := int(g.gamma(5, 3))

	streak := int(g.triangular(0, 8, 12))
	digitalMonths := int(g.triangular(0, 6, 24))

	// 30% of the population reports no savings at all.
	savings := g.uniform(0, income*6)
	if g.rng.Float64() <= 0.3 {
		savings = 0
	}

	// Self-employed subpopulation carries business cashflow signals.
	var bizRevenue, bizExpenses float64
	if g.rng.Float64() > 0.7 {
		bizRevenue = g.uniform(income*0.5, income*2)
		bizExpenses = g.uniform(bizRevenue*0.5, bizRevenue*0.9)
	}

	return FinancialProfile{
		MonthlyIncome:         income,
		MonthlyExpenses:       expenses,
		IncomeStdDev:          stdDev,
		UPITransactionCount:   upiCount,
		BillPaymentStreak:     streak,
		DigitalActivityMonths: digitalMonths,
		SavingsAmount:         savings,
		BusinessRevenue:       bizRevenue,
		BusinessExpenses:      bizExpenses,
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// gamma draws from Gamma(shape, scale) for integer shape as a sum of
// exponentials.
func (g *Generator) gamma(shape int, scale float64) float64 {
	sum := 0.0
	for i := 0; i < shape; i++ {
		sum += g.rng.ExpFloat64()
	}
	return sum * scale
}

// triangular draws from the triangular distribution on [lo, hi] with the
// given mode via inverse CDF sampling.
func (g *Generator) triangular(lo, mode, hi float64) float64 {
	u := g.rng.Float64()
	cut := (mode - lo) / (hi - lo)
	if u < cut {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

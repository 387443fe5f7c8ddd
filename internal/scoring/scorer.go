package scoring

// Indicator weights for the rule-based score. They sum to 1.0 so the
// weighted sum stays within the indicator bounds.
var indicatorWeights = IndicatorSet{
	ISI: 0.25,
	ECR: 0.20,
	PCS: 0.20,
	DAS: 0.15,
	SDR: 0.15,
	CHS: 0.05,
}

const (
	scoreFloor = 300
	scoreCeil  = 900

	lowRiskThreshold    = 750
	mediumRiskThreshold = 600
)

// CreditScore maps an indicator set onto the fixed 300-900 scale.
// A strongly negative CHS could in principle pull the weighted sum below
// zero, so the result is clamped to the scale.
func CreditScore(ind IndicatorSet) int {
	weighted := ind.ISI*indicatorWeights.ISI +
		ind.ECR*indicatorWeights.ECR +
		ind.PCS*indicatorWeights.PCS +
		ind.DAS*indicatorWeights.DAS +
		ind.SDR*indicatorWeights.SDR +
		ind.CHS*indicatorWeights.CHS

	score := int(scoreFloor + weighted*600)
	if score < scoreFloor {
		score = scoreFloor
	}
	if score > scoreCeil {
		score = scoreCeil
	}
	return score
}

// CategoryForScore maps a credit score onto its risk tier using the fixed
// thresholds. This mapping is also the label source for synthetic training
// data, so it must stay in lockstep with the trained classifier's classes.
func CategoryForScore(score int) RiskCategory {
	switch {
	case score >= lowRiskThreshold:
		return RiskLow
	case score >= mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Assess runs the deterministic rule-based pipeline: indicators, score,
// category. It never touches the trained classifier and is safe to call
// concurrently.
func Assess(p FinancialProfile) (IndicatorSet, int, RiskCategory, error) {
	if err := ValidateProfile(p); err != nil {
		return IndicatorSet{}, 0, "", err
	}
	ind := ComputeIndicators(p)
	score := CreditScore(ind)
	return ind, score, CategoryForScore(score), nil
}

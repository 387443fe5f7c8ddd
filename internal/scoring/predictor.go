package scoring

// Predictor produces a full risk assessment for one profile. The rule-based
// score and category are authoritative; the classifier only contributes the
// calibrated class probabilities.
type Predictor struct {
	model *ModelContext
}

// NewPredictor creates a predictor bound to the given model context.
func NewPredictor(model *ModelContext) *Predictor {
	return &Predictor{model: model}
}

// Predict scores a profile. On first use it transparently trains the
// classifier if no persisted artifacts exist. Safe for concurrent callers.
func (p *Predictor) Predict(profile FinancialProfile) (RiskAssessment, error) {
	ind, score, category, err := Assess(profile)
	if err != nil {
		return RiskAssessment{}, err
	}

	probs, err := p.model.Probabilities(ind)
	if err != nil {
		return RiskAssessment{}, err
	}

	// Repayment probability is a proxy: "not high risk", deliberately
	// ignoring how the remaining mass splits between low and medium.
	repayment := round4(1 - probs.HighRisk)

	return RiskAssessment{
		CreditScore:          score,
		RiskCategory:         category,
		RepaymentProbability: repayment,
		Probabilities:        probs,
		Indicators:           ind,
	}, nil
}

package scoring

// NumIndicators is the width of the indicator vector fed to the classifier.
const NumIndicators = 6

// RiskCategory is one of the three risk tiers derived from the credit score.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low Risk"
	RiskMedium RiskCategory = "Medium Risk"
	RiskHigh   RiskCategory = "High Risk"
)

// Label returns the integer class label used for classifier training.
func (c RiskCategory) Label() int {
	switch c {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

// CategoryForLabel maps a class label back to its risk tier.
func CategoryForLabel(label int) RiskCategory {
	switch label {
	case 0:
		return RiskLow
	case 1:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// FinancialProfile holds the self-reported signals for one applicant.
// The engine never mutates it.
type FinancialProfile struct {
	MonthlyIncome         float64 `json:"monthly_income"`
	MonthlyExpenses       float64 `json:"monthly_expenses"`
	IncomeStdDev          float64 `json:"income_std_dev"`
	UPITransactionCount   int     `json:"upi_transaction_count"`
	BillPaymentStreak     int     `json:"bill_payment_streak"`
	DigitalActivityMonths int     `json:"digital_activity_months"`
	SavingsAmount         float64 `json:"savings_amount"`
	BusinessRevenue       float64 `json:"business_revenue"`
	BusinessExpenses      float64 `json:"business_expenses"`
}

// IndicatorSet holds the six bounded behavioral indicators, each rounded to
// four decimal places. ISI/ECR/PCS/DAS/SDR live in [0,1], CHS in [-1,1].
type IndicatorSet struct {
	ISI float64 `json:"isi"`
	ECR float64 `json:"ecr"`
	PCS float64 `json:"pcs"`
	DAS float64 `json:"das"`
	SDR float64 `json:"sdr"`
	CHS float64 `json:"chs"`
}

// Vector returns the indicators in the fixed order the classifier was
// trained with.
func (s IndicatorSet) Vector() []float64 {
	return []float64{s.ISI, s.ECR, s.PCS, s.DAS, s.SDR, s.CHS}
}

// ClassProbabilities holds the calibrated probability per risk tier.
// The three values sum to 1.
type ClassProbabilities struct {
	LowRisk    float64 `json:"low_risk"`
	MediumRisk float64 `json:"medium_risk"`
	HighRisk   float64 `json:"high_risk"`
}

// RiskAssessment is the full scoring output for one profile.
type RiskAssessment struct {
	CreditScore          int                `json:"credit_score"`
	RiskCategory         RiskCategory       `json:"risk_category"`
	RepaymentProbability float64            `json:"repayment_probability"`
	Probabilities        ClassProbabilities `json:"probabilities"`
	Indicators           IndicatorSet       `json:"indicators"`
}

// SyntheticSample is one labeled row of the generated training set.
// The label always agrees with the rule-based category of the same row.
type SyntheticSample struct {
	Profile     FinancialProfile
	Indicators  IndicatorSet
	CreditScore int
	Category    RiskCategory
	Label       int
}

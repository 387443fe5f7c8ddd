package database

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Permission strings checked by the permission middleware. An employee
// holding PermissionAll passes every check.
const (
	PermissionCreate    = "create"
	PermissionViewAll   = "view_all"
	PermissionAnalytics = "analytics"
	PermissionAll       = "ALL"
)

// Employee represents a staff account that can log in and run
// assessments. Permissions are stored as a JSON array in sqlite.
type Employee struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPermission reports whether the employee holds the required
// permission, directly or through the ALL grant.
func (e *Employee) HasPermission(required string) bool {
	for _, p := range e.Permissions {
		if p == PermissionAll || p == required {
			return true
		}
	}
	return false
}

// CheckPassword compares a candidate password against the stored hash.
func (e *Employee) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}

// NewEmployee creates an employee with a freshly hashed password.
func NewEmployee(username, password, fullName, role string, permissions []string) (*Employee, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Employee{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		Permissions:  permissions,
		CreatedAt:    time.Now(),
	}, nil
}

// Applicant is the person a credit assessment is made for.
type Applicant struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewApplicant creates an applicant with a generated ID.
func NewApplicant(fullName, email, phone string) *Applicant {
	return &Applicant{
		ID:        uuid.New().String(),
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
}

// FinancialProfileRecord is the persisted snapshot of the inputs an
// assessment was scored from.
type FinancialProfileRecord struct {
	ID               string    `json:"id"`
	ApplicantID      string    `json:"applicant_id"`
	MonthlyIncome    float64   `json:"monthly_income"`
	IncomeStdDev     float64   `json:"income_std_dev"`
	MonthlyExpenses  float64   `json:"monthly_expenses"`
	UPITransactions  int       `json:"upi_transactions"`
	PaymentStreak    int       `json:"payment_streak"`
	AccountAgeMonths int       `json:"account_age_months"`
	SavingsBalance   float64   `json:"savings_balance"`
	SelfEmployed     bool      `json:"self_employed"`
	BusinessRevenue  float64   `json:"business_revenue"`
	BusinessExpenses float64   `json:"business_expenses"`
	CreatedAt        time.Time `json:"created_at"`
}

// Assessment is a persisted scoring result. Indicator values, class
// probabilities and recommendations are stored as JSON columns so the
// get endpoint can replay the full report without recomputing.
type Assessment struct {
	ID                   string    `json:"id"`
	ApplicantID          string    `json:"applicant_id"`
	ProfileID            string    `json:"profile_id"`
	CreditScore          int       `json:"credit_score"`
	RiskCategory         string    `json:"risk_category"`
	RepaymentProbability float64   `json:"repayment_probability"`
	IndicatorsJSON       string    `json:"-"`
	ProbabilitiesJSON    string    `json:"-"`
	RecommendationsJSON  string    `json:"-"`
	CreatedBy            string    `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
}

// AssessmentSummary holds the aggregate analytics view.
type AssessmentSummary struct {
	TotalAssessments int            `json:"total_assessments"`
	AverageScore     float64        `json:"average_score"`
	RiskDistribution map[string]int `json:"risk_distribution"`
}

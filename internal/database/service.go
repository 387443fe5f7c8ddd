package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/creditbridge/credit-risk-engine/internal/scoring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned when a login attempt fails. A
// missing account and a wrong password are deliberately not
// distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the JWT payload for an employee session.
type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the session holds the required
// permission, directly or through the ALL grant.
func (c *Claims) HasPermission(required string) bool {
	for _, p := range c.Permissions {
		if p == PermissionAll || p == required {
			return true
		}
	}
	return false
}

// AuthService provides employee authentication and session tokens.
type AuthService struct {
	repo      *Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(repo *Repository, jwtSecret string) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// demo accounts created on first boot of an empty database
var seedEmployees = []struct {
	username    string
	password    string
	fullName    string
	role        string
	permissions []string
}{
	{"admin", "admin123", "System Administrator", "admin", []string{PermissionAll}},
	{"officer", "officer123", "Credit Officer", "credit_officer", []string{PermissionCreate}},
	{"analyst", "analyst123", "Risk Analyst", "risk_analyst", []string{PermissionViewAll, PermissionAnalytics}},
	{"viewer", "viewer123", "Branch Viewer", "viewer", []string{PermissionViewAll}},
}

// SeedEmployees creates the demo accounts if the employees table is
// empty. Idempotent across restarts.
func (s *AuthService) SeedEmployees() error {
	count, err := s.repo.CountEmployees()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, seed := range seedEmployees {
		employee, err := NewEmployee(seed.username, seed.password, seed.fullName, seed.role, seed.permissions)
		if err != nil {
			return fmt.Errorf("failed to create seed employee %s: %w", seed.username, err)
		}
		if err := s.repo.CreateEmployee(employee); err != nil {
			return err
		}
	}

	slog.Info("Seeded demo employee accounts", "count", len(seedEmployees))
	return nil
}

// Login verifies credentials and returns a signed session token.
func (s *AuthService) Login(username, password string) (string, *Employee, error) {
	employee, err := s.repo.GetEmployeeByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !employee.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Username:    employee.Username,
		Role:        employee.Role,
		Permissions: employee.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employee.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, employee, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

// AssessmentInput is everything needed to create one assessment.
type AssessmentInput struct {
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	SelfEmployed   bool
	Profile        scoring.FinancialProfile
}

// AssessmentReport is the full payload returned by create and get.
type AssessmentReport struct {
	Assessment      *Assessment                  `json:"assessment"`
	Applicant       *Applicant                   `json:"applicant"`
	Indicators      scoring.IndicatorSet         `json:"indicators"`
	Probabilities   scoring.ClassProbabilities   `json:"probabilities"`
	Recommendations scoring.RecommendationBundle `json:"recommendations"`
}

// AssessmentService runs the predictor and persists the results.
type AssessmentService struct {
	repo      *Repository
	predictor *scoring.Predictor
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(repo *Repository, predictor *scoring.Predictor) *AssessmentService {
	return &AssessmentService{repo: repo, predictor: predictor}
}

// Create scores the profile, then persists applicant, profile snapshot
// and assessment. The assessment id is the handle for later reads.
func (s *AssessmentService) Create(input AssessmentInput, createdBy string) (*AssessmentReport, error) {
	result, err := s.predictor.Predict(input.Profile)
	if err != nil {
		return nil, err
	}

	recommendations := scoring.Recommend(result.Indicators, result.CreditScore)

	applicant := NewApplicant(input.ApplicantName, input.ApplicantEmail, input.ApplicantPhone)
	if err := s.repo.CreateApplicant(applicant); err != nil {
		return nil, err
	}

	now := time.Now()
	profile := &FinancialProfileRecord{
		ID:               uuid.New().String(),
		ApplicantID:      applicant.ID,
		MonthlyIncome:    input.Profile.MonthlyIncome,
		IncomeStdDev:     input.Profile.IncomeStdDev,
		MonthlyExpenses:  input.Profile.MonthlyExpenses,
		UPITransactions:  input.Profile.UPITransactionCount,
		PaymentStreak:    input.Profile.BillPaymentStreak,
		AccountAgeMonths: input.Profile.DigitalActivityMonths,
		SavingsBalance:   input.Profile.SavingsAmount,
		SelfEmployed:     input.SelfEmployed,
		BusinessRevenue:  input.Profile.BusinessRevenue,
		BusinessExpenses: input.Profile.BusinessExpenses,
		CreatedAt:        now,
	}
	if err := s.repo.CreateProfile(profile); err != nil {
		return nil, err
	}

	indicators, err := json.Marshal(result.Indicators)
	if err != nil {
		return nil, err
	}
	probabilities, err := json.Marshal(result.Probabilities)
	if err != nil {
		return nil, err
	}
	recommendationsJSON, err := json.Marshal(recommendations)
	if err != nil {
		return nil, err
	}

	assessment := &Assessment{
		ID:                   uuid.New().String(),
		ApplicantID:          applicant.ID,
		ProfileID:            profile.ID,
		CreditScore:          result.CreditScore,
		RiskCategory:         string(result.RiskCategory),
		RepaymentProbability: result.RepaymentProbability,
		IndicatorsJSON:       string(indicators),
		ProbabilitiesJSON:    string(probabilities),
		RecommendationsJSON:  string(recommendationsJSON),
		CreatedBy:            createdBy,
		CreatedAt:            now,
	}
	if err := s.repo.CreateAssessment(assessment); err != nil {
		return nil, err
	}

	return &AssessmentReport{
		Assessment:      assessment,
		Applicant:       applicant,
		Indicators:      result.Indicators,
		Probabilities:   result.Probabilities,
		Recommendations: recommendations,
	}, nil
}

// Get returns one assessment with its applicant and decoded report
// columns. Returns sql.ErrNoRows when the id does not exist.
func (s *AssessmentService) Get(id string) (*AssessmentReport, error) {
	assessment, err := s.repo.GetAssessment(id)
	if err != nil {
		return nil, err
	}

	applicant, err := s.repo.GetApplicant(assessment.ApplicantID)
	if err != nil {
		return nil, err
	}

	report := &AssessmentReport{
		Assessment: assessment,
		Applicant:  applicant,
	}
	if err := json.Unmarshal([]byte(assessment.IndicatorsJSON), &report.Indicators); err != nil {
		return nil, fmt.Errorf("failed to decode indicators: %w", err)
	}
	if err := json.Unmarshal([]byte(assessment.ProbabilitiesJSON), &report.Probabilities); err != nil {
		return nil, fmt.Errorf("failed to decode probabilities: %w", err)
	}
	if err := json.Unmarshal([]byte(assessment.RecommendationsJSON), &report.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return report, nil
}

// List returns assessments newest-first.
func (s *AssessmentService) List(limit int) ([]*Assessment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListAssessments(limit)
}

// Delete removes an assessment by id.
func (s *AssessmentService) Delete(id string) error {
	return s.repo.DeleteAssessment(id)
}

// Summary returns the aggregate analytics view.
func (s *AssessmentService) Summary() (*AssessmentSummary, error) {
	return s.repo.GetAssessmentSummary()
}

// Recent returns assessments from the last n days for the dashboard.
func (s *AssessmentService) Recent(days, limit int) ([]*Assessment, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetRecentAssessments(days, limit)
}

package database

import (
	"database/sql"
	"testing"

	"github.com/creditbridge/credit-risk-engine/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func newTestAssessmentService(t *testing.T) *AssessmentService {
	t.Helper()
	repo := newTestRepo(t)
	store := scoring.NewArtifactStore(t.TempDir())
	model := scoring.NewModelContext(store, 800, 42)
	return NewAssessmentService(repo, scoring.NewPredictor(model))
}

// Reference profile from the scoring package: score 714, Medium Risk.
var testProfile = scoring.FinancialProfile{
	MonthlyIncome:         45000,
	MonthlyExpenses:       30000,
	IncomeStdDev:          5000,
	UPITransactionCount:   25,
	BillPaymentStreak:     10,
	DigitalActivityMonths: 12,
	SavingsAmount:         100000,
}

func TestSeedEmployeesIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "secret")

	require.NoError(t, auth.SeedEmployees())
	require.NoError(t, auth.SeedEmployees())

	count, err := repo.CountEmployees()
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestLoginAndValidate(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "secret")
	require.NoError(t, auth.SeedEmployees())

	token, employee, err := auth.Login("analyst", "analyst123")
	require.NoError(t, err)
	assert.Equal(t, "risk_analyst", employee.Role)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "analyst", claims.Username)
	assert.Equal(t, employee.ID, claims.Subject)
	assert.True(t, claims.HasPermission(PermissionAnalytics))
	assert.False(t, claims.HasPermission(PermissionCreate))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "secret")
	require.NoError(t, auth.SeedEmployees())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "ghost", "admin123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Login(tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "secret")
	require.NoError(t, auth.SeedEmployees())

	token, _, err := auth.Login("viewer", "viewer123")
	require.NoError(t, err)

	other := NewAuthService(repo, "different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAdminHasAllPermissions(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo, "secret")
	require.NoError(t, auth.SeedEmployees())

	admin, err := repo.GetEmployeeByUsername("admin")
	require.NoError(t, err)

	for _, p := range []string{PermissionCreate, PermissionViewAll, PermissionAnalytics} {
		assert.True(t, admin.HasPermission(p), p)
	}
}

func TestAssessmentLifecycle(t *testing.T) {
	svc := newTestAssessmentService(t)

	report, err := svc.Create(AssessmentInput{
		ApplicantName:  "Priya Sharma",
		ApplicantEmail: "priya@example.com",
		Profile:        testProfile,
	}, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, 714, report.Assessment.CreditScore)
	assert.Equal(t, "Medium Risk", report.Assessment.RiskCategory)
	assert.Equal(t, "Priya Sharma", report.Applicant.FullName)
	assert.NotEmpty(t, report.Recommendations.Positive)

	got, err := svc.Get(report.Assessment.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Assessment.CreditScore, got.Assessment.CreditScore)
	assert.Equal(t, report.Indicators, got.Indicators)
	assert.Equal(t, report.Probabilities, got.Probabilities)

	list, err := svc.List(0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(report.Assessment.ID))
	_, err = svc.Get(report.Assessment.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteMissingAssessment(t *testing.T) {
	svc := newTestAssessmentService(t)
	assert.ErrorIs(t, svc.Delete("no-such-id"), sql.ErrNoRows)
}

func TestAssessmentSummary(t *testing.T) {
	svc := newTestAssessmentService(t)

	// Empty database: zero counts, no average.
	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalAssessments)
	assert.Empty(t, summary.RiskDistribution)

	_, err = svc.Create(AssessmentInput{ApplicantName: "A", Profile: testProfile}, "emp-1")
	require.NoError(t, err)
	_, err = svc.Create(AssessmentInput{ApplicantName: "B", Profile: testProfile}, "emp-1")
	require.NoError(t, err)

	summary, err = svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalAssessments)
	assert.InDelta(t, 714, summary.AverageScore, 0.001)
	assert.Equal(t, 2, summary.RiskDistribution["Medium Risk"])
}

func TestRecentAssessments(t *testing.T) {
	svc := newTestAssessmentService(t)

	_, err := svc.Create(AssessmentInput{ApplicantName: "A", Profile: testProfile}, "emp-1")
	require.NoError(t, err)

	recent, err := svc.Recent(7, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

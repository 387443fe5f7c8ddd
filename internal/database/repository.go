package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateEmployee inserts an employee row.
func (r *Repository) CreateEmployee(e *Employee) error {
	stmt, err := r.db.GetPreparedStatement("insert_employee")
	if err != nil {
		return err
	}

	perms, err := json.Marshal(e.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}

	_, err = stmt.Exec(e.ID, e.Username, e.PasswordHash, e.FullName, e.Role, string(perms), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// GetEmployeeByUsername looks up an employee by login name. Returns
// sql.ErrNoRows when no such account exists.
func (r *Repository) GetEmployeeByUsername(username string) (*Employee, error) {
	stmt, err := r.db.GetPreparedStatement("get_employee_by_username")
	if err != nil {
		return nil, err
	}
	return scanEmployee(stmt.QueryRow(username))
}

// GetEmployeeByID looks up an employee by primary key.
func (r *Repository) GetEmployeeByID(id string) (*Employee, error) {
	stmt, err := r.db.GetPreparedStatement("get_employee_by_id")
	if err != nil {
		return nil, err
	}
	return scanEmployee(stmt.QueryRow(id))
}

func scanEmployee(row *sql.Row) (*Employee, error) {
	var e Employee
	var perms string
	if err := row.Scan(&e.ID, &e.Username, &e.PasswordHash, &e.FullName, &e.Role, &perms, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(perms), &e.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	return &e, nil
}

// CountEmployees returns the number of employee accounts.
func (r *Repository) CountEmployees() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// CreateApplicant inserts an applicant row.
func (r *Repository) CreateApplicant(a *Applicant) error {
	stmt, err := r.db.GetPreparedStatement("insert_applicant")
	if err != nil {
		return err
	}
	_, err = stmt.Exec(a.ID, a.FullName, a.Email, a.Phone, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert applicant: %w", err)
	}
	return nil
}

// GetApplicant looks up an applicant by primary key.
func (r *Repository) GetApplicant(id string) (*Applicant, error) {
	var a Applicant
	err := r.db.QueryRow(
		`SELECT id, full_name, email, phone, created_at FROM applicants WHERE id = ?`, id,
	).Scan(&a.ID, &a.FullName, &a.Email, &a.Phone, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateProfile inserts a financial profile snapshot.
func (r *Repository) CreateProfile(p *FinancialProfileRecord) error {
	stmt, err := r.db.GetPreparedStatement("insert_profile")
	if err != nil {
		return err
	}
	_, err = stmt.Exec(
		p.ID, p.ApplicantID, p.MonthlyIncome, p.IncomeStdDev, p.MonthlyExpenses,
		p.UPITransactions, p.PaymentStreak, p.AccountAgeMonths, p.SavingsBalance,
		p.SelfEmployed, p.BusinessRevenue, p.BusinessExpenses, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert financial profile: %w", err)
	}
	return nil
}

// GetProfile looks up a financial profile by primary key.
func (r *Repository) GetProfile(id string) (*FinancialProfileRecord, error) {
	var p FinancialProfileRecord
	err := r.db.QueryRow(
		`SELECT id, applicant_id, monthly_income, income_std_dev, monthly_expenses,
			upi_transactions, payment_streak, account_age_months, savings_balance,
			self_employed, business_revenue, business_expenses, created_at
		FROM financial_profiles WHERE id = ?`, id,
	).Scan(
		&p.ID, &p.ApplicantID, &p.MonthlyIncome, &p.IncomeStdDev, &p.MonthlyExpenses,
		&p.UPITransactions, &p.PaymentStreak, &p.AccountAgeMonths, &p.SavingsBalance,
		&p.SelfEmployed, &p.BusinessRevenue, &p.BusinessExpenses, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateAssessment inserts an assessment row.
func (r *Repository) CreateAssessment(a *Assessment) error {
	stmt, err := r.db.GetPreparedStatement("insert_assessment")
	if err != nil {
		return err
	}
	_, err = stmt.Exec(
		a.ID, a.ApplicantID, a.ProfileID, a.CreditScore, a.RiskCategory,
		a.RepaymentProbability, a.IndicatorsJSON, a.ProbabilitiesJSON,
		a.RecommendationsJSON, a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// GetAssessment looks up an assessment by primary key. Returns
// sql.ErrNoRows when absent.
func (r *Repository) GetAssessment(id string) (*Assessment, error) {
	stmt, err := r.db.GetPreparedStatement("get_assessment")
	if err != nil {
		return nil, err
	}

	var a Assessment
	err = stmt.QueryRow(id).Scan(
		&a.ID, &a.ApplicantID, &a.ProfileID, &a.CreditScore, &a.RiskCategory,
		&a.RepaymentProbability, &a.IndicatorsJSON, &a.ProbabilitiesJSON,
		&a.RecommendationsJSON, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssessments returns assessments newest-first, up to limit.
func (r *Repository) ListAssessments(limit int) ([]*Assessment, error) {
	rows, err := r.db.Query(
		`SELECT id, applicant_id, profile_id, credit_score, risk_category,
			repayment_probability, indicators, probabilities, recommendations,
			created_by, created_at
		FROM credit_assessments ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(
			&a.ID, &a.ApplicantID, &a.ProfileID, &a.CreditScore, &a.RiskCategory,
			&a.RepaymentProbability, &a.IndicatorsJSON, &a.ProbabilitiesJSON,
			&a.RecommendationsJSON, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteAssessment removes an assessment. Returns sql.ErrNoRows when
// the id does not exist.
func (r *Repository) DeleteAssessment(id string) error {
	stmt, err := r.db.GetPreparedStatement("delete_assessment")
	if err != nil {
		return err
	}
	res, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetAssessmentSummary computes the aggregate analytics view in SQL.
func (r *Repository) GetAssessmentSummary() (*AssessmentSummary, error) {
	summary := &AssessmentSummary{
		RiskDistribution: make(map[string]int),
	}

	var avg sql.NullFloat64
	err := r.db.QueryRow(
		`SELECT COUNT(*), AVG(credit_score) FROM credit_assessments`,
	).Scan(&summary.TotalAssessments, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate assessments: %w", err)
	}
	if avg.Valid {
		summary.AverageScore = avg.Float64
	}

	rows, err := r.db.Query(
		`SELECT risk_category, COUNT(*) FROM credit_assessments GROUP BY risk_category`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate risk distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		summary.RiskDistribution[category] = count
	}
	return summary, rows.Err()
}

// GetRecentAssessments returns assessments created in the last n days,
// newest first. Used by the dashboard endpoint.
func (r *Repository) GetRecentAssessments(days, limit int) ([]*Assessment, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	rows, err := r.db.Query(
		`SELECT id, applicant_id, profile_id, credit_score, risk_category,
			repayment_probability, indicators, probabilities, recommendations,
			created_by, created_at
		FROM credit_assessments WHERE created_at >= ?
		ORDER BY created_at DESC LIMIT ?`, cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent assessments: %w", err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(
			&a.ID, &a.ApplicantID, &a.ProfileID, &a.CreditScore, &a.RiskCategory,
			&a.RepaymentProbability, &a.IndicatorsJSON, &a.ProbabilitiesJSON,
			&a.RecommendationsJSON, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

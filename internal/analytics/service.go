package analytics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/creditbridge/credit-risk-engine/internal/database"
)

// RecentAssessment is the condensed dashboard row.
type RecentAssessment struct {
	ID                   string    `json:"id"`
	ApplicantID          string    `json:"applicant_id"`
	CreditScore          int       `json:"credit_score"`
	RiskCategory         string    `json:"risk_category"`
	RepaymentProbability float64   `json:"repayment_probability"`
	CreatedAt            time.Time `json:"created_at"`
}

// Dashboard is the combined analytics payload.
type Dashboard struct {
	Summary     *database.AssessmentSummary `json:"summary"`
	Recent      []RecentAssessment          `json:"recent"`
	WindowDays  int                         `json:"window_days"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

type cached[T any] struct {
	value     T
	expiresAt time.Time
}

// Service computes aggregate views over stored assessments with an
// in-memory TTL cache in front of the SQL aggregates.
type Service struct {
	repo *database.Repository
	ttl  time.Duration

	mu             sync.RWMutex
	summary        *cached[*database.AssessmentSummary]
	dashboard      *cached[*Dashboard]
	dashboardLimit int
}

// NewService creates an analytics service whose cached views live for
// ttl before being recomputed.
func NewService(repo *database.Repository, ttl time.Duration) *Service {
	return &Service{repo: repo, ttl: ttl}
}

// Summary returns total assessments, average score and the risk
// category distribution.
func (s *Service) Summary() (*database.AssessmentSummary, error) {
	s.mu.RLock()
	if c := s.summary; c != nil && time.Now().Before(c.expiresAt) {
		s.mu.RUnlock()
		return c.value, nil
	}
	s.mu.RUnlock()

	summary, err := s.repo.GetAssessmentSummary()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.summary = &cached[*database.AssessmentSummary]{value: summary, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return summary, nil
}

// Dashboard returns the summary plus assessments from the last
// windowDays days.
func (s *Service) Dashboard(windowDays, limit int) (*Dashboard, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	if limit <= 0 {
		limit = 20
	}

	// A cached view only matches when both parameters do; a different
	// limit must not serve a view with the wrong row count.
	s.mu.RLock()
	if c := s.dashboard; c != nil && time.Now().Before(c.expiresAt) &&
		c.value.WindowDays == windowDays && s.dashboardLimit == limit {
		s.mu.RUnlock()
		return c.value, nil
	}
	s.mu.RUnlock()

	summary, err := s.repo.GetAssessmentSummary()
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetRecentAssessments(windowDays, limit)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentAssessment, 0, len(rows))
	for _, row := range rows {
		recent = append(recent, RecentAssessment{
			ID:                   row.ID,
			ApplicantID:          row.ApplicantID,
			CreditScore:          row.CreditScore,
			RiskCategory:         row.RiskCategory,
			RepaymentProbability: row.RepaymentProbability,
			CreatedAt:            row.CreatedAt,
		})
	}

	dashboard := &Dashboard{
		Summary:     summary,
		Recent:      recent,
		WindowDays:  windowDays,
		GeneratedAt: time.Now(),
	}

	s.mu.Lock()
	s.dashboard = &cached[*Dashboard]{value: dashboard, expiresAt: time.Now().Add(s.ttl)}
	s.dashboardLimit = limit
	s.mu.Unlock()

	return dashboard, nil
}

// Invalidate drops the cached views. Called after assessment writes.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.summary = nil
	s.dashboard = nil
	s.mu.Unlock()
}

// StartAutoRefresh recomputes the summary in the background so the
// first dashboard hit after expiry stays fast. Returns a stop func.
func (s *Service) StartAutoRefresh(interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Invalidate()
				if _, err := s.Summary(); err != nil {
					slog.Warn("Analytics auto-refresh failed", "error", err)
				}
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}

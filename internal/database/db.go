package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB creates a new database connection with optimized pooling
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "creditbridge.db")

	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(db, 25, 5, 5*time.Minute)

	database := &DB{
		DB:       db,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"path", dbPath,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL,
			permissions TEXT NOT NULL, -- JSON array of permission strings
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS applicants (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS financial_profiles (
			id TEXT PRIMARY KEY,
			applicant_id TEXT NOT NULL,
			monthly_income REAL NOT NULL,
			income_std_dev REAL NOT NULL,
			monthly_expenses REAL NOT NULL,
			upi_transactions INTEGER NOT NULL,
			payment_streak INTEGER NOT NULL,
			account_age_months INTEGER NOT NULL,
			savings_balance REAL NOT NULL,
			self_employed BOOLEAN NOT NULL DEFAULT FALSE,
			business_revenue REAL NOT NULL DEFAULT 0,
			business_expenses REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (applicant_id) REFERENCES applicants(id)
		)`,

		`CREATE TABLE IF NOT EXISTS credit_assessments (
			id TEXT PRIMARY KEY,
			applicant_id TEXT NOT NULL,
			profile_id TEXT NOT NULL,
			credit_score INTEGER NOT NULL,
			risk_category TEXT NOT NULL,
			repayment_probability REAL NOT NULL,
			indicators TEXT NOT NULL,      -- JSON indicator set
			probabilities TEXT NOT NULL,   -- JSON class probabilities
			recommendations TEXT NOT NULL, -- JSON recommendation bundle
			created_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (applicant_id) REFERENCES applicants(id),
			FOREIGN KEY (profile_id) REFERENCES financial_profiles(id),
			FOREIGN KEY (created_by) REFERENCES employees(id)
		)`,

		// Indexes for performance
		`CREATE INDEX IF NOT EXISTS idx_employees_username ON employees(username)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_applicant ON financial_profiles(applicant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_applicant ON credit_assessments(applicant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_created ON credit_assessments(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_category ON credit_assessments(risk_category)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		"insert_employee": `INSERT INTO employees (id, username, password_hash, full_name, role, permissions, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,

		"get_employee_by_username": `SELECT id, username, password_hash, full_name, role, permissions, created_at
			FROM employees WHERE username = ?`,

		"get_employee_by_id": `SELECT id, username, password_hash, full_name, role, permissions, created_at
			FROM employees WHERE id = ?`,

		"insert_applicant": `INSERT INTO applicants (id, full_name, email, phone, created_at)
			VALUES (?, ?, ?, ?, ?)`,

		"insert_profile": `INSERT INTO financial_profiles (
			id, applicant_id, monthly_income, income_std_dev, monthly_expenses,
			upi_transactions, payment_streak, account_age_months, savings_balance,
			self_employed, business_revenue, business_expenses, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"insert_assessment": `INSERT INTO credit_assessments (
			id, applicant_id, profile_id, credit_score, risk_category,
			repayment_probability, indicators, probabilities, recommendations,
			created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_assessment": `SELECT id, applicant_id, profile_id, credit_score, risk_category,
			repayment_probability, indicators, probabilities, recommendations, created_by, created_at
			FROM credit_assessments WHERE id = ?`,

		"delete_assessment": `DELETE FROM credit_assessments WHERE id = ?`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	return db.pool.GetStats()
}

// Close closes the database connection and prepared statements
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}
	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}

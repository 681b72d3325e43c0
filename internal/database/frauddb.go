package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/receiptscan/internal/model"
)

// ReportStatusVerified marks a fraud report that passed manual review.
// Only verified reports count toward reputation lookups.
const ReportStatusVerified = "verified"

// ErrReportNotFound is returned when no analysis report exists for a receipt.
var ErrReportNotFound = errors.New("analysis report not found")

// FraudDB provides SQLite-based storage for fraud reports, verified
// businesses, and analysis reports. It manages connection pooling and
// provides methods for the queries the reputation producer needs.
//
// Design decision: We use a single database file rather than separate
// files per concern. This simplifies relationship queries and
// backup/restore operations.
type FraudDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures FraudDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a FraudDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*FraudDB, error) {
	dbPath := filepath.Join(dbDir, "receiptscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple readers can still
	// benefit from WAL mode.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FraudDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := fdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return fdb, nil
}

// Close closes the database connection.
func (fdb *FraudDB) Close() error {
	return fdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (fdb *FraudDB) createTables() error {
	schema := `
	-- Fraud reports are keyed by SHA-256 hash of the account number.
	-- The clear account number never reaches this table.
	CREATE TABLE IF NOT EXISTS fraud_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		description TEXT,
		reported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fraud_hash ON fraud_reports(account_hash);
	CREATE INDEX IF NOT EXISTS idx_fraud_status ON fraud_reports(status);

	-- Verified businesses for merchant lookups.
	CREATE TABLE IF NOT EXISTS businesses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		trust_score INTEGER NOT NULL DEFAULT 75,
		registered_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_businesses_name ON businesses(name);

	-- Analysis reports store complete results as JSON.
	CREATE TABLE IF NOT EXISTS analysis_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		receipt_id TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		verdict TEXT NOT NULL,
		trust_score INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_receipt ON analysis_reports(receipt_id);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON analysis_reports(timestamp);
	`

	_, err := fdb.db.ExecContext(context.Background(), schema)
	return err
}

// CountVerifiedFraudReports returns the number of verified fraud reports
// recorded for the given account hash.
func (fdb *FraudDB) CountVerifiedFraudReports(ctx context.Context, accountHash string) (int, error) {
	var count int
	err := fdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fraud_reports WHERE account_hash = ? AND status = ?`,
		accountHash, ReportStatusVerified,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fraud reports: %w", err)
	}
	return count, nil
}

// AddFraudReport records a fraud report for the given account hash.
func (fdb *FraudDB) AddFraudReport(ctx context.Context, accountHash, status, description string) error {
	_, err := fdb.db.ExecContext(ctx,
		`INSERT INTO fraud_reports (account_hash, status, description) VALUES (?, ?, ?)`,
		accountHash, status, description,
	)
	if err != nil {
		return fmt.Errorf("failed to add fraud report: %w", err)
	}
	return nil
}

// FindVerifiedBusiness looks up a verified business by exact name.
// Returns (nil, nil) when no verified business matches; absence of a
// match is an expected outcome, not an error.
func (fdb *FraudDB) FindVerifiedBusiness(ctx context.Context, name string) (*model.Merchant, error) {
	var m model.Merchant
	var verified int
	err := fdb.db.QueryRowContext(ctx,
		`SELECT id, name, verified, trust_score FROM businesses WHERE name = ? AND verified = 1 LIMIT 1`,
		name,
	).Scan(&m.BusinessID, &m.Name, &verified, &m.TrustScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}

	m.Verified = verified == 1
	return &m, nil
}

// AddBusiness registers a business record. When the merchant has no
// BusinessID, a new UUID is assigned and returned via the record.
func (fdb *FraudDB) AddBusiness(ctx context.Context, m *model.Merchant) error {
	if m.BusinessID == "" {
		m.BusinessID = uuid.NewString()
	}

	verified := 0
	if m.Verified {
		verified = 1
	}

	_, err := fdb.db.ExecContext(ctx,
		`INSERT INTO businesses (id, name, verified, trust_score) VALUES (?, ?, ?, ?)`,
		m.BusinessID, m.Name, verified, m.TrustScore,
	)
	if err != nil {
		return fmt.Errorf("failed to add business: %w", err)
	}
	return nil
}

// SaveAnalysisReport stores a completed analysis report as JSON.
func (fdb *FraudDB) SaveAnalysisReport(ctx context.Context, report *model.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = fdb.db.ExecContext(ctx,
		`INSERT INTO analysis_reports (receipt_id, verdict, trust_score, report_json) VALUES (?, ?, ?, ?)`,
		report.ReceiptID, string(report.Verdict), report.TrustScore, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis report: %w", err)
	}
	return nil
}

// LatestAnalysisReport returns the most recent stored report for the
// given receipt ID, or ErrReportNotFound when none exists.
func (fdb *FraudDB) LatestAnalysisReport(ctx context.Context, receiptID string) (*model.AnalysisReport, error) {
	var raw string
	err := fdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM analysis_reports WHERE receipt_id = ? ORDER BY timestamp DESC, id DESC LIMIT 1`,
		receiptID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis reports: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored report: %w", err)
	}
	return &report, nil
}

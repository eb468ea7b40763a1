// Package database is an optional Postgres audit log of resolutions. The
// record files stay the source of truth; the table is an append-only
// operator-facing trail of what the reconciler decided and when.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"predtrack/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS resolution_audit (
			id SERIAL PRIMARY KEY,
			record_id TEXT NOT NULL,
			provider TEXT,
			slug TEXT,
			outcome TEXT,
			final_prob DOUBLE PRECISION,
			status TEXT NOT NULL,
			resolved_date TEXT NOT NULL,
			recorded_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// RecordResolution appends one audit row for a freshly resolved record.
// Implements models.ResolutionSink.
func (db *DB) RecordResolution(ctx context.Context, rec *models.Record) error {
	var provider, slug, outcome string
	var finalProb float64
	if rec.Market != nil {
		provider = rec.Market.Provider
		slug = rec.Market.Slug
		outcome = rec.Market.Outcome
		finalProb = rec.Market.FinalProb
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO resolution_audit (
			record_id, provider, slug, outcome, final_prob, status, resolved_date, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		rec.ID, provider, slug, outcome, finalProb, rec.Status, rec.ResolvedDate, time.Now().UTC())
	return err
}

// AuditEntry is one row of the resolution trail.
type AuditEntry struct {
	RecordID     string
	Provider     string
	Slug         string
	Outcome      string
	FinalProb    float64
	Status       string
	ResolvedDate string
	RecordedAt   time.Time
}

// RecentResolutions returns the newest audit rows, most recent first.
func (db *DB) RecentResolutions(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT record_id, provider, slug, outcome, final_prob, status, resolved_date, recorded_at
		FROM resolution_audit
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var provider, slug, outcome sql.NullString
		if err := rows.Scan(&e.RecordID, &provider, &slug, &outcome, &e.FinalProb, &e.Status, &e.ResolvedDate, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Provider = provider.String
		e.Slug = slug.String
		e.Outcome = outcome.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

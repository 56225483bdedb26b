// Package archive keeps a SQLite audit trail of ticket dispatch attempts.
// The archive is write-only on the message path: it feeds the ops API and
// the daily digest, and a failed write never changes the user-visible
// outcome of a dispatch. It is not a retry queue.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ntw-markets/supportbot/pkg/protocol"
)

// Record is one archived dispatch attempt.
type Record struct {
	ID            string    `json:"id"`
	Ref           string    `json:"ref"`
	Category      string    `json:"category"`
	SubmitterID   string    `json:"submitter_id"`
	Username      string    `json:"username,omitempty"`
	OriginalQuery string    `json:"original_query"`
	Report        string    `json:"report"`
	Delivered     bool      `json:"delivered"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter constrains archive queries.
type Filter struct {
	Category  string
	Delivered *bool
	Since     time.Time
	Limit     int // 0 = no limit
}

// Store persists dispatch records in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the archive database and runs migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}

	// WAL mode so ops API reads don't block dispatch-path writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: wal: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS dispatches (
			id             TEXT PRIMARY KEY,
			ref            TEXT NOT NULL,
			category       TEXT NOT NULL,
			submitter_id   TEXT NOT NULL DEFAULT '',
			username       TEXT NOT NULL DEFAULT '',
			original_query TEXT NOT NULL DEFAULT '',
			report         TEXT NOT NULL,
			delivered      INTEGER NOT NULL,
			created_at     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_dispatches_created ON dispatches(created_at);
		CREATE INDEX IF NOT EXISTS idx_dispatches_category ON dispatches(category);
	`)
	if err != nil {
		return fmt.Errorf("archive: migrate: %w", err)
	}
	return nil
}

// Record stores one dispatch attempt and its outcome.
func (s *Store) Record(report protocol.TicketReport, delivered bool) error {
	deliveredInt := 0
	if delivered {
		deliveredInt = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO dispatches (id, ref, category, submitter_id, username, original_query, report, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), report.Ref, report.Category, report.Submitter.ID, report.Submitter.Username,
		report.OriginalQuery, report.Body, deliveredInt, report.FiledAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("archive: record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID or ticket reference.
func (s *Store) Get(idOrRef string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, ref, category, submitter_id, username, original_query, report, delivered, created_at
		FROM dispatches WHERE id = ? OR ref = ?
	`, idOrRef, idOrRef)

	r, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("archive: ticket %q not found", idOrRef)
		}
		return nil, fmt.Errorf("archive: get: %w", err)
	}
	return r, nil
}

// List returns records matching the filter, newest first.
func (s *Store) List(filter Filter) ([]*Record, error) {
	query, args := buildWhere(`
		SELECT id, ref, category, submitter_id, username, original_query, report, delivered, created_at
		FROM dispatches`, filter)
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("archive: list scan: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of records matching the filter.
func (s *Store) Count(filter Filter) (int, error) {
	query, args := buildWhere("SELECT COUNT(*) FROM dispatches", filter)

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("archive: count: %w", err)
	}
	return count, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection (for testing).
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- helpers ---

func buildWhere(base string, filter Filter) (string, []any) {
	query := base + " WHERE 1=1"
	var args []any

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Delivered != nil {
		query += " AND delivered = ?"
		if *filter.Delivered {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	return query, args
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(s scannable) (*Record, error) {
	var r Record
	var delivered int
	var createdAt string

	err := s.Scan(&r.ID, &r.Ref, &r.Category, &r.SubmitterID, &r.Username,
		&r.OriginalQuery, &r.Report, &delivered, &createdAt)
	if err != nil {
		return nil, err
	}

	r.Delivered = delivered != 0
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

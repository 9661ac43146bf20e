// Package store persists visitor metrics and contact submissions in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Timestamps are written as UTC text in SQLite's own datetime layout so that
// lexical comparisons agree. The driver hands DATETIME columns back as time.Time.
const timeLayout = "2006-01-02 15:04:05"

// Retention is how long visitor rows are kept before privacy cleanup.
const Retention = 365 * 24 * time.Hour

var ErrNotFound = errors.New("store: not found")

// Outcome of a contact submission.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeHandedOff Outcome = "handed_off"
	OutcomeFailed    Outcome = "failed"
)

type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type Submission struct {
	ID          int64     `json:"id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Channel     string    `json:"channel"`
	Outcome     Outcome   `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Stats struct {
	TotalVisitors        int64             `json:"total_visitors"`
	UniqueVisitors       int64             `json:"unique_visitors"`
	VisitorsToday        int64             `json:"visitors_today"`
	VisitorsThisWeek     int64             `json:"visitors_this_week"`
	TotalSubmissions     int64             `json:"total_submissions"`
	SubmissionsByOutcome map[Outcome]int64 `json:"submissions_by_outcome"`
	RecentVisitors       []Visit           `json:"recent_visitors"`
	RecentSubmissions    []Submission      `json:"recent_submissions"`
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp);
CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sender_name TEXT NOT NULL,
	sender_email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	channel TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_created_at ON submissions (created_at);
`

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent inserts.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordSubmission stores sub and returns its id.
func (s *Store) RecordSubmission(ctx context.Context, sub Submission) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (sender_name, sender_email, subject, message, channel, outcome, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.SenderName, sub.SenderEmail, sub.Subject, sub.Message, sub.Channel, string(sub.Outcome), sub.Error, formatTime(sub.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("record submission: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = v.Timestamp.UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_name, sender_email, subject, message, channel, outcome, error, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var outcome string
		if err := rows.Scan(&sub.ID, &sub.SenderName, &sub.SenderEmail, &sub.Subject, &sub.Message, &sub.Channel, &outcome, &sub.Error, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Outcome = Outcome(outcome)
		sub.CreatedAt = sub.CreatedAt.UTC()
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) DeleteSubmission(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete submission %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeVisitorsBefore deletes visitor rows older than cutoff.
func (s *Store) PurgeVisitorsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM visitors WHERE timestamp < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purge visitors: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarises both tables as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{SubmissionsByOutcome: make(map[Outcome]int64)}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, "SELECT COUNT(*) FROM visitors", nil},
		{&stats.UniqueVisitors, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil},
		{&stats.VisitorsToday, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{formatTime(startOfDay)}},
		{&stats.VisitorsThisWeek, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{formatTime(weekAgo)}},
		{&stats.TotalSubmissions, "SELECT COUNT(*) FROM submissions", nil},
	}
	for _, q := range counts {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(*) FROM submissions GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("stats by outcome: %w", err)
	}
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		stats.SubmissionsByOutcome[Outcome(outcome)] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentSubmissions, err = s.RecentSubmissions(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}

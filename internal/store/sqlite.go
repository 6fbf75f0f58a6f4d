package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/mindguard/internal/domain"
)

//go:embed schema.sql
var schema string

// SQLite is the Store backed by a local sqlite database
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

const insertEntry = `INSERT INTO mood_entries
	(id, date, mood, text, sentiment, risk_level, confidence, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, e domain.MoodEntry) error {
	_, err := db.ExecContext(ctx, insertEntry,
		e.ID, e.Date.UTC(), e.Mood, e.Text, string(e.Sentiment), string(e.RiskLevel), e.Confidence, e.CreatedAt.UTC(),
	)
	return err
}

// Append adds an entry at the end of the history
func (s *SQLite) Append(ctx context.Context, entry domain.MoodEntry) error {
	if err := insert(ctx, s.db, entry); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// All returns every entry in insertion order
func (s *SQLite) All(ctx context.Context) ([]domain.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, mood, text, sentiment, risk_level, confidence, created_at
		 FROM mood_entries ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.MoodEntry{}
	for rows.Next() {
		var (
			e         domain.MoodEntry
			sentiment string
			risk      string
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Mood, &e.Text, &sentiment, &risk, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Sentiment = domain.Sentiment(sentiment)
		e.RiskLevel = domain.RiskLevel(risk)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// Replace rewrites the whole history in one transaction
func (s *SQLite) Replace(ctx context.Context, entries []domain.MoodEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM mood_entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for _, e := range entries {
		if err := insert(ctx, tx, e); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Clear removes every entry
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM mood_entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

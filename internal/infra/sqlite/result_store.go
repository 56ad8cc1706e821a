package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"proctor-quiz-service/internal/domain"
)

// ResultStore persists submissions in a local SQLite database.
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(path string) (*ResultStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "results.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// One connection keeps writers serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &ResultStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quiz_results (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			answers_json TEXT NOT NULL,
			score INTEGER NOT NULL,
			reported_score INTEGER,
			tab_switches INTEGER NOT NULL DEFAULT 0,
			time_taken INTEGER NOT NULL DEFAULT 0,
			submitted_at_unix_ms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *ResultStore) Append(ctx context.Context, submission domain.Submission) error {
	answers, err := json.Marshal(submission.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	var reported sql.NullInt64
	if submission.ReportedScore != nil {
		reported = sql.NullInt64{Int64: int64(*submission.ReportedScore), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_results
			(submission_id, name, email, answers_json, score, reported_score, tab_switches, time_taken, submitted_at_unix_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		submission.ID,
		submission.Name,
		submission.Email,
		string(answers),
		submission.Score,
		reported,
		submission.TabSwitches,
		submission.TimeTaken,
		submission.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT submission_id, name, email, answers_json, score, reported_score, tab_switches, time_taken, submitted_at_unix_ms
		FROM quiz_results
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Submission, 0)
	for rows.Next() {
		var (
			sub         domain.Submission
			answersJSON string
			reported    sql.NullInt64
			submittedMs int64
		)
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Email,
			&answersJSON,
			&sub.Score,
			&reported,
			&sub.TabSwitches,
			&sub.TimeTaken,
			&submittedMs,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(answersJSON), &sub.Answers); err != nil {
			return nil, fmt.Errorf("%w: answers of %d: %v", domain.ErrCorruptResults, sub.ID, err)
		}
		if reported.Valid {
			v := int(reported.Int64)
			sub.ReportedScore = &v
		}
		sub.Timestamp = time.UnixMilli(submittedMs).UTC()
		results = append(results, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

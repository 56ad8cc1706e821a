package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"proctor-quiz-service/internal/domain"
)

// ResultStore persists submissions in the quiz_results table.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Append(ctx context.Context, submission domain.Submission) error {
	answers, err := json.Marshal(submission.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	// int64 arguments let pgx reject values that do not fit the INTEGER columns.
	var reported *int64
	if submission.ReportedScore != nil {
		v := int64(*submission.ReportedScore)
		reported = &v
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_results
			(submission_id, name, email, answers, score, reported_score, tab_switches, time_taken, submitted_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9)`,
		submission.ID,
		submission.Name,
		submission.Email,
		string(answers),
		int64(submission.Score),
		reported,
		int64(submission.TabSwitches),
		int64(submission.TimeTaken),
		submission.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT submission_id, name, email, answers, score, reported_score, tab_switches, time_taken, submitted_at
		FROM quiz_results
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Submission, 0)
	for rows.Next() {
		var (
			sub                           domain.Submission
			answers                       []byte
			score, tabSwitches, timeSpent int32
			reported                      *int32
		)
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Email,
			&answers,
			&score,
			&reported,
			&tabSwitches,
			&timeSpent,
			&sub.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(answers, &sub.Answers); err != nil {
			return nil, fmt.Errorf("%w: answers of %d: %v", domain.ErrCorruptResults, sub.ID, err)
		}
		sub.Score = int(score)
		sub.TabSwitches = int(tabSwitches)
		sub.TimeTaken = int(timeSpent)
		if reported != nil {
			v := int(*reported)
			sub.ReportedScore = &v
		}
		sub.Timestamp = sub.Timestamp.UTC()
		results = append(results, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

package memory

import (
	"context"
	"sync"

	"proctor-quiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.Submission
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Append(_ context.Context, submission domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	submission.Answers = submission.Answers.Clone()
	s.results = append(s.results, submission)
	return nil
}

func (s *ResultStore) List(_ context.Context) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, len(s.results))
	copy(out, s.results)
	return out, nil
}

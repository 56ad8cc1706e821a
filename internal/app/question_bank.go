package app

import (
	"context"
	"fmt"
	"strings"

	"proctor-quiz-service/internal/domain"
)

// QuestionLoader fetches the question bank from its source (file, fixture, ...).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionBank is the read-only question list loaded once at startup.
type QuestionBank struct {
	questions []domain.Question
}

// LoadQuestionBank loads and validates the bank. Any error is meant to stop startup.
func LoadQuestionBank(ctx context.Context, loader QuestionLoader) (*QuestionBank, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return &QuestionBank{questions: questions}, nil
}

func validateQuestion(q domain.Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", domain.ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: needs at least two options", domain.ErrInvalidQuestion)
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("%w: answer %d out of range", domain.ErrInvalidQuestion, q.Answer)
	}
	return nil
}

// Questions returns a copy of the bank.
func (b *QuestionBank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

func (b *QuestionBank) Len() int {
	return len(b.questions)
}

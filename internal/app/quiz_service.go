package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"proctor-quiz-service/internal/domain"
)

// ResultStore abstracts how submissions are persisted (file, Redis, Postgres, etc).
type ResultStore interface {
	Append(ctx context.Context, submission domain.Submission) error
	List(ctx context.Context) ([]domain.Submission, error)
}

// Notifier pushes a submission summary somewhere outside the service.
type Notifier interface {
	Notify(ctx context.Context, submission domain.Submission, total int) error
}

// QuizService contains the server-side quiz use cases.
type QuizService struct {
	bank     *QuestionBank
	results  ResultStore
	notifier Notifier
	feed     *Feed
	now      func() time.Time
	log      zerolog.Logger

	idMu   sync.Mutex
	lastID int64
}

// Option customises a QuizService.
type Option func(*QuizService)

// WithNotifier enables best-effort notifications after each append.
func WithNotifier(n Notifier) Option {
	return func(s *QuizService) { s.notifier = n }
}

// WithClock is used by tests for deterministic ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *QuizService) { s.log = log.With().Str("component", "quiz_service").Logger() }
}

func NewQuizService(bank *QuestionBank, results ResultStore, opts ...Option) *QuizService {
	s := &QuizService{
		bank:    bank,
		results: results,
		feed:    NewFeed(),
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Questions returns the loaded question bank in order.
func (s *QuizService) Questions() []domain.Question {
	return s.bank.Questions()
}

// Submit validates and persists a finished session. The score is recomputed from
// the server's question bank; the client's claim is kept as ReportedScore.
func (s *QuizService) Submit(ctx context.Context, req domain.SubmissionRequest) (domain.Submission, error) {
	if err := req.Validate(); err != nil {
		return domain.Submission{}, err
	}

	now := s.now().UTC()
	submission := domain.Submission{
		ID:            s.nextID(now),
		Name:          req.Name,
		Email:         req.Email,
		Answers:       req.Answers.Clone(),
		Score:         domain.Score(s.bank.Questions(), req.Answers),
		ReportedScore: req.Score,
		TabSwitches:   req.TabSwitches,
		TimeTaken:     req.TimeTaken,
		Timestamp:     now,
	}

	if err := s.results.Append(ctx, submission); err != nil {
		return domain.Submission{}, fmt.Errorf("append result: %w", err)
	}

	s.log.Info().
		Int64("id", submission.ID).
		Str("name", submission.Name).
		Int("score", submission.Score).
		Int("tab_switches", submission.TabSwitches).
		Msg("submission saved")

	s.notify(ctx, submission)
	s.feed.Publish(submission)
	return submission, nil
}

// nextID returns the creation time in unix milliseconds, bumped past the
// previous id so two submissions in the same millisecond stay distinct.
func (s *QuizService) nextID(now time.Time) int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := max(s.lastID+1, now.UnixMilli())
	s.lastID = id
	return id
}

// Results lists every persisted submission in submission order.
func (s *QuizService) Results(ctx context.Context) ([]domain.Submission, error) {
	results, err := s.results.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if results == nil {
		results = []domain.Submission{}
	}
	return results, nil
}

// Subscribe returns a channel that receives each newly saved submission.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe() (<-chan domain.Submission, func()) {
	return s.feed.Subscribe()
}

func (s *QuizService) notify(ctx context.Context, submission domain.Submission) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, submission, s.bank.Len()); err != nil {
		s.log.Warn().Err(err).Int64("id", submission.ID).Msg("webhook failed")
	}
}

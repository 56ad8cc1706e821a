package session

import (
	"errors"

	"proctor-quiz-service/internal/domain"
)

var (
	// ErrNoQuestions is returned when a quiz is started before questions are loaded.
	ErrNoQuestions = errors.New("no questions loaded")
	// ErrOptionOutOfRange is returned when a selection is not one of the question's options.
	ErrOptionOutOfRange = errors.New("option out of range")
)

// Step is the screen the candidate is on.
type Step string

const (
	StepLanding Step = "landing"
	StepQuiz    Step = "quiz"
	StepLoading Step = "loading"
	StepResult  Step = "result"
	StepReview  Step = "review"
	StepAdmin   Step = "admin"
)

type Candidate struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// State is the whole client session. It is a plain value: Reduce never
// mutates the State it is given.
type State struct {
	Step      Step              `json:"step"`
	Candidate Candidate         `json:"candidate"`
	Questions []domain.Question `json:"questions"`
	// AnswersHidden is set when the server withheld the correct options.
	AnswersHidden bool             `json:"answersHidden,omitempty"`
	Current       int              `json:"current"`
	Answers       domain.AnswerMap `json:"answers"`
	TabSwitches   int              `json:"tabSwitches"`
	Elapsed       int              `json:"elapsed"`
	Unfocused     bool             `json:"unfocused"`
	Alert         bool             `json:"alert"`
	AlertSeq      uint64           `json:"alertSeq"`

	Fetching  bool                `json:"fetching,omitempty"`
	Results   []domain.Submission `json:"results,omitempty"`
	Receipt   *domain.Receipt     `json:"receipt,omitempty"`
	LastError string              `json:"lastError,omitempty"`
}

// New returns a landing-page session over the given question set.
func New(questions []domain.Question, answersHidden bool) State {
	return State{
		Step:          StepLanding,
		Questions:     questions,
		AnswersHidden: answersHidden,
		Answers:       domain.AnswerMap{},
	}
}

// Score is derived from the answers; when the correct options were withheld
// the server's receipt is the only source.
func (s State) Score() int {
	if s.AnswersHidden {
		if s.Receipt != nil {
			return s.Receipt.Score
		}
		return 0
	}
	return domain.Score(s.Questions, s.Answers)
}

func (s State) Total() int {
	return len(s.Questions)
}

// Question returns the question at the current index.
func (s State) Question() (domain.Question, bool) {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return domain.Question{}, false
	}
	return s.Questions[s.Current], true
}

// Selected returns the option chosen for question i.
func (s State) Selected(i int) (int, bool) {
	opt, ok := s.Answers[i]
	return opt, ok
}

func (s State) Answered() int {
	return len(s.Answers)
}

// Request builds the submission payload for the current session.
func (s State) Request() domain.SubmissionRequest {
	req := domain.SubmissionRequest{
		Name:        s.Candidate.Name,
		Email:       s.Candidate.Email,
		Answers:     s.Answers.Clone(),
		TabSwitches: s.TabSwitches,
		TimeTaken:   s.Elapsed,
	}
	if req.Answers == nil {
		req.Answers = domain.AnswerMap{}
	}
	if !s.AnswersHidden {
		score := s.Score()
		req.Score = &score
	}
	return req
}

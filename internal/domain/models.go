package domain

import (
	"math"
	"strings"
	"time"
)

// Question models an MCQ question. It is identified by its position in the bank.
type Question struct {
	Prompt  string   `json:"question" yaml:"question"`
	Options []string `json:"options" yaml:"options"`
	Answer  int      `json:"answer" yaml:"answer"` // index into Options
}

// AnswerMap maps a question position to the selected option index.
// Unanswered positions are absent.
type AnswerMap map[int]int

// Clone returns an independent copy; a nil map stays nil.
func (m AnswerMap) Clone() AnswerMap {
	if m == nil {
		return nil
	}
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MaxCounter bounds the score and counters so every store keeps them exactly
// (the SQL backends use 32-bit INTEGER columns).
const MaxCounter = math.MaxInt32

// SubmissionRequest is what a client sends when it finishes a quiz.
type SubmissionRequest struct {
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Answers     AnswerMap `json:"answers"`
	Score       *int      `json:"score,omitempty"`
	TabSwitches int       `json:"tabSwitches"`
	TimeTaken   int       `json:"timeTaken"`
}

// Validate checks the fields the server requires before persisting.
func (r SubmissionRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if r.Answers == nil {
		return ErrAnswersRequired
	}
	if !inCounterRange(r.TabSwitches) || !inCounterRange(r.TimeTaken) {
		return ErrInvalidSubmission
	}
	if r.Score != nil && !inCounterRange(*r.Score) {
		return ErrInvalidSubmission
	}
	return nil
}

func inCounterRange(v int) bool {
	return v >= 0 && v <= MaxCounter
}

// Submission is the durable record of one submitted session.
type Submission struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Answers       AnswerMap `json:"answers"`
	Score         int       `json:"score"`
	ReportedScore *int      `json:"reportedScore,omitempty"`
	TabSwitches   int       `json:"tabSwitches"`
	TimeTaken     int       `json:"timeTaken"`
	Timestamp     time.Time `json:"timestamp"`
}

// Receipt acknowledges a persisted submission.
type Receipt struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Score   int    `json:"score"`
}

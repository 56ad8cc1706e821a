package domain

import "errors"

var (
	// ErrNameRequired is returned when a candidate name is missing or blank.
	ErrNameRequired = errors.New("candidate name is required")
	// ErrAnswersRequired is returned when a submission carries no answer map.
	ErrAnswersRequired = errors.New("answers are required")
	// ErrInvalidSubmission covers other malformed submission fields.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrNoQuestions indicates the question source produced an empty bank.
	ErrNoQuestions = errors.New("question bank is empty")
	// ErrInvalidQuestion indicates a question failed validation at load time.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrCorruptResults indicates the persisted results could not be decoded.
	ErrCorruptResults = errors.New("results store is corrupt")
)

// IsValidation reports whether err is a client-side submission error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrAnswersRequired) ||
		errors.Is(err, ErrInvalidSubmission)
}

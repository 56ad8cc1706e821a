package session

import (
	"time"

	"proctor-quiz-service/internal/domain"
)

// AlertDuration is how long the focus-loss warning stays up.
const AlertDuration = 3 * time.Second

// Effect is work requested by a transition. Its outcome comes back as an Event.
type Effect interface {
	effect()
}

type (
	// SubmitEffect posts the finished session; answered by SubmitSucceeded or SubmitFailed.
	SubmitEffect struct {
		Request domain.SubmissionRequest
	}
	// FetchResultsEffect loads the admin listing; answered by ResultsLoaded or ResultsFailed.
	FetchResultsEffect struct{}
	// ClearAlertEffect schedules AlertExpired{Seq} after the given delay.
	ClearAlertEffect struct {
		Seq   uint64
		After time.Duration
	}
)

func (SubmitEffect) effect()       {}
func (FetchResultsEffect) effect() {}
func (ClearAlertEffect) effect()   {}

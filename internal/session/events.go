package session

import "proctor-quiz-service/internal/domain"

// Event is an input to Reduce.
type Event interface {
	event()
}

// Signal names the browser-style source of a focus loss.
type Signal string

const (
	SignalHidden Signal = "hidden"
	SignalBlur   Signal = "blur"
)

type (
	QuestionsLoaded struct {
		Questions     []domain.Question
		AnswersHidden bool
	}
	Start struct {
		Name  string
		Email string
	}
	Next   struct{}
	Prev   struct{}
	Select struct {
		Option int
	}
	Submit          struct{}
	SubmitSucceeded struct {
		Receipt domain.Receipt
	}
	SubmitFailed struct {
		Err error
	}
	Tick      struct{}
	FocusLost struct {
		Signal Signal
	}
	FocusRegained struct{}
	AlertExpired  struct {
		Seq uint64
	}
	Review        struct{}
	Back          struct{}
	OpenAdmin     struct{}
	ResultsLoaded struct {
		Records []domain.Submission
	}
	ResultsFailed struct {
		Err error
	}
	Restart struct{}
)

func (QuestionsLoaded) event() {}
func (Start) event()           {}
func (Next) event()            {}
func (Prev) event()            {}
func (Select) event()          {}
func (Submit) event()          {}
func (SubmitSucceeded) event() {}
func (SubmitFailed) event()    {}
func (Tick) event()            {}
func (FocusLost) event()       {}
func (FocusRegained) event()   {}
func (AlertExpired) event()    {}
func (Review) event()          {}
func (Back) event()            {}
func (OpenAdmin) event()       {}
func (ResultsLoaded) event()   {}
func (ResultsFailed) event()   {}
func (Restart) event()         {}

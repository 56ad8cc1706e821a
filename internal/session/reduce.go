package session

import (
	"strings"

	"proctor-quiz-service/internal/domain"
)

// Reduce applies one event. Events that do not apply to the current step are
// ignored and return the state unchanged; guard failures return an error and
// leave the state unchanged.
func Reduce(s State, ev Event) (State, []Effect, error) {
	switch e := ev.(type) {
	case QuestionsLoaded:
		if s.Step != StepLanding {
			return s, nil, nil
		}
		s.Questions = e.Questions
		s.AnswersHidden = e.AnswersHidden
		return s, nil, nil

	case Start:
		if s.Step != StepLanding {
			return s, nil, nil
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return s, nil, domain.ErrNameRequired
		}
		if len(s.Questions) == 0 {
			return s, nil, ErrNoQuestions
		}
		s.Step = StepQuiz
		s.Candidate = Candidate{Name: name, Email: strings.TrimSpace(e.Email)}
		s.Current = 0
		if s.Answers == nil {
			s.Answers = domain.AnswerMap{}
		}
		s.LastError = ""
		return s, nil, nil

	case Next:
		if s.Step == StepQuiz && s.Current < len(s.Questions)-1 {
			s.Current++
		}
		return s, nil, nil

	case Prev:
		if s.Step == StepQuiz && s.Current > 0 {
			s.Current--
		}
		return s, nil, nil

	case Select:
		if s.Step != StepQuiz {
			return s, nil, nil
		}
		q, ok := s.Question()
		if !ok || e.Option < 0 || e.Option >= len(q.Options) {
			return s, nil, ErrOptionOutOfRange
		}
		answers := s.Answers.Clone()
		if answers == nil {
			answers = domain.AnswerMap{}
		}
		answers[s.Current] = e.Option
		s.Answers = answers
		return s, nil, nil

	case Submit:
		if s.Step != StepQuiz {
			return s, nil, nil
		}
		s.Step = StepLoading
		s.Unfocused = false
		s.LastError = ""
		return s, []Effect{SubmitEffect{Request: s.Request()}}, nil

	case SubmitSucceeded:
		if s.Step != StepLoading {
			return s, nil, nil
		}
		receipt := e.Receipt
		s.Step = StepResult
		s.Receipt = &receipt
		s.Alert = false
		return s, nil, nil

	case SubmitFailed:
		if s.Step != StepLoading {
			return s, nil, nil
		}
		s.Step = StepQuiz
		s.LastError = errText(e.Err, "submit failed")
		return s, nil, nil

	case Tick:
		if s.Step == StepQuiz {
			s.Elapsed++
		}
		return s, nil, nil

	case FocusLost:
		if s.Step != StepQuiz || s.Unfocused {
			return s, nil, nil
		}
		s.Unfocused = true
		s.TabSwitches++
		s.AlertSeq++
		s.Alert = true
		return s, []Effect{ClearAlertEffect{Seq: s.AlertSeq, After: AlertDuration}}, nil

	case FocusRegained:
		if s.Step == StepQuiz {
			s.Unfocused = false
		}
		return s, nil, nil

	case AlertExpired:
		if e.Seq == s.AlertSeq {
			s.Alert = false
		}
		return s, nil, nil

	case Review:
		if s.Step == StepResult {
			s.Step = StepReview
		}
		return s, nil, nil

	case Back:
		switch s.Step {
		case StepReview:
			s.Step = StepResult
		case StepAdmin:
			s.Step = StepLanding
		}
		return s, nil, nil

	case OpenAdmin:
		if (s.Step != StepLanding && s.Step != StepAdmin) || s.Fetching {
			return s, nil, nil
		}
		s.Fetching = true
		return s, []Effect{FetchResultsEffect{}}, nil

	case ResultsLoaded:
		if !s.Fetching {
			return s, nil, nil
		}
		s.Fetching = false
		if s.Step == StepLanding || s.Step == StepAdmin {
			s.Step = StepAdmin
			s.Results = e.Records
			s.LastError = ""
		}
		return s, nil, nil

	case ResultsFailed:
		if !s.Fetching {
			return s, nil, nil
		}
		s.Fetching = false
		s.LastError = errText(e.Err, "could not load results")
		return s, nil, nil

	case Restart:
		if s.Step != StepResult && s.Step != StepReview {
			return s, nil, nil
		}
		return New(s.Questions, s.AnswersHidden), nil, nil
	}
	return s, nil, nil
}

func errText(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

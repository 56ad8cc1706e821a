package domain

import "testing"

func TestScoreCountsMatchingPositions(t *testing.T) {
	questions := []Question{
		{Prompt: "a", Options: []string{"x", "y"}, Answer: 1},
		{Prompt: "b", Options: []string{"x", "y"}, Answer: 0},
	}

	if got := Score(questions, AnswerMap{0: 1, 1: 1}); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
	if got := Score(questions, AnswerMap{0: 1, 1: 0}); got != 2 {
		t.Fatalf("expected score 2, got %d", got)
	}
	if got := Score(questions, nil); got != 0 {
		t.Fatalf("expected score 0 for no answers, got %d", got)
	}
}

func TestScoreIgnoresOutOfRangePositions(t *testing.T) {
	questions := []Question{{Prompt: "a", Options: []string{"x", "y"}, Answer: 0}}

	got := Score(questions, AnswerMap{0: 0, 1: 0, 7: 0, -1: 0})
	if got != 1 {
		t.Fatalf("expected extra keys to be ignored, got %d", got)
	}
}

func TestScoreBounds(t *testing.T) {
	questions := make([]Question, 40)
	answers := AnswerMap{}
	for i := range questions {
		questions[i] = Question{Prompt: "q", Options: []string{"a", "b", "c", "d"}, Answer: i % 4}
		answers[i] = i % 4
	}
	if got := Score(questions, answers); got != 40 {
		t.Fatalf("expected full marks, got %d", got)
	}
	for i := range answers {
		answers[i] = (i + 1) % 4
	}
	if got := Score(questions, answers); got != 0 {
		t.Fatalf("expected zero, got %d", got)
	}
}

func TestSubmissionRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  SubmissionRequest
		want error
	}{
		{"ok", SubmissionRequest{Name: "Ada", Answers: AnswerMap{0: 1}}, nil},
		{"empty answers ok", SubmissionRequest{Name: "Ada", Answers: AnswerMap{}}, nil},
		{"blank name", SubmissionRequest{Name: "  ", Answers: AnswerMap{}}, ErrNameRequired},
		{"missing answers", SubmissionRequest{Name: "Ada"}, ErrAnswersRequired},
		{"negative switches", SubmissionRequest{Name: "Ada", Answers: AnswerMap{}, TabSwitches: -1}, ErrInvalidSubmission},
		{"time at bound", SubmissionRequest{Name: "Ada", Answers: AnswerMap{}, TimeTaken: MaxCounter}, nil},
		{"time past bound", SubmissionRequest{Name: "Ada", Answers: AnswerMap{}, TimeTaken: MaxCounter + 1}, ErrInvalidSubmission},
		{"switches past bound", SubmissionRequest{Name: "Ada", Answers: AnswerMap{}, TabSwitches: MaxCounter + 1}, ErrInvalidSubmission},
		{"claimed score past bound", SubmissionRequest{Name: "Ada", Answers: AnswerMap{}, Score: intPtr(MaxCounter + 1)}, ErrInvalidSubmission},
	}
	for _, tc := range cases {
		if got := tc.req.Validate(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func intPtr(v int) *int {
	return &v
}

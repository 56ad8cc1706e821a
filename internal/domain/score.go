package domain

// Score counts the positions whose selected option equals the correct one.
// Answers for positions outside the bank are ignored, so 0 <= score <= len(questions).
func Score(questions []Question, answers AnswerMap) int {
	score := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.Answer {
			score++
		}
	}
	return score
}
